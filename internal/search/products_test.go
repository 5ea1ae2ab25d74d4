package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

type fakeES struct {
	mu      sync.Mutex
	queries []map[string]any
	indexed []string
}

func (f *fakeES) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		var q map[string]any
		_ = json.NewDecoder(r.Body).Decode(&q)
		f.queries = append(f.queries, q)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_source":{"product_id":"P003"}},{"_source":{"product_id":"P001"}}]}}`)
	case strings.Contains(r.URL.Path, "/_doc/"):
		f.indexed = append(f.indexed, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{}`)
	}
}

func newFake(t *testing.T) (*fakeES, *ProductSearcher) {
	t.Helper()
	f := &fakeES{}
	srv := httptest.NewServer(http.HandlerFunc(f.handler))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), srv.URL, "", "")
	require.NoError(t, err)
	return f, NewProductSearcher(client, "products")
}

func TestSearchIDs(t *testing.T) {
	f, s := newFake(t)

	ids, err := s.SearchIDs(context.Background(), "rice", "Grains")
	require.NoError(t, err)
	assert.Equal(t, []string{"P003", "P001"}, ids)

	require.Len(t, f.queries, 1)
	boolQ := f.queries[0]["query"].(map[string]any)["bool"].(map[string]any)
	assert.Contains(t, boolQ, "filter")
}

func TestSearchIDs_EmptyQuerySkipsCluster(t *testing.T) {
	f, s := newFake(t)

	ids, err := s.SearchIDs(context.Background(), "   ", "")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, f.queries)
}

func TestIndexProducts(t *testing.T) {
	f, s := newFake(t)

	err := s.IndexProducts(context.Background(), []models.Product{
		{ProductID: "P001", Name: "Rice", Category: "Grains", Price: decimal.NewFromInt(1)},
		{ProductID: "P002", Name: "Tea", Category: "Beverages", Price: decimal.NewFromInt(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"P001", "P002"}, f.indexed)
}

func TestBuildQuery_NoCategory(t *testing.T) {
	q := buildQuery("tea", "")
	boolQ := q["query"].(map[string]any)["bool"].(map[string]any)
	assert.NotContains(t, boolQ, "filter")
	assert.Equal(t, maxHits, q["size"])
}
