package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

const maxHits = 100

type ProductSearcher struct {
	Client *elasticsearch.Client
	Index  string
}

func NewProductSearcher(client *elasticsearch.Client, index string) *ProductSearcher {
	return &ProductSearcher{Client: client, Index: index}
}

type productDoc struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Supplier  string `json:"supplier"`
}

func buildQuery(q, category string) map[string]any {
	must := []any{
		map[string]any{
			"match": map[string]any{
				"name": map[string]any{"query": q, "fuzziness": "AUTO", "operator": "and"},
			},
		},
	}
	boolQ := map[string]any{"must": must}
	if category != "" {
		boolQ["filter"] = []any{
			map[string]any{"term": map[string]any{"category.keyword": category}},
		}
	}
	return map[string]any{
		"size":    maxHits,
		"_source": []string{"product_id"},
		"query":   map[string]any{"bool": boolQ},
	}
}

// SearchIDs returns matching product ids ordered by relevance.
func (s *ProductSearcher) SearchIDs(ctx context.Context, q, category string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(q, category)); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es search: %s: %s", res.Status(), body)
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}

	ids := make([]string, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.Source.ProductID)
	}
	return ids, nil
}

// IndexProducts upserts every product document by id.
func (s *ProductSearcher) IndexProducts(ctx context.Context, items []models.Product) error {
	for _, p := range items {
		body, err := json.Marshal(productDoc{
			ProductID: p.ProductID,
			Name:      p.Name,
			Category:  p.Category,
			Supplier:  p.Supplier,
		})
		if err != nil {
			return fmt.Errorf("encode product %s: %w", p.ProductID, err)
		}

		res, err := s.Client.Index(s.Index, bytes.NewReader(body),
			s.Client.Index.WithContext(ctx),
			s.Client.Index.WithDocumentID(p.ProductID),
		)
		if err != nil {
			return fmt.Errorf("es index %s: %w", p.ProductID, err)
		}
		isErr, status := res.IsError(), res.Status()
		res.Body.Close()
		if isErr {
			return fmt.Errorf("es index %s: %s", p.ProductID, status)
		}
	}
	return nil
}
