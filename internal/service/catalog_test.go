package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

type stubSearcher struct {
	ids     []string
	err     error
	indexed []models.Product
}

func (s *stubSearcher) SearchIDs(context.Context, string, string) ([]string, error) {
	return s.ids, s.err
}

func (s *stubSearcher) IndexProducts(_ context.Context, items []models.Product) error {
	s.indexed = append(s.indexed, items...)
	return nil
}

func TestCatalog_ListFromDatabase(t *testing.T) {
	r := newRepo(t)
	seedProducts(t, r)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	cat, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, cat.Products, 3)
	assert.Equal(t, []string{"Beverage", "Grocery", "Personal Care"}, cat.Categories)

	cat, err = svc.List(ctx, "TEA", "")
	require.NoError(t, err)
	require.Len(t, cat.Products, 1)
	assert.Equal(t, "P002", cat.Products[0].ProductID)

	cat, err = svc.List(ctx, "", "Personal Care")
	require.NoError(t, err)
	require.Len(t, cat.Products, 1)
	assert.Equal(t, "P003", cat.Products[0].ProductID)
}

func TestCatalog_ListUsesSearcherOrder(t *testing.T) {
	r := newRepo(t)
	seedProducts(t, r)
	svc := &CatalogService{Repo: r, Search: &stubSearcher{ids: []string{"P003", "P001", "P999"}}}

	cat, err := svc.List(context.Background(), "ba", "")
	require.NoError(t, err)
	require.Len(t, cat.Products, 2)
	assert.Equal(t, "P003", cat.Products[0].ProductID)
	assert.Equal(t, "P001", cat.Products[1].ProductID)
}

func TestCatalog_SearcherFailureFallsBack(t *testing.T) {
	r := newRepo(t)
	seedProducts(t, r)
	svc := &CatalogService{Repo: r, Search: &stubSearcher{err: errors.New("cluster down")}}

	cat, err := svc.List(context.Background(), "rice", "")
	require.NoError(t, err)
	require.Len(t, cat.Products, 1)
	assert.Equal(t, "P001", cat.Products[0].ProductID)
}

func TestCatalog_Get(t *testing.T) {
	r := newRepo(t)
	seedProducts(t, r)
	svc := &CatalogService{Repo: r}

	p, err := svc.Get(context.Background(), "P002")
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", p.Name)

	_, err = svc.Get(context.Background(), "P404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ImportIndexes(t *testing.T) {
	r := newRepo(t)
	s := &stubSearcher{}
	svc := &CatalogService{Repo: r, Search: s}

	n, err := svc.Import(context.Background(), []models.Product{
		{ProductID: " P010 ", Name: "Oats", Category: "Grocery", Price: decimal.NewFromInt(80), Stock: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, s.indexed, 1)
	assert.Equal(t, "P010", s.indexed[0].ProductID)

	_, err = svc.Import(context.Background(), []models.Product{{ProductID: "", Price: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, ErrValidation)
}
