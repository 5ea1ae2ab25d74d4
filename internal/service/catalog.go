package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

// Searcher resolves a free-text query to product ids, best match first.
type Searcher interface {
	SearchIDs(ctx context.Context, q, category string) ([]string, error)
}

// Indexer is implemented by searchers that keep their own copy of the catalog.
type Indexer interface {
	IndexProducts(ctx context.Context, items []models.Product) error
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search Searcher
}

type Catalog struct {
	Products   []models.Product `json:"products"`
	Categories []string         `json:"categories"`
}

func (s *CatalogService) List(ctx context.Context, search, category string) (*Catalog, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.list")
	search = strings.TrimSpace(search)
	category = strings.TrimSpace(category)

	var items []models.Product
	var err error
	if s.Search != nil && search != "" {
		items, err = s.searchIndexed(ctx, search, category)
		if err != nil {
			l.Warn("search_fallback", "reason", "search backend failed", "error", err)
			items = nil
		}
	}
	if items == nil {
		items, err = s.Repo.ListProducts(ctx, repo.ProductFilter{Search: search, Category: category})
		if err != nil {
			return nil, err
		}
	}

	cats, err := s.Repo.Categories(ctx)
	if err != nil {
		l.Warn("categories_failed", "error", err)
		cats = []string{}
	}
	if items == nil {
		items = []models.Product{}
	}
	return &Catalog{Products: items, Categories: cats}, nil
}

func (s *CatalogService) searchIndexed(ctx context.Context, search, category string) ([]models.Product, error) {
	ids, err := s.Search.SearchIDs(ctx, search, category)
	if err != nil {
		return nil, err
	}
	found, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ProductID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || (category != "" && p.Category != category) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("product id is required: %w", ErrValidation)
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// Import upserts products and refreshes the search index when there is one.
func (s *CatalogService) Import(ctx context.Context, items []models.Product) (int, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.import")

	for i := range items {
		items[i].ProductID = strings.TrimSpace(items[i].ProductID)
		if items[i].ProductID == "" || items[i].Price.IsNegative() {
			return 0, fmt.Errorf("row %d: product id and a non-negative price are required: %w", i+1, ErrValidation)
		}
	}
	if err := s.Repo.UpsertProducts(ctx, items); err != nil {
		return 0, err
	}

	if idx, ok := s.Search.(Indexer); ok && len(items) > 0 {
		if err := idx.IndexProducts(ctx, items); err != nil {
			l.Warn("index_failed", "count", len(items), "error", err)
		}
	}
	l.Info("products_imported", "count", len(items))
	return len(items), nil
}

func (s *CatalogService) ImportSuggestions(ctx context.Context, rows []models.AssistantSuggestion) error {
	return s.Repo.ReplaceSuggestions(ctx, rows)
}
