package repo

import (
	"context"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

func (r *GormRepo) Suggestions(ctx context.Context) ([]models.AssistantSuggestion, error) {
	return Read[models.AssistantSuggestion](ctx, r.DB)
}

func (r *GormRepo) ReplaceSuggestions(ctx context.Context, rows []models.AssistantSuggestion) error {
	return Overwrite(ctx, r.DB, rows)
}
