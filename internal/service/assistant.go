package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

const helpReply = "I can help you track orders, suggest products, check restock needs, or find combo deals. Please ask specifically."

type AssistantService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
	Rand Rand
}

// orders reads the owner's rows, degrading to none on failure.
func (s *AssistantService) orders(ctx context.Context, owner string) []models.Order {
	rows, err := s.Repo.OrdersByRetailer(ctx, owner)
	if err != nil {
		logging.FromContext(ctx).Warn("orders_unavailable", "svc", "assistant", "error", err)
		return nil
	}
	return rows
}

func (s *AssistantService) suggestions(ctx context.Context) []models.AssistantSuggestion {
	rows, err := s.Repo.Suggestions(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("suggestions_unavailable", "svc", "assistant", "error", err)
		return nil
	}
	return sample(rows, suggestionSample, s.Rand)
}

// Reply answers a free-text query by keyword matching.
func (s *AssistantService) Reply(ctx context.Context, owner, query string) string {
	q := strings.ToLower(query)
	has := func(w string) bool { return strings.Contains(q, w) }

	switch {
	case has("track") && has("order"):
		rows := s.orders(ctx, owner)
		if len(rows) == 0 {
			return "You have no orders yet."
		}
		return fmt.Sprintf("Your last order #%d is %s", rows[0].OrderID, rows[0].Status)

	case has("suggest") && (has("trend") || has("popular")):
		sugg := s.suggestions(ctx)
		if len(sugg) == 0 {
			return "No suggestions available right now."
		}
		names := make([]string, 0, 3)
		for i := 0; i < len(sugg) && i < 3; i++ {
			names = append(names, sugg[i].Name)
		}
		return "Popular suggestions: " + strings.Join(names, ", ")

	case has("restock") || has("low stock"):
		hints := restockHints(s.orders(ctx, owner), nowOr(s.Now), s.Rand)
		if len(hints) == 0 {
			return "Your stock levels look good right now."
		}
		names := make([]string, 0, len(hints))
		for _, h := range hints {
			names = append(names, h.Product)
		}
		return "You might want to restock: " + strings.Join(names, ", ")

	case has("combo") || has("deal"):
		combos := comboHints(s.orders(ctx, owner), s.Rand)
		if len(combos) == 0 {
			return "No combo suggestions available right now."
		}
		parts := make([]string, 0, len(combos))
		for _, c := range combos {
			parts = append(parts, fmt.Sprintf("%s (₹%d off)", c.Products, c.Discount))
		}
		return "Suggested combos: " + strings.Join(parts, "; ")
	}
	return helpReply
}
