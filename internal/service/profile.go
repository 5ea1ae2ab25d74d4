package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

type ProfileService struct {
	Repo *repo.GormRepo
}

type Profile struct {
	User       *models.User           `json:"user"`
	Rewards    *models.RewardsAccount `json:"rewards"`
	TotalSpent decimal.Decimal        `json:"total_spent"`
}

// Get loads the user with their rewards and spend. Rewards and spend degrade
// to empty values when their tables cannot be read.
func (s *ProfileService) Get(ctx context.Context, email string) (*Profile, error) {
	l := logging.FromContext(ctx).With("svc", "profile.get")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, err
	}

	acc, err := s.Repo.GetRewards(ctx, user.Email)
	if err != nil {
		l.Warn("rewards_unavailable", "error", err)
		acc = nil
	}

	spent := decimal.Zero
	txs, err := s.Repo.TransactionsByRetailer(ctx, user.Email)
	if err != nil {
		l.Warn("transactions_unavailable", "error", err)
	}
	for _, t := range txs {
		spent = spent.Add(t.Amount)
	}

	return &Profile{User: user, Rewards: acc, TotalSpent: spent.Round(2)}, nil
}
