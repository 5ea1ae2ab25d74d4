package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

// GetRewards returns nil, nil when the retailer has no account yet.
func (r *GormRepo) GetRewards(ctx context.Context, email string) (*models.RewardsAccount, error) {
	var acc models.RewardsAccount
	err := r.DB.WithContext(ctx).Where("retailer_email = ?", email).First(&acc).Error
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

// SaveRewards rewrites the retailer's single rewards row in place.
func (r *GormRepo) SaveRewards(ctx context.Context, acc *models.RewardsAccount) error {
	return r.DB.WithContext(ctx).Save(acc).Error
}
