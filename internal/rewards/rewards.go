// Package rewards computes loyalty points, levels and badges from spend.
package rewards

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

const (
	BadgeNewbie = "Newbie"
	BadgeBronze = "Bronze"
	BadgeSilver = "Silver"
	BadgeGold   = "Gold"

	MaxLevel = 4
)

var pointUnit = decimal.NewFromInt(10)

type tier struct {
	from      int
	threshold int
	badge     string
}

// Checked in order; at most one applies per call.
var tiers = []tier{
	{from: 1, threshold: 100, badge: BadgeBronze},
	{from: 2, threshold: 500, badge: BadgeSilver},
	{from: 3, threshold: 1000, badge: BadgeGold},
}

// PointsFor returns floor(amount / 10). Negative amounts earn nothing.
func PointsFor(amount decimal.Decimal) int {
	if amount.IsNegative() {
		return 0
	}
	return int(amount.Div(pointUnit).Floor().IntPart())
}

// Apply returns the account after crediting amount. A nil account starts a
// new one at level 1. The input account is not modified.
//
// Only one level transition happens per call even when the new balance
// clears several thresholds; the next purchase picks up the following tier.
func Apply(email string, acc *models.RewardsAccount, amount decimal.Decimal) models.RewardsAccount {
	earned := PointsFor(amount)
	if acc == nil {
		return models.RewardsAccount{
			RetailerEmail: email,
			Points:        earned,
			Badges:        BadgeNewbie,
			Level:         1,
		}
	}

	next := *acc
	next.RetailerEmail = email
	next.Points += earned
	for _, t := range tiers {
		if next.Level == t.from && next.Points >= t.threshold {
			next.Level++
			next.Badges = t.badge
			break
		}
	}
	return next
}
