package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/retailer_portal/internal/cart"
	"github.com/Skotchmaster/retailer_portal/internal/events"
	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
	"github.com/Skotchmaster/retailer_portal/internal/rewards"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Carts  cart.Store
	Events events.Publisher
	Now    func() time.Time
	Rand   Rand
}

type Receipt struct {
	OrderID       int64                 `json:"order_id"`
	TransactionID int64                 `json:"transaction_id"`
	OrderDate     time.Time             `json:"order_date"`
	Total         decimal.Decimal       `json:"total"`
	Items         []models.Order        `json:"items"`
	DeliveryAgent string                `json:"delivery_agent"`
	Rewards       models.RewardsAccount `json:"rewards"`
}

// AgentLabel is a placeholder courier name until real assignment exists.
func AgentLabel(r Rand) string {
	return fmt.Sprintf("Agent %d", between(r, 1000, 9999))
}

// PlaceOrder turns the owner's cart into order rows, one transaction, a
// delivery record and a rewards update. All writes commit together or not at
// all; the cart is cleared only after commit.
func (s *OrderService) PlaceOrder(ctx context.Context, owner string) (*Receipt, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "email", owner)

	c, err := s.Carts.Load(ctx, owner)
	if err != nil {
		l.Error("place_order_failed", "reason", "cannot load cart", "error", err)
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	now := nowOr(s.Now)
	agent := AgentLabel(s.Rand)
	receipt := &Receipt{OrderDate: now, DeliveryAgent: agent}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		orderID, err := tx.NextOrderID(ctx)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.Order, 0, c.Size())
		for _, line := range c.Lines {
			row := models.Order{
				OrderID:       orderID,
				RetailerEmail: owner,
				ProductID:     line.ProductID,
				ProductName:   line.ProductName,
				Quantity:      line.Quantity,
				Price:         line.Price,
				Total:         line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
				OrderDate:     now,
				Status:        models.StatusOrdered,
			}
			if err := tx.AppendOrderRow(ctx, &row); err != nil {
				return fmt.Errorf("order row %s: %w", line.ProductID, err)
			}
			total = total.Add(row.Total)
			items = append(items, row)
		}
		total = total.Round(2)

		txID, err := tx.NextTransactionID(ctx)
		if err != nil {
			return err
		}
		if err := tx.AppendTransaction(ctx, &models.Transaction{
			TransactionID: txID,
			RetailerEmail: owner,
			Amount:        total,
			Date:          now,
			Description:   fmt.Sprintf("Order #%d", orderID),
		}); err != nil {
			return fmt.Errorf("transaction: %w", err)
		}

		if err := tx.AppendDeliveryStatus(ctx, &models.DeliveryStatus{
			OrderID:       orderID,
			Status:        models.StatusOrdered,
			LastUpdate:    now,
			DeliveryAgent: agent,
		}); err != nil {
			return fmt.Errorf("delivery status: %w", err)
		}

		acc, err := tx.GetRewards(ctx, owner)
		if err != nil {
			return fmt.Errorf("rewards: %w", err)
		}
		next := rewards.Apply(owner, acc, total)
		if err := tx.SaveRewards(ctx, &next); err != nil {
			return fmt.Errorf("rewards: %w", err)
		}

		receipt.OrderID = orderID
		receipt.TransactionID = txID
		receipt.Total = total
		receipt.Items = items
		receipt.Rewards = next
		return nil
	})
	if err != nil {
		l.Error("place_order_failed", "status", 500, "reason", "rolled back", "error", err)
		return nil, fmt.Errorf("place order: %w", err)
	}

	if err := s.Carts.Delete(ctx, owner); err != nil {
		l.Warn("cart_clear_failed", "order_id", receipt.OrderID, "error", err)
	}

	publish(ctx, s.Events, owner, map[string]any{
		"type":     events.TypeOrderPlaced,
		"email":    owner,
		"order_id": receipt.OrderID,
		"total":    receipt.Total.StringFixed(2),
		"lines":    len(receipt.Items),
		"level":    receipt.Rewards.Level,
	})
	l.Info("order_placed", "order_id", receipt.OrderID, "total", receipt.Total.StringFixed(2))
	return receipt, nil
}
