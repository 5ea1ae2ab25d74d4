package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/retailer_portal/internal/events"
	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

type OrderSummary struct {
	OrderID   int64              `json:"order_id"`
	OrderDate time.Time          `json:"order_date"`
	Status    models.OrderStatus `json:"status"`
	Total     decimal.Decimal    `json:"total"`
	Items     []models.Order     `json:"items"`
}

// HistoryFilter narrows order history; zero values match everything. To is inclusive.
type HistoryFilter struct {
	Status models.OrderStatus
	From   time.Time
	To     time.Time
}

func (f HistoryFilter) match(o models.Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && o.OrderDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && o.OrderDate.After(f.To) {
		return false
	}
	return true
}

// group folds order rows into one summary per OrderID, keeping row order.
func group(rows []models.Order) []OrderSummary {
	idx := make(map[int64]int)
	var out []OrderSummary
	for _, r := range rows {
		i, ok := idx[r.OrderID]
		if !ok {
			i = len(out)
			idx[r.OrderID] = i
			out = append(out, OrderSummary{OrderID: r.OrderID, OrderDate: r.OrderDate, Status: r.Status, Total: decimal.Zero})
		}
		out[i].Items = append(out[i].Items, r)
		out[i].Total = out[i].Total.Add(r.Total)
	}
	for i := range out {
		out[i].Total = out[i].Total.Round(2)
	}
	return out
}

// History lists the owner's orders, newest first.
func (s *OrderService) History(ctx context.Context, owner string, f HistoryFilter) ([]OrderSummary, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", f.Status, ErrValidation)
	}
	rows, err := s.Repo.OrdersByRetailer(ctx, owner)
	if err != nil {
		return nil, err
	}

	kept := rows[:0]
	for _, r := range rows {
		if f.match(r) {
			kept = append(kept, r)
		}
	}
	out := group(kept)
	if out == nil {
		out = []OrderSummary{}
	}
	return out, nil
}

func (s *OrderService) Order(ctx context.Context, owner string, orderID int64) (*OrderSummary, error) {
	rows, err := s.Repo.OrderRows(ctx, orderID, owner)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return &group(rows)[0], nil
}

// Rows returns the owner's raw order rows for export.
func (s *OrderService) Rows(ctx context.Context, owner string) ([]models.Order, error) {
	return s.Repo.OrdersByRetailer(ctx, owner)
}

func (s *OrderService) Deliveries(ctx context.Context, owner string) ([]models.DeliveryStatus, error) {
	rows, err := s.Repo.OrdersByRetailer(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	seen := make(map[int64]bool)
	for _, r := range rows {
		if !seen[r.OrderID] {
			seen[r.OrderID] = true
			ids = append(ids, r.OrderID)
		}
	}
	out, err := s.Repo.DeliveriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.DeliveryStatus{}
	}
	return out, nil
}

// AdvanceDelivery moves an order one step along Ordered, Pending, In Transit,
// Delivered and mirrors the new status onto its order rows.
func (s *OrderService) AdvanceDelivery(ctx context.Context, orderID int64) (*models.DeliveryStatus, error) {
	l := logging.FromContext(ctx).With("svc", "order.advance_delivery", "order_id", orderID)

	var updated models.DeliveryStatus
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		d, err := tx.GetDeliveryStatus(ctx, orderID)
		if err != nil {
			return err
		}
		next, ok := d.Status.Next()
		if !ok {
			return fmt.Errorf("order %d is already %s: %w", orderID, d.Status, ErrConflict)
		}
		at := nowOr(s.Now)
		if err := tx.SetOrderStatus(ctx, orderID, next, at); err != nil {
			return err
		}
		d.Status = next
		d.LastUpdate = at
		updated = *d
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		if !errors.Is(err, ErrConflict) {
			l.Error("advance_delivery_failed", "error", err)
		}
		return nil, err
	}

	publish(ctx, s.Events, fmt.Sprint(orderID), map[string]any{
		"type":     events.TypeDeliveryUpdated,
		"order_id": orderID,
		"status":   string(updated.Status),
	})
	return &updated, nil
}
