package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/retailer_portal/internal/cart"
	"github.com/Skotchmaster/retailer_portal/internal/events"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Store  cart.Store
	Events events.Publisher
}

func (s *CartService) Get(ctx context.Context, owner string) (*cart.Cart, error) {
	return s.Store.Load(ctx, owner)
}

// Add snapshots the current product price into the cart line.
func (s *CartService) Add(ctx context.Context, owner, productID string, qty int) (*cart.Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", ErrValidation)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	c, err := s.Store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.AddLine(p.ProductID, p.Name, qty, p.Price); err != nil {
		if errors.Is(err, cart.ErrQuantityLimit) {
			return nil, fmt.Errorf("at most %d units of %s: %w", cart.MaxQuantity, productID, ErrValidation)
		}
		return nil, err
	}
	if err := s.Store.Save(ctx, c); err != nil {
		return nil, err
	}

	s.changed(ctx, c, "add", productID)
	return c, nil
}

// Update overwrites a line's quantity; zero or less removes the line.
func (s *CartService) Update(ctx context.Context, owner, productID string, qty int) (*cart.Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", ErrValidation)
	}
	if qty > cart.MaxQuantity {
		return nil, fmt.Errorf("at most %d units of %s: %w", cart.MaxQuantity, productID, ErrValidation)
	}
	c, err := s.Store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !c.UpdateLine(productID, qty) {
		return nil, fmt.Errorf("product %s not in cart: %w", productID, ErrNotFound)
	}
	if err := s.Store.Save(ctx, c); err != nil {
		return nil, err
	}

	s.changed(ctx, c, "update", productID)
	return c, nil
}

func (s *CartService) Remove(ctx context.Context, owner, productID string) (*cart.Cart, error) {
	return s.Update(ctx, owner, productID, 0)
}

func (s *CartService) changed(ctx context.Context, c *cart.Cart, action, productID string) {
	publish(ctx, s.Events, c.Owner, map[string]any{
		"type":       events.TypeCartUpdated,
		"email":      c.Owner,
		"action":     action,
		"product_id": productID,
		"size":       c.Size(),
	})
}
