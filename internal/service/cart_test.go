package service

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/retailer_portal/internal/cart"
	"github.com/Skotchmaster/retailer_portal/internal/models"
)

func TestCartService_AddMergesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.Add(ctx, shop, "P001", 2)
	require.NoError(t, err)
	c, err := f.carts.Add(ctx, shop, "P001", 3)
	require.NoError(t, err)

	require.Equal(t, 1, c.Size())
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].Total.Equal(decimal.RequireFromString("602.50")))
}

func TestCartService_PriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.Add(ctx, shop, "P002", 1)
	require.NoError(t, err)
	require.NoError(t, f.repo.UpsertProducts(ctx, []models.Product{
		{ProductID: "P002", Name: "Green Tea", Category: "Beverage", Price: decimal.NewFromInt(99), Stock: 1},
	}))

	c, err := f.carts.Get(ctx, shop)
	require.NoError(t, err)
	assert.True(t, c.Lines[0].Price.Equal(decimal.RequireFromString("45.25")))
}

func TestCartService_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.Add(ctx, shop, "P404", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.carts.Add(ctx, shop, "P001", 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.carts.Update(ctx, shop, "P001", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.Add(ctx, shop, "P001", 1)
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, shop, "P002", 1)
	require.NoError(t, err)

	c, err := f.carts.Update(ctx, shop, "P002", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Lines[1].Quantity)

	c, err = f.carts.Update(ctx, shop, "P002", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Size())

	c, err = f.carts.Remove(ctx, shop, "P001")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestCartService_QuantityLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.Add(ctx, shop, "P001", math.MaxInt)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.carts.Add(ctx, shop, "P001", cart.MaxQuantity)
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, shop, "P001", 1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.carts.Update(ctx, shop, "P001", cart.MaxQuantity+1)
	assert.ErrorIs(t, err, ErrValidation)

	c, err := f.carts.Get(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, cart.MaxQuantity, c.Lines[0].Quantity)
	assert.True(t, c.Total().IsPositive())

	receipt, err := f.orders.PlaceOrder(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, cart.MaxQuantity, receipt.Items[0].Quantity)
}
