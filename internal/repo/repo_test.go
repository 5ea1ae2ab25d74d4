package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := New(db)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func TestNextID_EmptyTableStartsAtOne(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	id, err := r.NextOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = r.NextOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestNextID_FollowsExistingMax(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AppendTransaction(ctx, &models.Transaction{
		TransactionID: 41, RetailerEmail: "a@b.c", Amount: decimal.NewFromInt(5),
		Date: time.Now(), Description: "seed",
	}))

	id, err := r.NextTransactionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestAppendThenRead(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	before, err := Read[models.Order](ctx, r.DB)
	require.NoError(t, err)

	row := models.Order{
		OrderID: 7, RetailerEmail: "shop@example.com", ProductID: "P1", ProductName: "Rice",
		Quantity: 2, Price: decimal.RequireFromString("1.50"), Total: decimal.RequireFromString("3.00"),
		OrderDate: time.Now(), Status: models.StatusOrdered,
	}
	require.NoError(t, r.AppendOrderRow(ctx, &row))

	after, err := Read[models.Order](ctx, r.DB)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	last := after[len(after)-1]
	assert.Equal(t, int64(7), last.OrderID)
	assert.Equal(t, "P1", last.ProductID)
	assert.True(t, last.Total.Equal(decimal.RequireFromString("3")))
}

func TestOverwriteThenRead(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.ReplaceSuggestions(ctx, []models.AssistantSuggestion{
		{ProductID: "P1", Name: "Old"},
	}))
	require.NoError(t, r.ReplaceSuggestions(ctx, []models.AssistantSuggestion{
		{ProductID: "P2", Name: "Tea"},
		{ProductID: "P3", Name: "Soap"},
	}))

	got, err := r.Suggestions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tea", got[0].Name)
	assert.Equal(t, "Soap", got[1].Name)

	require.NoError(t, r.ReplaceSuggestions(ctx, nil))
	got, err = r.Suggestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreateUserIfNotExists(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{ShopName: "Corner", OwnerName: "Sam", Location: "Town", Phone: "1",
		Email: " Shop@Example.com ", PasswordHash: "x", Role: models.RoleRetailer}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))

	dup := &models.User{ShopName: "Other", OwnerName: "Kim", Location: "City", Phone: "2",
		Email: "shop@example.com", PasswordHash: "y", Role: models.RoleRetailer}
	assert.ErrorIs(t, r.CreateUserIfNotExists(ctx, dup), ErrUserAlreadyExists)

	got, err := r.UserByEmail(ctx, "SHOP@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Corner", got.ShopName)

	_, err = r.UserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProducts_SearchAndCategory(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.UpsertProducts(ctx, []models.Product{
		{ProductID: "P1", Name: "Basmati Rice", Category: "Grains", Price: decimal.NewFromInt(10), Stock: 5},
		{ProductID: "P2", Name: "Green Tea", Category: "Beverages", Price: decimal.NewFromInt(4), Stock: 9},
		{ProductID: "P3", Name: "Brown rice", Category: "Grains", Price: decimal.NewFromInt(8), Stock: 1},
	}))

	items, err := r.ListProducts(ctx, ProductFilter{Search: "RICE"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "P1", items[0].ProductID)

	for _, wild := range []string{"_", "%", `\`} {
		items, err = r.ListProducts(ctx, ProductFilter{Search: wild})
		require.NoError(t, err)
		assert.Empty(t, items, "search %q", wild)
	}

	items, err = r.ListProducts(ctx, ProductFilter{Category: "Beverages"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)

	cats, err := r.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beverages", "Grains"}, cats)

	require.NoError(t, r.UpsertProducts(ctx, []models.Product{
		{ProductID: "P2", Name: "Green Tea", Category: "Beverages", Price: decimal.NewFromInt(5), Stock: 3},
	}))
	p, err := r.GetProduct(ctx, "P2")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 3, p.Stock)

	_, err = r.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRewards_MissingIsNil(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	acc, err := r.GetRewards(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Nil(t, acc)

	require.NoError(t, r.SaveRewards(ctx, &models.RewardsAccount{RetailerEmail: "a@b.c", Points: 10, Badges: "Newbie", Level: 1}))
	require.NoError(t, r.SaveRewards(ctx, &models.RewardsAccount{RetailerEmail: "a@b.c", Points: 110, Badges: "Newbie, Bronze", Level: 2}))

	acc, err = r.GetRewards(ctx, "a@b.c")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, 110, acc.Points)
	assert.Equal(t, 2, acc.Level)

	rows, err := Read[models.RewardsAccount](ctx, r.DB)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSetOrderStatus(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.AppendOrderRow(ctx, &models.Order{OrderID: 3, RetailerEmail: "a@b.c", ProductID: "P1",
		ProductName: "Rice", Quantity: 1, Price: decimal.NewFromInt(2), Total: decimal.NewFromInt(2),
		OrderDate: now, Status: models.StatusOrdered}))
	require.NoError(t, r.AppendDeliveryStatus(ctx, &models.DeliveryStatus{OrderID: 3, Status: models.StatusOrdered,
		LastUpdate: now, DeliveryAgent: "Agent 1234"}))

	require.NoError(t, r.SetOrderStatus(ctx, 3, models.StatusPending, now.Add(time.Minute)))

	d, err := r.GetDeliveryStatus(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, d.Status)

	rows, err := r.OrderRows(ctx, 3, "a@b.c")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusPending, rows[0].Status)

	assert.ErrorIs(t, r.SetOrderStatus(ctx, 99, models.StatusPending, now), ErrNotFound)
}

func TestRotateRefreshToken(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	require.NoError(t, r.AddRefreshToken(ctx, &models.RefreshToken{Token: "h1", Email: "a@b.c", JTI: "j1", ExpiresAt: exp}))
	require.NoError(t, r.RotateRefreshToken(ctx, "j1", &models.RefreshToken{Token: "h2", Email: "a@b.c", JTI: "j2", ExpiresAt: exp}))

	old, err := r.FindRefreshByJTI(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, old.Revoked)

	err = r.RotateRefreshToken(ctx, "j1", &models.RefreshToken{Token: "h3", Email: "a@b.c", JTI: "j3", ExpiresAt: exp})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	require.NoError(t, r.RevokeRefreshToken(ctx, "h2"))
	cur, err := r.FindRefreshByJTI(ctx, "j2")
	require.NoError(t, err)
	assert.True(t, cur.Revoked)
}
