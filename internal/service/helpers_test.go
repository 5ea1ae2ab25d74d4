package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/retailer_portal/internal/cart"
	"github.com/Skotchmaster/retailer_portal/internal/events"
	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
)

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := repo.New(db)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func seedProducts(t *testing.T, r *repo.GormRepo) {
	t.Helper()
	require.NoError(t, r.UpsertProducts(context.Background(), []models.Product{
		{ProductID: "P001", Name: "Basmati Rice", Category: "Grocery", Price: decimal.RequireFromString("120.50"), Supplier: "Acme", Stock: 40},
		{ProductID: "P002", Name: "Green Tea", Category: "Beverage", Price: decimal.RequireFromString("45.25"), Supplier: "Leaf", Stock: 12},
		{ProductID: "P003", Name: "Bath Soap", Category: "Personal Care", Price: decimal.RequireFromString("19.99"), Supplier: "Clean", Stock: 80},
	}))
}

type fixture struct {
	repo   *repo.GormRepo
	store  *cart.MemoryStore
	events *events.Recorder
	carts  *CartService
	orders *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := newRepo(t)
	seedProducts(t, r)
	store := cart.NewMemoryStore()
	rec := &events.Recorder{}
	return &fixture{
		repo:   r,
		store:  store,
		events: rec,
		carts:  &CartService{Repo: r, Store: store, Events: rec},
		orders: &OrderService{Repo: r, Carts: store, Events: rec, Now: clock, Rand: seeded()},
	}
}

func count[T any](t *testing.T, r *repo.GormRepo) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(new(T)).Count(&n).Error)
	return n
}
