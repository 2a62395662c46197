package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hypernova-labs/cashier-service/internal/database"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store     *database.BoltStore
	products  *database.ProductRepository
	movements *database.StockMovementRepository
	service   *ProductService
	clock     *fixedClock
	logger    *logrus.Logger
	hook      *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, hook := test.NewNullLogger()

	store, err := database.OpenBoltStore(filepath.Join(t.TempDir(), "data.db"), time.Second, logger)
	require.NoError(t, err)

	products := database.NewProductRepository(store, logger)
	movements, err := database.NewStockMovementRepository(context.Background(), store, logger)
	require.NoError(t, err)

	clock := newFixedClock()
	service := NewProductService(products, movements, 5, logger)
	service.now = clock.Now

	return &testEnv{
		store:     store,
		products:  products,
		movements: movements,
		service:   service,
		clock:     clock,
		logger:    logger,
		hook:      hook,
	}
}

func (e *testEnv) create(t *testing.T, name, barCode string, price, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		BarCode:     barCode,
		Price:       price,
		Stock:       stock,
		ProductType: models.DefaultProductType,
		UnitType:    models.DefaultUnitType,
		IsActive:    true,
	}
	require.NoError(t, e.service.Create(context.Background(), product))
	return product
}
