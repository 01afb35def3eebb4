package app_test

import (
	"context"
	"testing"
	"time"

	"muscal/internal/adapter/memory"
	"muscal/internal/app"
	"muscal/internal/config"
	"muscal/internal/domain"

	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Store:           config.StoreMemory,
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

// faultyStore fails AdjustTotals, including inside transactions.
type faultyStore struct {
	domain.Store
	adjustErr error
}

func (f *faultyStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	return f.Store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		return fn(ctx, &faultyStore{Store: tx, adjustErr: f.adjustErr})
	})
}

func (f *faultyStore) AdjustTotals(ctx context.Context, logID int64, delta domain.Amounts) error {
	return f.adjustErr
}

// racingStore runs interleave once, right after the first
// ListEntriesByFood of a transaction returns, to stand in for a concurrent
// writer that commits between that read and the caller's next step.
type racingStore struct {
	domain.Store
	interleave func(ctx context.Context, tx domain.Store) error
	fired      *bool
}

func (r *racingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	return r.Store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		return fn(ctx, &racingStore{Store: tx, interleave: r.interleave, fired: r.fired})
	})
}

func (r *racingStore) ListEntriesByFood(ctx context.Context, foodID int64) ([]domain.LogEntry, error) {
	entries, err := r.Store.ListEntriesByFood(ctx, foodID)
	if err != nil || *r.fired {
		return entries, err
	}
	*r.fired = true
	return entries, r.interleave(ctx, r.Store)
}

func mustRegister(t *testing.T, db domain.Store, username string) *domain.User {
	t.Helper()
	svc := app.NewAuthService(db, app.NewTokenService(testConfig()), zap.NewNop())
	u, err := svc.Register(context.Background(), username, "secret")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func mustAddFood(t *testing.T, db domain.Store, f domain.FoodItem) *domain.FoodItem {
	t.Helper()
	created, err := app.NewCatalogService(db, zap.NewNop()).Add(context.Background(), f)
	if err != nil {
		t.Fatalf("add food %s: %v", f.Name, err)
	}
	return created
}

func oats() domain.FoodItem {
	return domain.FoodItem{
		Name:                    "Oats",
		ServingSize:             "40g",
		ServingsPerContainer:    12,
		CaloriesPerServing:      150,
		CarbohydratesPerServing: 27,
		ProteinPerServing:       5,
		FatPerServing:           3,
	}
}

func milk() domain.FoodItem {
	return domain.FoodItem{
		Name:                    "Milk",
		ServingSize:             "250ml",
		ServingsPerContainer:    4,
		CaloriesPerServing:      120,
		CarbohydratesPerServing: 12,
		ProteinPerServing:       8,
		FatPerServing:           5,
	}
}

func newMemory() *memory.DB {
	return memory.New()
}

func servings(t *testing.T, n float64) domain.Quantity {
	t.Helper()
	q, err := domain.NewQuantity(n)
	if err != nil {
		t.Fatalf("quantity %v: %v", n, err)
	}
	return q
}

// contribution is the exact amount n servings of f add to a log.
func contribution(t *testing.T, f domain.FoodItem, n float64) domain.Amounts {
	t.Helper()
	return f.Contribution(servings(t, n))
}

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}
