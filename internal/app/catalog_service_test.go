package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"muscal/internal/app"
	"muscal/internal/domain"

	"go.uber.org/zap"
)

func TestCatalogService_AddListGet(t *testing.T) {
	ctx := context.Background()
	svc := app.NewCatalogService(newMemory(), zap.NewNop())

	created, err := svc.Add(ctx, oats())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected an assigned ID")
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Oats" {
		t.Errorf("unexpected catalog: %+v", items)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil || *got != *created {
		t.Errorf("get = %+v, %v", got, err)
	}
	if _, err := svc.Get(ctx, created.ID+1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCatalogService_Add_Invalid(t *testing.T) {
	bad := oats()
	bad.ServingsPerContainer = 0
	if _, err := app.NewCatalogService(newMemory(), zap.NewNop()).Add(context.Background(), bad); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCatalogService_List_Empty(t *testing.T) {
	items, err := app.NewCatalogService(newMemory(), zap.NewNop()).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty catalog, got %d", len(items))
	}
}

func TestCatalogService_Delete_CascadesAndRestoresTotals(t *testing.T) {
	ctx := context.Background()
	db := newMemory()
	alice := mustRegister(t, db, "alice")
	bob := mustRegister(t, db, "bob")
	o := mustAddFood(t, db, oats())
	m := mustAddFood(t, db, milk())
	ledger := app.NewLedgerService(db, zap.NewNop())
	catalog := app.NewCatalogService(db, zap.NewNop())

	d1, d2 := day("01-01-2024"), day("02-01-2024")
	for _, step := range []struct {
		userID int64
		d      string
		foodID int64
		qty    float64
	}{
		{alice.ID, "01-01-2024", o.ID, 1},
		{alice.ID, "01-01-2024", m.ID, 2},
		{alice.ID, "02-01-2024", o.ID, 3},
		{bob.ID, "01-01-2024", o.ID, 0.5},
	} {
		if _, err := ledger.LogEntry(ctx, step.userID, day(step.d), step.foodID, step.qty); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	if err := catalog.Delete(ctx, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	v, err := ledger.View(ctx, alice.ID, d1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	assertTotals(t, v.Log.Totals, contribution(t, milk(), 2))
	if len(v.Entries) != 1 {
		t.Errorf("expected only the milk entry, got %+v", v.Entries)
	}

	v, err = ledger.View(ctx, alice.ID, d2)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	assertTotals(t, v.Log.Totals, domain.Amounts{})

	v, err = ledger.View(ctx, bob.ID, d1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	assertTotals(t, v.Log.Totals, domain.Amounts{})

	if _, err := catalog.Get(ctx, o.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("food must be gone, got %v", err)
	}
	if err := catalog.Delete(ctx, o.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("repeated delete: expected not found, got %v", err)
	}
}

func TestCatalogService_Delete_EntryRemovedConcurrently(t *testing.T) {
	ctx := context.Background()
	db := newMemory()
	alice := mustRegister(t, db, "alice")
	o := mustAddFood(t, db, oats())
	m := mustAddFood(t, db, milk())
	ledger := app.NewLedgerService(db, zap.NewNop())

	d := day("01-01-2024")
	oatsEntry, err := ledger.LogEntry(ctx, alice.ID, d, o.ID, 1)
	if err != nil {
		t.Fatalf("log oats: %v", err)
	}
	if _, err := ledger.LogEntry(ctx, alice.ID, d, m.ID, 2); err != nil {
		t.Fatalf("log milk: %v", err)
	}

	// The oats entry is deleted, with its totals adjustment, after the
	// cascade first lists the entries of the food.
	fired := false
	racing := &racingStore{
		Store: db,
		fired: &fired,
		interleave: func(ctx context.Context, tx domain.Store) error {
			deleted, err := tx.DeleteEntry(ctx, oatsEntry.ID)
			if err != nil || !deleted {
				return fmt.Errorf("concurrent delete: %v, %v", deleted, err)
			}
			return tx.AdjustTotals(ctx, oatsEntry.LogID, o.Contribution(oatsEntry.Quantity).Neg())
		},
	}
	if err := app.NewCatalogService(racing, zap.NewNop()).Delete(ctx, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !fired {
		t.Fatal("the concurrent delete never ran")
	}

	v, err := ledger.View(ctx, alice.ID, d)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	assertTotals(t, v.Log.Totals, contribution(t, milk(), 2))
	if len(v.Entries) != 1 || v.Entries[0].FoodID != m.ID {
		t.Errorf("expected only the milk entry, got %+v", v.Entries)
	}
}
