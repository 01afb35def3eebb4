package app

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"muscal/internal/domain"

	"go.uber.org/zap"
)

// CatalogService manages the shared food catalog.
type CatalogService struct {
	store domain.Store
	log   *zap.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(store domain.Store, log *zap.Logger) *CatalogService {
	return &CatalogService{store: store, log: log.Named("catalog")}
}

// Add validates and stores a new catalog item.
func (s *CatalogService) Add(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	created, err := s.store.AddFood(ctx, f)
	if err != nil {
		return nil, err
	}
	s.log.Debug("food item added", zap.Int64("food_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// List returns every catalog item ordered by ID.
func (s *CatalogService) List(ctx context.Context) ([]domain.FoodItem, error) {
	return s.store.ListFoods(ctx)
}

// Get returns a catalog item.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.FoodItem, error) {
	f, err := s.store.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: food item not found", domain.ErrNotFound)
	}
	return f, nil
}

// Delete removes a catalog item with every entry referencing it. The
// contributions of the removed entries are subtracted from their logs so
// that log totals keep matching the remaining entries.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	var removed int64
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		// The exclusive food lock stops new entries for the item.
		f, err := tx.LockFood(ctx, id)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: food item not found", domain.ErrNotFound)
		}

		candidates, err := tx.ListEntriesByFood(ctx, id)
		if err != nil {
			return err
		}
		logIDs := make([]int64, 0, len(candidates))
		for _, e := range candidates {
			logIDs = append(logIDs, e.LogID)
		}
		// Fixed lock order keeps concurrent deletes from deadlocking.
		slices.Sort(logIDs)
		logIDs = slices.Compact(logIDs)
		for _, logID := range logIDs {
			if _, err := tx.LockLog(ctx, logID); err != nil {
				return err
			}
		}

		// Entries removed before the log locks were taken already had
		// their contribution subtracted, so the deltas come from a fresh
		// read under the locks.
		entries, err := tx.ListEntriesByFood(ctx, id)
		if err != nil {
			return err
		}
		deltas := make(map[int64]domain.Amounts, len(logIDs))
		for _, e := range entries {
			deltas[e.LogID] = deltas[e.LogID].Add(f.Contribution(e.Quantity).Neg())
		}

		if removed, err = tx.DeleteEntriesByFood(ctx, id); err != nil {
			return err
		}
		if removed != int64(len(entries)) {
			return fmt.Errorf("%w: removed %d entries of food %d, expected %d", domain.ErrInternal, removed, id, len(entries))
		}
		for _, logID := range slices.Sorted(maps.Keys(deltas)) {
			if err := tx.AdjustTotals(ctx, logID, deltas[logID]); err != nil {
				return err
			}
		}
		return tx.DeleteFood(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("food item deleted", zap.Int64("food_id", id), zap.Int64("entries_removed", removed))
	return nil
}
