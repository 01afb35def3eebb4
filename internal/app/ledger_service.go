package app

import (
	"context"
	"fmt"
	"time"

	"muscal/internal/domain"

	"go.uber.org/zap"
)

// EntryDetail is a logged entry with its contribution computed at read time.
type EntryDetail struct {
	EntryID      int64
	FoodID       int64
	FoodName     string
	Quantity     domain.Quantity
	Contribution domain.Amounts
}

// DayView is a daily log with its entries ordered by entry ID.
type DayView struct {
	Log     domain.DailyLog
	Entries []EntryDetail
}

// LedgerService keeps the per-day logs and their running totals.
type LedgerService struct {
	store domain.Store
	log   *zap.Logger
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(store domain.Store, log *zap.Logger) *LedgerService {
	return &LedgerService{store: store, log: log.Named("ledger")}
}

// GetOrCreate returns the log of userID for day, creating an empty one.
func (s *LedgerService) GetOrCreate(ctx context.Context, userID int64, day time.Time) (*domain.DailyLog, error) {
	var l *domain.DailyLog
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		var err error
		l, err = tx.EnsureLog(ctx, userID, domain.DayOf(day))
		return err
	})
	return l, err
}

// View returns the log of userID for day with its entries. The log row is
// locked while the entries are read so totals and entries agree.
func (s *LedgerService) View(ctx context.Context, userID int64, day time.Time) (*DayView, error) {
	var view *DayView
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		l, err := tx.GetLog(ctx, userID, domain.DayOf(day))
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("%w: no log for %s", domain.ErrNotFound, domain.FormatDay(day))
		}
		if l, err = tx.LockLog(ctx, l.ID); err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("%w: no log for %s", domain.ErrNotFound, domain.FormatDay(day))
		}

		foods, err := tx.ListEntries(ctx, l.ID)
		if err != nil {
			return err
		}
		view = &DayView{Log: *l, Entries: make([]EntryDetail, 0, len(foods))}
		for _, lf := range foods {
			view.Entries = append(view.Entries, EntryDetail{
				EntryID:   lf.Entry.ID,
				FoodID:    lf.Food.ID,
				FoodName:  lf.Food.Name,
				Quantity:     lf.Entry.Quantity,
				Contribution: lf.Contribution(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// LogEntry records servings of a food on the log of userID for day and
// adds their contribution to the log totals.
func (s *LedgerService) LogEntry(ctx context.Context, userID int64, day time.Time, foodID int64, servings float64) (*domain.LogEntry, error) {
	if foodID <= 0 {
		return nil, fmt.Errorf("%w: food_id is required", domain.ErrValidation)
	}
	quantity, err := domain.NewQuantity(servings)
	if err != nil {
		return nil, err
	}

	var entry *domain.LogEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		// The food is checked before the log is created so a bad food ID
		// leaves no empty log behind.
		f, err := tx.ShareFood(ctx, foodID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: food item not found", domain.ErrNotFound)
		}

		l, err := tx.EnsureLog(ctx, userID, domain.DayOf(day))
		if err != nil {
			return err
		}
		if entry, err = tx.AddEntry(ctx, l.ID, f.ID, quantity); err != nil {
			return err
		}
		return tx.AdjustTotals(ctx, l.ID, f.Contribution(quantity))
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("entry logged",
		zap.Int64("user_id", userID),
		zap.Int64("entry_id", entry.ID),
		zap.Int64("food_id", foodID),
		zap.Float64("quantity", quantity.Servings()),
	)
	return entry, nil
}

// DeleteEntry removes an entry owned by userID and subtracts its
// contribution. The subtraction only happens when the delete removed a
// row, so a retried delete reports NotFound and leaves totals untouched.
func (s *LedgerService) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		e, err := tx.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("%w: log entry not found", domain.ErrNotFound)
		}

		l, err := tx.LockLog(ctx, e.LogID)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("%w: log entry not found", domain.ErrNotFound)
		}
		if l.UserID != userID {
			return fmt.Errorf("%w: log entry belongs to another user", domain.ErrForbidden)
		}

		f, err := tx.GetFood(ctx, e.FoodID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: food item %d of entry %d is missing", domain.ErrInternal, e.FoodID, e.ID)
		}

		deleted, err := tx.DeleteEntry(ctx, e.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: log entry not found", domain.ErrNotFound)
		}
		return tx.AdjustTotals(ctx, l.ID, f.Contribution(e.Quantity).Neg())
	})
	if err != nil {
		return err
	}
	s.log.Debug("entry deleted", zap.Int64("user_id", userID), zap.Int64("entry_id", entryID))
	return nil
}
