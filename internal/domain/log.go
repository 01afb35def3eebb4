package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	// DayLayout is the wire format of log dates.
	DayLayout = "02-01-2006"
	// ISODayLayout is the format accepted by the dashboard.
	ISODayLayout = "2006-01-02"
)

// DailyLog is the per-user, per-date ledger row. Totals always equal the
// sum of the contributions of the entries that reference it.
type DailyLog struct {
	ID     int64
	UserID int64
	Date   time.Time
	Totals Amounts
}

// LogEntry is one logged consumption of a food item.
type LogEntry struct {
	ID       int64
	LogID    int64
	FoodID   int64
	Quantity Quantity
}

// LoggedFood pairs an entry with the catalog item it references.
type LoggedFood struct {
	Entry LogEntry
	Food  FoodItem
}

// Contribution is computed from the food's current per-serving values.
func (l LoggedFood) Contribution() Amounts {
	return l.Food.Contribution(l.Entry.Quantity)
}

// LogRepository is the port for ledger persistence.
type LogRepository interface {
	// GetLog returns (nil, nil) when the user has no log for day.
	GetLog(ctx context.Context, userID int64, day time.Time) (*DailyLog, error)
	// EnsureLog returns the log for (userID, day), creating a zero-totals
	// row when absent. Inside a transaction the row stays locked until
	// the transaction ends.
	EnsureLog(ctx context.Context, userID int64, day time.Time) (*DailyLog, error)
	// LockLog loads a log by id and locks it for the rest of the
	// transaction. Returns (nil, nil) when absent.
	LockLog(ctx context.Context, id int64) (*DailyLog, error)
	AdjustTotals(ctx context.Context, logID int64, delta Amounts) error
	ListLogs(ctx context.Context, userID int64, from, to time.Time) ([]DailyLog, error)

	AddEntry(ctx context.Context, logID, foodID int64, quantity Quantity) (*LogEntry, error)
	// GetEntry returns (nil, nil) when absent.
	GetEntry(ctx context.Context, id int64) (*LogEntry, error)
	// DeleteEntry reports whether a row was removed.
	DeleteEntry(ctx context.Context, id int64) (bool, error)
	// ListEntries returns the entries of a log ordered by entry id.
	ListEntries(ctx context.Context, logID int64) ([]LoggedFood, error)
	ListEntriesByFood(ctx context.Context, foodID int64) ([]LogEntry, error)
	DeleteEntriesByFood(ctx context.Context, foodID int64) (int64, error)
}

// ParseDay parses a dd-mm-yyyy log date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format, use dd-mm-yyyy", ErrValidation)
	}
	return t, nil
}

// ParseISODay parses a yyyy-mm-dd date.
func ParseISODay(s string) (time.Time, error) {
	t, err := time.Parse(ISODayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrValidation)
	}
	return t, nil
}

// DayOf truncates t to its calendar date in t's location, returned as
// midnight UTC so dates compare and persist uniformly.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current local calendar date.
func Today() time.Time {
	return DayOf(time.Now().In(time.Local))
}

// FormatDay renders a date in the dd-mm-yyyy wire format.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}
