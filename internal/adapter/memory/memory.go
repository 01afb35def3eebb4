// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"muscal/internal/domain"
)

type logKey struct {
	userID int64
	day    time.Time
}

type state struct {
	users    map[int64]domain.User
	profiles map[int64]domain.Profile
	foods    map[int64]domain.FoodItem
	logs     map[int64]domain.DailyLog
	logIndex map[logKey]int64
	entries  map[int64]domain.LogEntry

	userIDCounter  int64
	foodIDCounter  int64
	logIDCounter   int64
	entryIDCounter int64
}

func newState() *state {
	return &state{
		users:    make(map[int64]domain.User),
		profiles: make(map[int64]domain.Profile),
		foods:    make(map[int64]domain.FoodItem),
		logs:     make(map[int64]domain.DailyLog),
		logIndex: make(map[logKey]int64),
		entries:  make(map[int64]domain.LogEntry),
	}
}

func (s *state) clone() *state {
	c := *s
	c.users = maps.Clone(s.users)
	c.profiles = maps.Clone(s.profiles)
	c.foods = maps.Clone(s.foods)
	c.logs = maps.Clone(s.logs)
	c.logIndex = maps.Clone(s.logIndex)
	c.entries = maps.Clone(s.entries)
	return &c
}

// DB implements an in-memory database storage. Transactions are
// serializable: WithinTx holds the store lock for the whole callback and
// works on a copy that replaces the live state only on success.
type DB struct {
	mu   sync.Mutex
	st   *state
	inTx bool
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{st: newState()}
}

// Ensure interfaces are met.
var _ domain.Store = (*DB)(nil)

// lock acquires the store mutex unless db is a transaction view, whose
// owner already holds it.
func (db *DB) lock() func() {
	if db.inTx {
		return func() {}
	}
	db.mu.Lock()
	return db.mu.Unlock
}

// WithinTx runs fn on a transactional copy of the store.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	if db.inTx {
		return fn(ctx, db)
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := &DB{st: db.st.clone(), inTx: true}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	db.st = tx.st
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer db.lock()()

	for _, u := range db.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	defer db.lock()()

	if u, ok := db.st.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	defer db.lock()()

	for _, u := range db.st.users {
		if u.Username == username {
			return nil, fmt.Errorf("%w: username is taken", domain.ErrConflict)
		}
	}

	db.st.userIDCounter++
	u := domain.User{
		ID:           db.st.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.st.users[u.ID] = u
	return &u, nil
}

// --- ProfileRepository ---

// GetProfile returns the goal profile of a user.
func (db *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	defer db.lock()()

	if p, ok := db.st.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

// CreateProfile stores a new profile.
func (db *DB) CreateProfile(ctx context.Context, p domain.Profile) error {
	defer db.lock()()

	if _, ok := db.st.users[p.UserID]; !ok {
		return fmt.Errorf("profile for unknown user %d", p.UserID)
	}
	if _, ok := db.st.profiles[p.UserID]; ok {
		return fmt.Errorf("%w: profile already exists", domain.ErrConflict)
	}
	db.st.profiles[p.UserID] = p
	return nil
}

// UpdateProfile replaces the goals of an existing profile.
func (db *DB) UpdateProfile(ctx context.Context, p domain.Profile) error {
	defer db.lock()()

	if _, ok := db.st.profiles[p.UserID]; !ok {
		return fmt.Errorf("%w: user profile not found", domain.ErrNotFound)
	}
	db.st.profiles[p.UserID] = p
	return nil
}

// --- FoodRepository ---

// AddFood stores a catalog item and assigns its ID.
func (db *DB) AddFood(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	defer db.lock()()

	db.st.foodIDCounter++
	f.ID = db.st.foodIDCounter
	db.st.foods[f.ID] = f
	return &f, nil
}

// GetFood retrieves a catalog item.
func (db *DB) GetFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	defer db.lock()()

	if f, ok := db.st.foods[id]; ok {
		return &f, nil
	}
	return nil, nil
}

// ShareFood retrieves a catalog item. The store lock already serializes writers.
func (db *DB) ShareFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	return db.GetFood(ctx, id)
}

// LockFood retrieves a catalog item. The store lock already serializes writers.
func (db *DB) LockFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	return db.GetFood(ctx, id)
}

// ListFoods returns every catalog item ordered by ID.
func (db *DB) ListFoods(ctx context.Context) ([]domain.FoodItem, error) {
	defer db.lock()()

	out := make([]domain.FoodItem, 0, len(db.st.foods))
	for _, id := range slices.Sorted(maps.Keys(db.st.foods)) {
		out = append(out, db.st.foods[id])
	}
	return out, nil
}

// DeleteFood removes a catalog item. Entries referencing it must be
// removed first.
func (db *DB) DeleteFood(ctx context.Context, id int64) error {
	defer db.lock()()

	for _, e := range db.st.entries {
		if e.FoodID == id {
			return fmt.Errorf("food %d is still referenced by entry %d", id, e.ID)
		}
	}
	delete(db.st.foods, id)
	return nil
}

// --- LogRepository ---

// GetLog returns the log of a user for a day.
func (db *DB) GetLog(ctx context.Context, userID int64, day time.Time) (*domain.DailyLog, error) {
	defer db.lock()()

	id, ok := db.st.logIndex[logKey{userID, domain.DayOf(day)}]
	if !ok {
		return nil, nil
	}
	l := db.st.logs[id]
	return &l, nil
}

// EnsureLog returns the log for (userID, day), creating it when absent.
func (db *DB) EnsureLog(ctx context.Context, userID int64, day time.Time) (*domain.DailyLog, error) {
	defer db.lock()()

	key := logKey{userID, domain.DayOf(day)}
	if id, ok := db.st.logIndex[key]; ok {
		l := db.st.logs[id]
		return &l, nil
	}
	db.st.logIDCounter++
	l := domain.DailyLog{ID: db.st.logIDCounter, UserID: userID, Date: key.day}
	db.st.logs[l.ID] = l
	db.st.logIndex[key] = l.ID
	return &l, nil
}

// LockLog loads a log by ID. The store lock already serializes writers.
func (db *DB) LockLog(ctx context.Context, id int64) (*domain.DailyLog, error) {
	defer db.lock()()

	if l, ok := db.st.logs[id]; ok {
		return &l, nil
	}
	return nil, nil
}

// AdjustTotals adds delta to the running totals of a log.
func (db *DB) AdjustTotals(ctx context.Context, logID int64, delta domain.Amounts) error {
	defer db.lock()()

	l, ok := db.st.logs[logID]
	if !ok {
		return fmt.Errorf("%w: log %d", domain.ErrNotFound, logID)
	}
	l.Totals = l.Totals.Add(delta)
	db.st.logs[logID] = l
	return nil
}

// ListLogs returns the logs of a user with from <= date <= to, oldest first.
func (db *DB) ListLogs(ctx context.Context, userID int64, from, to time.Time) ([]domain.DailyLog, error) {
	defer db.lock()()

	from, to = domain.DayOf(from), domain.DayOf(to)
	var out []domain.DailyLog
	for _, l := range db.st.logs {
		if l.UserID == userID && !l.Date.Before(from) && !l.Date.After(to) {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b domain.DailyLog) int { return a.Date.Compare(b.Date) })
	return out, nil
}

// AddEntry inserts a log entry.
func (db *DB) AddEntry(ctx context.Context, logID, foodID int64, quantity domain.Quantity) (*domain.LogEntry, error) {
	defer db.lock()()

	if _, ok := db.st.logs[logID]; !ok {
		return nil, fmt.Errorf("entry for unknown log %d", logID)
	}
	if _, ok := db.st.foods[foodID]; !ok {
		return nil, fmt.Errorf("%w: food item %d", domain.ErrNotFound, foodID)
	}
	db.st.entryIDCounter++
	e := domain.LogEntry{ID: db.st.entryIDCounter, LogID: logID, FoodID: foodID, Quantity: quantity}
	db.st.entries[e.ID] = e
	return &e, nil
}

// GetEntry retrieves a log entry.
func (db *DB) GetEntry(ctx context.Context, id int64) (*domain.LogEntry, error) {
	defer db.lock()()

	if e, ok := db.st.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

// DeleteEntry removes a log entry and reports whether it existed.
func (db *DB) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	defer db.lock()()

	if _, ok := db.st.entries[id]; !ok {
		return false, nil
	}
	delete(db.st.entries, id)
	return true, nil
}

// ListEntries returns the entries of a log with their food items.
func (db *DB) ListEntries(ctx context.Context, logID int64) ([]domain.LoggedFood, error) {
	defer db.lock()()

	out := make([]domain.LoggedFood, 0)
	for _, id := range slices.Sorted(maps.Keys(db.st.entries)) {
		e := db.st.entries[id]
		if e.LogID != logID {
			continue
		}
		out = append(out, domain.LoggedFood{Entry: e, Food: db.st.foods[e.FoodID]})
	}
	return out, nil
}

// ListEntriesByFood returns every entry referencing a food item.
func (db *DB) ListEntriesByFood(ctx context.Context, foodID int64) ([]domain.LogEntry, error) {
	defer db.lock()()

	var out []domain.LogEntry
	for _, id := range slices.Sorted(maps.Keys(db.st.entries)) {
		if e := db.st.entries[id]; e.FoodID == foodID {
			out = append(out, e)
		}
	}
	return out, nil
}

// DeleteEntriesByFood removes every entry referencing a food item.
func (db *DB) DeleteEntriesByFood(ctx context.Context, foodID int64) (int64, error) {
	defer db.lock()()

	var n int64
	for id, e := range db.st.entries {
		if e.FoodID == foodID {
			delete(db.st.entries, id)
			n++
		}
	}
	return n, nil
}
