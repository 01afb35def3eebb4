package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"muscal/internal/domain"
)

const logColumns = "id, user_id, log_date, total_calories, total_protein, total_carbohydrates, total_fat"

func scanLog(s scanner, l *domain.DailyLog) error {
	if err := s.Scan(&l.ID, &l.UserID, &l.Date,
		&l.Totals.Calories, &l.Totals.Protein, &l.Totals.Carbohydrates, &l.Totals.Fat); err != nil {
		return err
	}
	l.Date = domain.DayOf(l.Date)
	return nil
}

func (d *DB) queryLog(ctx context.Context, query string, args ...any) (*domain.DailyLog, error) {
	var l domain.DailyLog
	err := scanLog(d.q.QueryRowContext(ctx, query, args...), &l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLog returns the log of a user for a calendar day.
func (d *DB) GetLog(ctx context.Context, userID int64, day time.Time) (*domain.DailyLog, error) {
	return d.queryLog(ctx,
		"SELECT "+logColumns+" FROM daily_food_logs WHERE user_id = $1 AND log_date = $2;",
		userID, dayParam(day))
}

// EnsureLog creates the (user, day) row if needed and returns it locked
// with FOR UPDATE, so concurrent writers to the same day queue on it.
func (d *DB) EnsureLog(ctx context.Context, userID int64, day time.Time) (*domain.DailyLog, error) {
	if _, err := d.q.ExecContext(ctx,
		"INSERT INTO daily_food_logs (user_id, log_date) VALUES ($1, $2) ON CONFLICT (user_id, log_date) DO NOTHING;",
		userID, dayParam(day),
	); err != nil {
		return nil, err
	}
	l, err := d.queryLog(ctx,
		"SELECT "+logColumns+" FROM daily_food_logs WHERE user_id = $1 AND log_date = $2 FOR UPDATE;",
		userID, dayParam(day))
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, errors.New("daily log vanished after upsert")
	}
	return l, nil
}

// LockLog loads a log by ID with a row lock.
func (d *DB) LockLog(ctx context.Context, id int64) (*domain.DailyLog, error) {
	return d.queryLog(ctx, "SELECT "+logColumns+" FROM daily_food_logs WHERE id = $1 FOR UPDATE;", id)
}

// AdjustTotals adds delta to the running totals in a single statement.
func (d *DB) AdjustTotals(ctx context.Context, logID int64, delta domain.Amounts) error {
	res, err := d.q.ExecContext(ctx,
		"UPDATE daily_food_logs SET total_calories = total_calories + $2, total_protein = total_protein + $3, total_carbohydrates = total_carbohydrates + $4, total_fat = total_fat + $5 WHERE id = $1;",
		logID, delta.Calories, delta.Protein, delta.Carbohydrates, delta.Fat,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: daily log %d", domain.ErrNotFound, logID)
	}
	return nil
}

// ListLogs returns the logs of a user between two dates inclusive, oldest first.
func (d *DB) ListLogs(ctx context.Context, userID int64, from, to time.Time) ([]domain.DailyLog, error) {
	rows, err := d.q.QueryContext(ctx,
		"SELECT "+logColumns+" FROM daily_food_logs WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3 ORDER BY log_date;",
		userID, dayParam(from), dayParam(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.DailyLog
	for rows.Next() {
		var l domain.DailyLog
		if err := scanLog(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AddEntry inserts a log entry.
func (d *DB) AddEntry(ctx context.Context, logID, foodID int64, quantity domain.Quantity) (*domain.LogEntry, error) {
	e := domain.LogEntry{LogID: logID, FoodID: foodID, Quantity: quantity}
	err := d.q.QueryRowContext(ctx,
		"INSERT INTO food_log_entries (log_id, food_id, quantity) VALUES ($1, $2, $3) RETURNING id;",
		logID, foodID, int64(quantity),
	).Scan(&e.ID)
	if isForeignKeyViolation(err) {
		return nil, fmt.Errorf("%w: food item %d", domain.ErrNotFound, foodID)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntry retrieves a log entry by ID.
func (d *DB) GetEntry(ctx context.Context, id int64) (*domain.LogEntry, error) {
	var e domain.LogEntry
	err := d.q.QueryRowContext(ctx,
		"SELECT id, log_id, food_id, quantity FROM food_log_entries WHERE id = $1;", id,
	).Scan(&e.ID, &e.LogID, &e.FoodID, &e.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry removes a log entry and reports whether a row was deleted.
func (d *DB) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	res, err := d.q.ExecContext(ctx, "DELETE FROM food_log_entries WHERE id = $1;", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListEntries returns the entries of a log joined with their food items.
func (d *DB) ListEntries(ctx context.Context, logID int64) ([]domain.LoggedFood, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT e.id, e.log_id, e.food_id, e.quantity,
			f.id, f.food_name, f.serving_size, f.servings_per_container,
			f.calories_per_serving, f.carbohydrates_per_serving, f.protein_per_serving, f.fat_per_serving
		FROM food_log_entries e JOIN food_items f ON f.id = e.food_id
		WHERE e.log_id = $1 ORDER BY e.id;`, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.LoggedFood, 0)
	for rows.Next() {
		var lf domain.LoggedFood
		e, f := &lf.Entry, &lf.Food
		if err := rows.Scan(&e.ID, &e.LogID, &e.FoodID, &e.Quantity,
			&f.ID, &f.Name, &f.ServingSize, &f.ServingsPerContainer,
			&f.CaloriesPerServing, &f.CarbohydratesPerServing, &f.ProteinPerServing, &f.FatPerServing); err != nil {
			return nil, err
		}
		out = append(out, lf)
	}
	return out, rows.Err()
}

// ListEntriesByFood returns every entry referencing a food item.
func (d *DB) ListEntriesByFood(ctx context.Context, foodID int64) ([]domain.LogEntry, error) {
	rows, err := d.q.QueryContext(ctx,
		"SELECT id, log_id, food_id, quantity FROM food_log_entries WHERE food_id = $1 ORDER BY id;", foodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.ID, &e.LogID, &e.FoodID, &e.Quantity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEntriesByFood removes every entry referencing a food item.
func (d *DB) DeleteEntriesByFood(ctx context.Context, foodID int64) (int64, error) {
	res, err := d.q.ExecContext(ctx, "DELETE FROM food_log_entries WHERE food_id = $1;", foodID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
