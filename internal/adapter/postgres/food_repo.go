package postgres

import (
	"context"
	"database/sql"
	"errors"

	"muscal/internal/domain"
)

const foodColumns = "id, food_name, serving_size, servings_per_container, calories_per_serving, carbohydrates_per_serving, protein_per_serving, fat_per_serving"

type scanner interface {
	Scan(dest ...any) error
}

func scanFood(s scanner, f *domain.FoodItem) error {
	return s.Scan(&f.ID, &f.Name, &f.ServingSize, &f.ServingsPerContainer,
		&f.CaloriesPerServing, &f.CarbohydratesPerServing, &f.ProteinPerServing, &f.FatPerServing)
}

// AddFood inserts a catalog item.
func (d *DB) AddFood(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	err := d.q.QueryRowContext(ctx,
		"INSERT INTO food_items (food_name, serving_size, servings_per_container, calories_per_serving, carbohydrates_per_serving, protein_per_serving, fat_per_serving) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;",
		f.Name, f.ServingSize, f.ServingsPerContainer, f.CaloriesPerServing, f.CarbohydratesPerServing, f.ProteinPerServing, f.FatPerServing,
	).Scan(&f.ID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFood retrieves a catalog item by ID.
func (d *DB) GetFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	return d.queryFood(ctx, "SELECT "+foodColumns+" FROM food_items WHERE id = $1;", id)
}

// ShareFood loads a catalog item with FOR KEY SHARE. Concurrent entries
// may reference it, but it cannot be deleted until the transaction ends.
func (d *DB) ShareFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	return d.queryFood(ctx, "SELECT "+foodColumns+" FROM food_items WHERE id = $1 FOR KEY SHARE;", id)
}

// LockFood loads a catalog item with FOR UPDATE, blocking new entries
// that reference it.
func (d *DB) LockFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	return d.queryFood(ctx, "SELECT "+foodColumns+" FROM food_items WHERE id = $1 FOR UPDATE;", id)
}

func (d *DB) queryFood(ctx context.Context, query string, args ...any) (*domain.FoodItem, error) {
	var f domain.FoodItem
	err := scanFood(d.q.QueryRowContext(ctx, query, args...), &f)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFoods returns the whole catalog ordered by ID.
func (d *DB) ListFoods(ctx context.Context) ([]domain.FoodItem, error) {
	rows, err := d.q.QueryContext(ctx, "SELECT "+foodColumns+" FROM food_items ORDER BY id;")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.FoodItem, 0)
	for rows.Next() {
		var f domain.FoodItem
		if err := scanFood(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteFood removes a catalog item.
func (d *DB) DeleteFood(ctx context.Context, id int64) error {
	_, err := d.q.ExecContext(ctx, "DELETE FROM food_items WHERE id = $1;", id)
	return err
}
