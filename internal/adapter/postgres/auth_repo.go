// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"muscal/internal/domain"
)

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := d.q.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = $1",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := d.q.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = $1",
		id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	var u domain.User
	err := d.q.QueryRowContext(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id, username, password_hash, created_at",
		username, passwordHash, time.Now().UTC(),
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: username is taken", domain.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProfile returns the goal profile of a user.
func (d *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var p domain.Profile
	err := d.q.QueryRowContext(ctx,
		"SELECT user_id, calorie_goal, protein_goal, carbohydrate_goal, fat_goal FROM user_profiles WHERE user_id = $1",
		userID,
	).Scan(&p.UserID, &p.CalorieGoal, &p.ProteinGoal, &p.CarbohydrateGoal, &p.FatGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a profile row.
func (d *DB) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := d.q.ExecContext(ctx,
		"INSERT INTO user_profiles (user_id, calorie_goal, protein_goal, carbohydrate_goal, fat_goal) VALUES ($1, $2, $3, $4, $5)",
		p.UserID, p.CalorieGoal, p.ProteinGoal, p.CarbohydrateGoal, p.FatGoal,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: profile already exists", domain.ErrConflict)
	}
	return err
}

// UpdateProfile writes all four goals of a profile.
func (d *DB) UpdateProfile(ctx context.Context, p domain.Profile) error {
	res, err := d.q.ExecContext(ctx,
		"UPDATE user_profiles SET calorie_goal = $2, protein_goal = $3, carbohydrate_goal = $4, fat_goal = $5 WHERE user_id = $1",
		p.UserID, p.CalorieGoal, p.ProteinGoal, p.CarbohydrateGoal, p.FatGoal,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user profile not found", domain.ErrNotFound)
	}
	return nil
}
