package domain

import "context"

// Store aggregates every repository port and scopes work to a transaction.
type Store interface {
	UserRepository
	ProfileRepository
	FoodRepository
	LogRepository

	// WithinTx runs fn against a transactional view of the store. The
	// changes made through tx are committed when fn returns nil and
	// discarded otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
