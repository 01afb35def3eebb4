package domain

import (
	"context"
	"fmt"
	"strings"
)

// FoodItem is a catalog entry with per-serving nutrition facts.
type FoodItem struct {
	ID                      int64
	Name                    string
	ServingSize             string
	ServingsPerContainer    int64
	CaloriesPerServing      int64
	CarbohydratesPerServing int64
	ProteinPerServing       int64
	FatPerServing           int64
}

// Contribution is the nutrition of quantity servings.
func (f FoodItem) Contribution(quantity Quantity) Amounts {
	q := int64(quantity)
	return Amounts{
		Calories:      f.CaloriesPerServing * q,
		Protein:       f.ProteinPerServing * q,
		Carbohydrates: f.CarbohydratesPerServing * q,
		Fat:           f.FatPerServing * q,
	}
}

// Validate checks the invariants of a new catalog entry.
func (f FoodItem) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: food name is required", ErrValidation)
	}
	if strings.TrimSpace(f.ServingSize) == "" {
		return fmt.Errorf("%w: serving size is required", ErrValidation)
	}
	if f.ServingsPerContainer <= 0 {
		return fmt.Errorf("%w: servings per container must be positive", ErrValidation)
	}
	if f.CaloriesPerServing < 0 || f.CarbohydratesPerServing < 0 || f.ProteinPerServing < 0 || f.FatPerServing < 0 {
		return fmt.Errorf("%w: nutrition values must not be negative", ErrValidation)
	}
	if max(f.CaloriesPerServing, f.CarbohydratesPerServing, f.ProteinPerServing, f.FatPerServing) > MaxPerServing {
		return fmt.Errorf("%w: nutrition values must not exceed %d", ErrValidation, MaxPerServing)
	}
	return nil
}

// FoodRepository is the port for catalog persistence.
type FoodRepository interface {
	AddFood(ctx context.Context, f FoodItem) (*FoodItem, error)
	// GetFood returns (nil, nil) when the item does not exist.
	GetFood(ctx context.Context, id int64) (*FoodItem, error)
	// ShareFood is GetFood holding a lock that blocks deletion of the item
	// for the rest of the transaction.
	ShareFood(ctx context.Context, id int64) (*FoodItem, error)
	// LockFood is GetFood holding an exclusive lock for the rest of the
	// transaction.
	LockFood(ctx context.Context, id int64) (*FoodItem, error)
	ListFoods(ctx context.Context) ([]FoodItem, error)
	DeleteFood(ctx context.Context, id int64) error
}
