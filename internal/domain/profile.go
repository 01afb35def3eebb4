package domain

import (
	"context"
	"fmt"
	"math"
)

// Defaults applied to the profile created at registration.
const (
	DefaultCalorieGoal      = 2000
	DefaultProteinGoal      = 30
	DefaultCarbohydrateGoal = 40
	DefaultFatGoal          = 30
)

// Profile holds a user's calorie target and macro split. The macro goals
// are percentages of calories.
type Profile struct {
	UserID           int64   `json:"user_id"`
	CalorieGoal      float64 `json:"calorie_goal"`
	ProteinGoal      float64 `json:"protein_goal"`
	CarbohydrateGoal float64 `json:"carbohydrate_goal"`
	FatGoal          float64 `json:"fat_goal"`
}

// DefaultProfile returns the profile a new user starts with.
func DefaultProfile(userID int64) Profile {
	return Profile{
		UserID:           userID,
		CalorieGoal:      DefaultCalorieGoal,
		ProteinGoal:      DefaultProteinGoal,
		CarbohydrateGoal: DefaultCarbohydrateGoal,
		FatGoal:          DefaultFatGoal,
	}
}

// GoalUpdate carries optional goal changes; nil fields keep their value.
type GoalUpdate struct {
	CalorieGoal      *float64
	ProteinGoal      *float64
	CarbohydrateGoal *float64
	FatGoal          *float64
}

// Apply returns p with the non-nil fields of u applied, validated.
func (u GoalUpdate) Apply(p Profile) (Profile, error) {
	if u.CalorieGoal != nil {
		p.CalorieGoal = *u.CalorieGoal
	}
	if u.ProteinGoal != nil {
		p.ProteinGoal = *u.ProteinGoal
	}
	if u.CarbohydrateGoal != nil {
		p.CarbohydrateGoal = *u.CarbohydrateGoal
	}
	if u.FatGoal != nil {
		p.FatGoal = *u.FatGoal
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate enforces the goal invariants.
func (p Profile) Validate() error {
	if p.CalorieGoal <= 0 {
		return fmt.Errorf("%w: calorie goal must be positive", ErrValidation)
	}
	for _, v := range []float64{p.ProteinGoal, p.CarbohydrateGoal, p.FatGoal} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: macro goals must be between 0 and 100", ErrValidation)
		}
	}
	if math.Abs(p.ProteinGoal+p.CarbohydrateGoal+p.FatGoal-100) > 1e-9 {
		return fmt.Errorf("%w: sum of protein, carbohydrate, and fat goals not equal 100", ErrValidation)
	}
	return nil
}

// ProfileRepository is the port for goal profile persistence.
type ProfileRepository interface {
	// GetProfile returns (nil, nil) when absent.
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	CreateProfile(ctx context.Context, p Profile) error
	UpdateProfile(ctx context.Context, p Profile) error
}
