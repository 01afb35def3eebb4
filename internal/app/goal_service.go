package app

import (
	"context"
	"fmt"
	"time"

	"muscal/internal/domain"

	"go.uber.org/zap"
)

// Dashboard relates the totals of one day to the user's goals.
type Dashboard struct {
	UserID   int64
	Day      time.Time
	Goal     domain.Goals
	Total    domain.Amounts
	Progress domain.ProgressReport
}

// GoalService manages goal profiles and the progress dashboard.
type GoalService struct {
	store domain.Store
	log   *zap.Logger
}

// NewGoalService creates a GoalService.
func NewGoalService(store domain.Store, log *zap.Logger) *GoalService {
	return &GoalService{store: store, log: log.Named("goals")}
}

// Get returns the goal profile of userID.
func (s *GoalService) Get(ctx context.Context, userID int64) (*domain.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: user profile not found", domain.ErrNotFound)
	}
	return p, nil
}

// SetGoals applies the non-nil fields of u to the profile of userID. The
// merged profile is validated as a whole and stored atomically.
func (s *GoalService) SetGoals(ctx context.Context, userID int64, u domain.GoalUpdate) (*domain.Profile, error) {
	var updated domain.Profile
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		p, err := tx.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: user profile not found", domain.ErrNotFound)
		}
		if updated, err = u.Apply(*p); err != nil {
			return err
		}
		return tx.UpdateProfile(ctx, updated)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("goals updated",
		zap.Int64("user_id", userID),
		zap.Float64("calorie_goal", updated.CalorieGoal),
		zap.Float64("protein_goal", updated.ProteinGoal),
		zap.Float64("carbohydrate_goal", updated.CarbohydrateGoal),
		zap.Float64("fat_goal", updated.FatGoal),
	)
	return &updated, nil
}

// Dashboard returns goals, totals and progress of userID for day. A day
// without a log has zero totals.
func (s *GoalService) Dashboard(ctx context.Context, userID int64, day time.Time) (*Dashboard, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	day = domain.DayOf(day)
	l, err := s.store.GetLog(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	var total domain.Amounts
	if l != nil {
		total = l.Totals
	}
	goals := domain.GramGoals(*p)
	return &Dashboard{
		UserID:   userID,
		Day:      day,
		Goal:     goals,
		Total:    total,
		Progress: domain.ComputeProgress(total.Nutrition(), goals),
	}, nil
}
