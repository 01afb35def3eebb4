package app_test

import (
	"context"
	"errors"
	"testing"

	"muscal/internal/app"
	"muscal/internal/domain"

	"go.uber.org/zap"
)

func ptr(v float64) *float64 { return &v }

func TestGoalService_SetGoals(t *testing.T) {
	ctx := context.Background()
	db := newMemory()
	u := mustRegister(t, db, "alice")
	svc := app.NewGoalService(db, zap.NewNop())

	p, err := svc.SetGoals(ctx, u.ID, domain.GoalUpdate{
		CalorieGoal: ptr(2500),
		ProteinGoal: ptr(40),
		FatGoal:     ptr(20),
	})
	if err != nil {
		t.Fatalf("set goals: %v", err)
	}
	want := domain.Profile{UserID: u.ID, CalorieGoal: 2500, ProteinGoal: 40, CarbohydrateGoal: 40, FatGoal: 20}
	if *p != want {
		t.Errorf("profile = %+v, want %+v", *p, want)
	}

	stored, err := svc.Get(ctx, u.ID)
	if err != nil || *stored != want {
		t.Errorf("stored = %+v, %v", stored, err)
	}
}

func TestGoalService_SetGoals_Invalid(t *testing.T) {
	ctx := context.Background()
	db := newMemory()
	u := mustRegister(t, db, "alice")
	svc := app.NewGoalService(db, zap.NewNop())

	tests := []struct {
		name string
		u    domain.GoalUpdate
	}{
		{"sum not 100", domain.GoalUpdate{ProteinGoal: ptr(40), CarbohydrateGoal: ptr(40), FatGoal: ptr(10)}},
		{"zero calories", domain.GoalUpdate{CalorieGoal: ptr(0)}},
		{"negative macro", domain.GoalUpdate{ProteinGoal: ptr(-10), CarbohydrateGoal: ptr(80), FatGoal: ptr(30)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SetGoals(ctx, u.ID, tc.u); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	p, _ := svc.Get(ctx, u.ID)
	if *p != domain.DefaultProfile(u.ID) {
		t.Errorf("rejected updates must not persist, got %+v", *p)
	}
}

func TestGoalService_UnknownUser(t *testing.T) {
	svc := app.NewGoalService(newMemory(), zap.NewNop())
	if _, err := svc.Get(context.Background(), 9); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected not found, got %v", err)
	}
	if _, err := svc.SetGoals(context.Background(), 9, domain.GoalUpdate{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("set: expected not found, got %v", err)
	}
	if _, err := svc.Dashboard(context.Background(), 9, day("01-01-2024")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("dashboard: expected not found, got %v", err)
	}
}

func TestGoalService_Dashboard(t *testing.T) {
	ctx := context.Background()
	db := newMemory()
	u := mustRegister(t, db, "alice")
	o := mustAddFood(t, db, oats())
	d := day("01-01-2024")
	if _, err := app.NewLedgerService(db, zap.NewNop()).LogEntry(ctx, u.ID, d, o.ID, 2); err != nil {
		t.Fatalf("log: %v", err)
	}
	svc := app.NewGoalService(db, zap.NewNop())

	dash, err := svc.Dashboard(ctx, u.ID, d)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	// 2000 kcal at 30/40/30 is 150 g protein, 200 g carbohydrate, 66.67 g fat.
	if !almostEqual(dash.Goal.ProteinGoal, 150) || !almostEqual(dash.Goal.CarbohydrateGoal, 200) || !almostEqual(dash.Goal.FatGoal, 2000*0.3/9) {
		t.Errorf("unexpected goals: %+v", dash.Goal)
	}
	assertTotals(t, dash.Total, domain.Amounts{Calories: 300_000, Protein: 10_000, Carbohydrates: 54_000, Fat: 6_000})
	if !almostEqual(dash.Progress.CalorieProgress, 15) {
		t.Errorf("calorie progress = %v, want 15", dash.Progress.CalorieProgress)
	}

	empty, err := svc.Dashboard(ctx, u.ID, day("02-01-2024"))
	if err != nil {
		t.Fatalf("dashboard without log: %v", err)
	}
	assertTotals(t, empty.Total, domain.Amounts{})
	if empty.Progress != (domain.ProgressReport{}) {
		t.Errorf("expected zero progress, got %+v", empty.Progress)
	}
}
