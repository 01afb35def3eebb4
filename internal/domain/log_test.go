package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"muscal/internal/domain"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"valid", "15-01-2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"leap day", "29-02-2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"impossible calendar date", "31-02-2024", time.Time{}, true},
		{"iso order", "2024-01-31", time.Time{}, true},
		{"slashes", "31/01/2024", time.Time{}, true},
		{"single digit day", "1-01-2024", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.ParseDay(tc.in)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("ParseDay(%q) err = %v; want ErrValidation", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDay(%q) unexpected error: %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseDay(%q) = %v; want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseISODay(t *testing.T) {
	if _, err := domain.ParseISODay("2024-01-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := domain.ParseISODay("31-01-2024"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDayOfAndFormat(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2024, 3, 5, 23, 30, 0, 0, loc)
	day := domain.DayOf(ts)
	if got := domain.FormatDay(day); got != "05-03-2024" {
		t.Errorf("FormatDay(DayOf(...)) = %q; want 05-03-2024", got)
	}
	if day.Location() != time.UTC || day.Hour() != 0 {
		t.Errorf("expected midnight UTC, got %v", day)
	}
}

func TestLoggedFoodContribution(t *testing.T) {
	lf := domain.LoggedFood{
		Entry: domain.LogEntry{Quantity: 2500},
		Food: domain.FoodItem{
			CaloriesPerServing: 100, CarbohydratesPerServing: 10,
			ProteinPerServing: 5, FatPerServing: 2,
		},
	}
	want := domain.Nutrition{Calories: 250, Carbohydrates: 25, Protein: 12.5, Fat: 5}
	if got := lf.Contribution().Nutrition(); got != want {
		t.Errorf("Contribution() = %+v; want %+v", got, want)
	}
}

func TestAmountsAddNegRoundTrip(t *testing.T) {
	food := domain.FoodItem{CaloriesPerServing: 150, ProteinPerServing: 5, CarbohydratesPerServing: 27, FatPerServing: 3}
	start := food.Contribution(100)
	for _, q := range []domain.Quantity{200, 333, 1, 999_999} {
		delta := food.Contribution(q)
		if got := start.Add(delta).Add(delta.Neg()); got != start {
			t.Errorf("round trip with %d = %+v; want %+v", q, got, start)
		}
	}
	if got := start.Nutrition().Carbohydrates; got != 2.7 {
		t.Errorf("carbohydrates = %v; want 2.7", got)
	}
}

func TestNewQuantity(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    domain.Quantity
		wantErr bool
	}{
		{"whole", 2, 2000, false},
		{"tenth", 0.1, 100, false},
		{"three decimals", 1.125, 1125, false},
		{"smallest", 0.001, 1, false},
		{"zero", 0, 0, true},
		{"negative", -1, 0, true},
		{"nan", math.NaN(), 0, true},
		{"inf", math.Inf(1), 0, true},
		{"four decimals", 0.0005, 0, true},
		{"repeating", 1.0 / 3, 0, true},
		{"too large", domain.MaxQuantity + 1, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.NewQuantity(tc.in)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("NewQuantity(%v) err = %v; want ErrValidation", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewQuantity(%v) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("NewQuantity(%v) = %d; want %d", tc.in, got, tc.want)
			}
			if got.Servings() != tc.in {
				t.Errorf("Servings() = %v; want %v", got.Servings(), tc.in)
			}
		})
	}
}
