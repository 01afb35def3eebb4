package domain_test

import (
	"errors"
	"testing"

	"muscal/internal/domain"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "alice", "pass", false},
		{"digits allowed", "bob42", "secret", false},
		{"short password", "alice", "abc", true},
		{"short username", "al", "password", true},
		{"space in username", "al ice", "password", true},
		{"punctuation", "alice!", "password", true},
		{"email", "a@b.com", "password", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateCredentials(tc.username, tc.password)
			if tc.wantErr && !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFoodItemValidate(t *testing.T) {
	valid := domain.FoodItem{Name: "Oats", ServingSize: "40g", ServingsPerContainer: 10, CaloriesPerServing: 150}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []domain.FoodItem{
		{ServingSize: "40g", ServingsPerContainer: 10, CaloriesPerServing: 150},
		{Name: "Oats", ServingsPerContainer: 10, CaloriesPerServing: 150},
		{Name: "Oats", ServingSize: "40g", CaloriesPerServing: 150},
		{Name: "Oats", ServingSize: "40g", ServingsPerContainer: 10, CaloriesPerServing: -1},
		{Name: "Oats", ServingSize: "40g", ServingsPerContainer: 10, FatPerServing: -3},
		{Name: "Oats", ServingSize: "40g", ServingsPerContainer: 10, ProteinPerServing: domain.MaxPerServing + 1},
	}
	for i, f := range bad {
		if err := f.Validate(); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}
