package domain

import (
	"fmt"
	"math"
)

// milli is the number of stored units per whole kcal, gram or serving.
const milli = 1000

// Limits keep every product and running total well inside int64.
const (
	MaxPerServing = 1_000_000
	MaxQuantity   = 1_000_000
)

// Nutrition is an amount of energy (kcal) and macronutrients (grams) as
// presented to clients.
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}

// Amounts is a nutrition amount in thousandths of a kcal or gram. Running
// totals are kept as Amounts so adding and removing a contribution always
// restores the previous value exactly.
type Amounts struct {
	Calories      int64
	Protein       int64
	Carbohydrates int64
	Fat           int64
}

// Add returns the field-wise sum of a and o.
func (a Amounts) Add(o Amounts) Amounts {
	return Amounts{
		Calories:      a.Calories + o.Calories,
		Protein:       a.Protein + o.Protein,
		Carbohydrates: a.Carbohydrates + o.Carbohydrates,
		Fat:           a.Fat + o.Fat,
	}
}

// Neg returns a with every field negated.
func (a Amounts) Neg() Amounts {
	return Amounts{Calories: -a.Calories, Protein: -a.Protein, Carbohydrates: -a.Carbohydrates, Fat: -a.Fat}
}

// Nutrition converts a to whole kcal and grams.
func (a Amounts) Nutrition() Nutrition {
	return Nutrition{
		Calories:      float64(a.Calories) / milli,
		Protein:       float64(a.Protein) / milli,
		Carbohydrates: float64(a.Carbohydrates) / milli,
		Fat:           float64(a.Fat) / milli,
	}
}

// Quantity is a number of servings in thousandths of a serving.
type Quantity int64

// NewQuantity converts a client supplied serving count. The count must be
// positive and have at most three decimal places.
func NewQuantity(servings float64) (Quantity, error) {
	if math.IsNaN(servings) || math.IsInf(servings, 0) || servings <= 0 {
		return 0, fmt.Errorf("%w: quantity must be a positive number", ErrValidation)
	}
	if servings > MaxQuantity {
		return 0, fmt.Errorf("%w: quantity must not exceed %d servings", ErrValidation, MaxQuantity)
	}
	scaled := servings * milli
	q := math.Round(scaled)
	if math.Abs(scaled-q) > 1e-6 {
		return 0, fmt.Errorf("%w: quantity supports at most three decimal places", ErrValidation)
	}
	if q == 0 {
		return 0, fmt.Errorf("%w: quantity must be a positive number", ErrValidation)
	}
	return Quantity(q), nil
}

// Servings returns q as a serving count.
func (q Quantity) Servings() float64 {
	return float64(q) / milli
}
