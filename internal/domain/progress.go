package domain

// Energy per gram of macronutrient.
const (
	kcalPerGramProtein      = 4
	kcalPerGramCarbohydrate = 4
	kcalPerGramFat          = 9
)

// Goals are absolute daily targets derived from a Profile.
type Goals struct {
	CalorieGoal      float64 `json:"calorie_goal"`
	ProteinGoal      float64 `json:"protein_goal"`
	CarbohydrateGoal float64 `json:"carbohydrate_goal"`
	FatGoal          float64 `json:"fat_goal"`
}

// ProgressReport is the consumed share of each goal, in percent.
type ProgressReport struct {
	CalorieProgress      float64 `json:"calorie_progress"`
	ProteinProgress      float64 `json:"protein_progress"`
	CarbohydrateProgress float64 `json:"carbohydrate_progress"`
	FatProgress          float64 `json:"fat_progress"`
}

// GramGoals converts the percentage goals of p into grams.
func GramGoals(p Profile) Goals {
	return Goals{
		CalorieGoal:      p.CalorieGoal,
		ProteinGoal:      p.ProteinGoal / 100 * p.CalorieGoal / kcalPerGramProtein,
		CarbohydrateGoal: p.CarbohydrateGoal / 100 * p.CalorieGoal / kcalPerGramCarbohydrate,
		FatGoal:          p.FatGoal / 100 * p.CalorieGoal / kcalPerGramFat,
	}
}

// Progress is total as a percentage of goal; a non-positive goal yields 0.
func Progress(total, goal float64) float64 {
	if goal > 0 {
		return total / goal * 100
	}
	return 0
}

// ComputeProgress relates a day's totals to the goals.
func ComputeProgress(totals Nutrition, g Goals) ProgressReport {
	return ProgressReport{
		CalorieProgress:      Progress(totals.Calories, g.CalorieGoal),
		ProteinProgress:      Progress(totals.Protein, g.ProteinGoal),
		CarbohydrateProgress: Progress(totals.Carbohydrates, g.CarbohydrateGoal),
		FatProgress:          Progress(totals.Fat, g.FatGoal),
	}
}
