package adapthttp

import (
	"net/http"
	"time"

	"muscal/internal/domain"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	day := domain.Today()
	if raw := r.URL.Query().Get("log_date"); raw != "" {
		var err error
		if day, err = domain.ParseISODay(raw); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}

	d, err := s.goals.Dashboard(r.Context(), userIDFromContext(r.Context()), day)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	total := d.Total.Nutrition()
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  d.UserID,
		"log_date": domain.FormatDay(d.Day),
		"goal":     d.Goal,
		"total": map[string]any{
			"total_calories":      total.Calories,
			"total_protein":       total.Protein,
			"total_carbohydrates": total.Carbohydrates,
			"total_fat":           total.Fat,
		},
		"progress": d.Progress,
	})
}

func (s *Server) handleSetGoals(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CalorieGoal      *flexFloat `json:"calorie_goal"`
		ProteinGoal      *flexFloat `json:"protein_goal"`
		CarbohydrateGoal *flexFloat `json:"carbohydrate_goal"`
		FatGoal          *flexFloat `json:"fat_goal"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	p, err := s.goals.SetGoals(r.Context(), userIDFromContext(r.Context()), domain.GoalUpdate{
		CalorieGoal:      (*float64)(req.CalorieGoal),
		ProteinGoal:      (*float64)(req.ProteinGoal),
		CarbohydrateGoal: (*float64)(req.CarbohydrateGoal),
		FatGoal:          (*float64)(req.FatGoal),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Goals updated successfully.",
		"goal": map[string]any{
			"calorie_goal":      p.CalorieGoal,
			"protein_goal":      p.ProteinGoal,
			"carbohydrate_goal": p.CarbohydrateGoal,
			"fat_goal":          p.FatGoal,
		},
	})
}

type historyPoint struct {
	Day             string           `json:"day"`
	Total           domain.Nutrition `json:"total"`
	CalorieProgress float64          `json:"calorie_progress"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	points, err := s.history.History(r.Context(), userIDFromContext(r.Context()), intQuery(r, "days", 30))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	items := make([]historyPoint, 0, len(points))
	for _, p := range points {
		items = append(items, historyPoint{
			Day:             p.Day.Format(domain.ISODayLayout),
			Total:           p.Total.Nutrition(),
			CalorieProgress: p.CalorieProgress,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"today": domain.FormatDay(time.Now()),
		"items": items,
	})
}
