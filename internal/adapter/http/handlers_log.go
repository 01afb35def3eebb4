package adapthttp

import (
	"net/http"

	"muscal/internal/domain"
)

type entryResponse struct {
	EntryID    int64            `json:"entry_id"`
	FoodName   string           `json:"food_name"`
	Quantity   float64          `json:"quantity"`
	Nutritions domain.Nutrition `json:"nutritions"`
}

func (s *Server) handleViewLog(w http.ResponseWriter, r *http.Request) {
	day := domain.Today()
	if raw := r.PathValue("date"); raw != "" {
		var err error
		if day, err = domain.ParseDay(raw); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}

	view, err := s.ledger.View(r.Context(), userIDFromContext(r.Context()), day)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	entries := make([]entryResponse, 0, len(view.Entries))
	for _, e := range view.Entries {
		entries = append(entries, entryResponse{
			EntryID:    e.EntryID,
			FoodName:   e.FoodName,
			Quantity:   e.Quantity.Servings(),
			Nutritions: e.Contribution.Nutrition(),
		})
	}
	t := view.Log.Totals.Nutrition()
	writeJSON(w, http.StatusOK, map[string]any{
		"date":                domain.FormatDay(view.Log.Date),
		"total_calories":      t.Calories,
		"total_protein":       t.Protein,
		"total_carbohydrates": t.Carbohydrates,
		"total_fat":           t.Fat,
		"entries":             entries,
	})
}

func (s *Server) handleLogFood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LogDate  *string    `json:"log_date"`
		FoodID   *flexInt   `json:"food_id"`
		Quantity *flexFloat `json:"quantity"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	day := domain.Today()
	if req.LogDate != nil && *req.LogDate != "" {
		var err error
		if day, err = domain.ParseDay(*req.LogDate); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}
	var foodID int64
	var quantity float64
	if req.FoodID != nil {
		foodID = int64(*req.FoodID)
	}
	if req.Quantity != nil {
		quantity = float64(*req.Quantity)
	}

	entry, err := s.ledger.LogEntry(r.Context(), userIDFromContext(r.Context()), day, foodID, quantity)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Food logged successfully and totals updated.",
		"entry_id": entry.ID,
		"date":     domain.FormatDay(day),
	})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entry_id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.ledger.DeleteEntry(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Food log entry deleted and totals updated."})
}
