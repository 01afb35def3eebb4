package adapthttp

import (
	"fmt"
	"net/http"

	"muscal/internal/domain"
)

type foodServing struct {
	ServingSize          string `json:"serving_size"`
	ServingsPerContainer int64  `json:"servings_per_container"`
}

type foodNutritions struct {
	CaloriesPerServing      int64 `json:"calories_per_serving"`
	CarbohydratesPerServing int64 `json:"carbohydrates_per_serving"`
	ProteinPerServing       int64 `json:"protein_per_serving"`
	FatPerServing           int64 `json:"fat_per_serving"`
}

type foodResponse struct {
	FoodID     int64          `json:"food_id"`
	FoodName   string         `json:"food_name"`
	Serving    foodServing    `json:"serving"`
	Nutritions foodNutritions `json:"nutritions"`
}

func toFoodResponse(f domain.FoodItem) foodResponse {
	return foodResponse{
		FoodID:   f.ID,
		FoodName: f.Name,
		Serving: foodServing{
			ServingSize:          f.ServingSize,
			ServingsPerContainer: f.ServingsPerContainer,
		},
		Nutritions: foodNutritions{
			CaloriesPerServing:      f.CaloriesPerServing,
			CarbohydratesPerServing: f.CarbohydratesPerServing,
			ProteinPerServing:       f.ProteinPerServing,
			FatPerServing:           f.FatPerServing,
		},
	}
}

type addFoodRequest struct {
	FoodName                *string  `json:"food_name"`
	ServingSize             *string  `json:"serving_size"`
	ServingsPerContainer    *flexInt `json:"servings_per_container"`
	CaloriesPerServing      *flexInt `json:"calories_per_serving"`
	CarbohydratesPerServing *flexInt `json:"carbohydrates_per_serving"`
	ProteinPerServing       *flexInt `json:"protein_per_serving"`
	FatPerServing           *flexInt `json:"fat_per_serving"`
}

func (req addFoodRequest) toFood() (domain.FoodItem, error) {
	if req.FoodName == nil || *req.FoodName == "" || req.ServingSize == nil || *req.ServingSize == "" ||
		req.ServingsPerContainer == nil || req.CaloriesPerServing == nil {
		return domain.FoodItem{}, fmt.Errorf("%w: food name, serving size, servings per container, and calories per serving are required", domain.ErrValidation)
	}
	opt := func(v *flexInt) int64 {
		if v == nil {
			return 0
		}
		return int64(*v)
	}
	return domain.FoodItem{
		Name:                    *req.FoodName,
		ServingSize:             *req.ServingSize,
		ServingsPerContainer:    int64(*req.ServingsPerContainer),
		CaloriesPerServing:      int64(*req.CaloriesPerServing),
		CarbohydratesPerServing: opt(req.CarbohydratesPerServing),
		ProteinPerServing:       opt(req.ProteinPerServing),
		FatPerServing:           opt(req.FatPerServing),
	}, nil
}

func (s *Server) handleListFoods(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if len(items) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "No food items found."})
		return
	}

	out := make([]foodResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFoodResponse(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"food_items": out})
}

func (s *Server) handleGetFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "food_id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	f, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFoodResponse(*f))
}

func (s *Server) handleAddFood(w http.ResponseWriter, r *http.Request) {
	var req addFoodRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	food, err := req.toFood()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	created, err := s.catalog.Add(r.Context(), food)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Food item added successfully.",
		"food": map[string]any{
			"food_id":                   created.ID,
			"food_name":                 created.Name,
			"serving_size":              created.ServingSize,
			"servings_per_container":    created.ServingsPerContainer,
			"calories_per_serving":      created.CaloriesPerServing,
			"carbohydrates_per_serving": created.CarbohydratesPerServing,
			"protein_per_serving":       created.ProteinPerServing,
			"fat_per_serving":           created.FatPerServing,
		},
	})
}

func (s *Server) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "food_id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Food item and related log entries deleted successfully."})
}
