package app

import (
	"context"
	"time"

	"muscal/internal/domain"
)

// Bounds of the history window in days.
const (
	MinHistoryDays = 1
	MaxHistoryDays = 366
)

// HistoryService encapsulates per-day history retrieval.
type HistoryService struct {
	store domain.Store
	now   func() time.Time
}

// NewHistoryService creates a HistoryService backed by store.
func NewHistoryService(store domain.Store) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// DayPoint is a single data point returned by History.
type DayPoint struct {
	Day             time.Time
	Total           domain.Amounts
	CalorieProgress float64
}

// History returns one point per day for the last days days, oldest
// first, ending today. days is clamped to [MinHistoryDays, MaxHistoryDays].
func (s *HistoryService) History(ctx context.Context, userID int64, days int) ([]DayPoint, error) {
	days = min(max(days, MinHistoryDays), MaxHistoryDays)

	var calorieGoal float64
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		calorieGoal = p.CalorieGoal
	}

	today := domain.DayOf(s.now().In(time.Local))
	from := today.AddDate(0, 0, -(days - 1))
	logs, err := s.store.ListLogs(ctx, userID, from, today)
	if err != nil {
		return nil, err
	}
	byDay := make(map[time.Time]domain.Amounts, len(logs))
	for _, l := range logs {
		byDay[l.Date] = l.Totals
	}

	points := make([]DayPoint, 0, days)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		total := byDay[d]
		points = append(points, DayPoint{
			Day:             d,
			Total:           total,
			CalorieProgress: domain.Progress(total.Nutrition().Calories, calorieGoal),
		})
	}
	return points, nil
}
