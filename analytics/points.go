package analytics

import (
	"math"

	"referral-analytics/models"
)

// PointsSummary - очки за период с разбивкой по категориям.
// Total считается по всем уведомлениям, включая неизвестные типы.
type PointsSummary struct {
	Total           int64 `json:"points_total_period"`
	FromConversions int64 `json:"points_from_conversions"`
	FromBonus       int64 `json:"points_from_bonus"`
}

// Summarize суммирует очки по категориям. При выходе за int64 сумма
// упирается в границу диапазона.
func Summarize(notifs []models.Notification) PointsSummary {
	var s PointsSummary
	for _, n := range notifs {
		points := n.PointsAwarded
		s.Total = addPoints(s.Total, points)
		switch n.Category() {
		case models.TypeConversion:
			s.FromConversions = addPoints(s.FromConversions, points)
		case models.TypeBonus:
			s.FromBonus = addPoints(s.FromBonus, points)
		}
	}
	return s
}

// TotalPoints - только общий итог.
func TotalPoints(notifs []models.Notification) int64 {
	var total int64
	for _, n := range notifs {
		total = addPoints(total, n.PointsAwarded)
	}
	return total
}

func addPoints(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}
