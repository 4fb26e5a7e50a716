package analytics

import (
	"time"

	"referral-analytics/models"
)

// Window - включающий интервал [Start, End]; nil означает отсутствие границы.
// Границы хранят смещение вызывающего: сравнение идёт по моменту, а дата
// для подписей берётся такой, какой её передали.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// NewWindow проверяет порядок границ один раз, до любой фильтрации.
func NewWindow(start, end *time.Time) (Window, error) {
	if start != nil && end != nil && start.After(*end) {
		return Window{}, &InvalidRangeError{Start: *start, End: *end}
	}
	return Window{Start: start, End: end}, nil
}

// ParseWindow разбирает границы, пришедшие от вызывающего. Здесь битая дата - ошибка.
func ParseWindow(startRaw, endRaw string) (Window, error) {
	start, err := parseBound(startRaw)
	if err != nil {
		return Window{}, err
	}
	end, err := parseBound(endRaw)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(start, end)
}

func parseBound(raw string) (*time.Time, error) {
	t, ok, err := parseWithOffset(raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Bounded - задана хотя бы одна граница.
func (w Window) Bounded() bool {
	return w.Start != nil || w.End != nil
}

// Contains - обе границы включаются.
func (w Window) Contains(t time.Time) bool {
	return InWindow(t, w.Start, w.End)
}

// InWindow - t >= start и t <= end для заданных границ.
func InWindow(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

// containsRaw - запись без даты или с битой датой в окно не попадает.
func (w Window) containsRaw(raw string) bool {
	t, ok := parseLenient(raw)
	if !ok {
		return false
	}
	return w.Contains(t)
}

// SelectUsers отбирает пользователей по created_at, сохраняя порядок.
func SelectUsers(users []models.User, w Window) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if w.containsRaw(u.CreatedAt) {
			out = append(out, u)
		}
	}
	return out
}

// SelectNotifications отбирает уведомления по created_at, сохраняя порядок.
func SelectNotifications(notifs []models.Notification, w Window) []models.Notification {
	out := make([]models.Notification, 0, len(notifs))
	for _, n := range notifs {
		if w.containsRaw(n.CreatedAt) {
			out = append(out, n)
		}
	}
	return out
}
