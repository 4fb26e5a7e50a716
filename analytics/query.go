package analytics

import (
	"sort"
	"strings"
	"time"

	"referral-analytics/models"
)

const (
	DefaultNotificationLimit = 50
	DefaultTopReferrers      = 5
)

// Query - интерактивные запросы к одному поколению данных.
// Все агрегаты считаются заново при каждом вызове.
type Query struct {
	Users         []models.User
	Notifications []models.Notification
	Now           func() time.Time
}

// NewQuery привязывает запросы к срезам снимка. now == nil означает time.Now.
func NewQuery(users []models.User, notifs []models.Notification, now func() time.Time) *Query {
	if now == nil {
		now = time.Now
	}
	return &Query{Users: users, Notifications: notifs, Now: now}
}

func (q *Query) now() time.Time {
	if q.Now == nil {
		return time.Now().UTC()
	}
	return q.Now().UTC()
}

// SearchUsers - поиск подстроки без учёта регистра по name, email, uid и my_code.
func (q *Query) SearchUsers(term string) []models.User {
	needle := strings.ToLower(strings.TrimSpace(term))
	found := make([]models.User, 0)
	for _, u := range q.Users {
		if needle == "" {
			found = append(found, u)
			continue
		}
		for _, field := range []string{u.Name, u.Email, u.UID, u.MyCode} {
			if strings.Contains(strings.ToLower(field), needle) {
				found = append(found, u)
				break
			}
		}
	}
	return found
}

// NotificationFilter - параметры выборки уведомлений. Limit == 0 берёт значение по умолчанию.
type NotificationFilter struct {
	InviterUID string
	Start      string
	End        string
	Type       string
	Limit      int
}

// NotificationsByDate возвращает уведомления окна от новых к старым.
func (q *Query) NotificationsByDate(f NotificationFilter) ([]models.Notification, error) {
	limit := f.Limit
	if limit == 0 {
		limit = DefaultNotificationLimit
	}
	if err := requirePositive("limit", limit); err != nil {
		return nil, err
	}
	w, err := ParseWindow(f.Start, f.End)
	if err != nil {
		return nil, err
	}
	category := strings.ToLower(strings.TrimSpace(f.Type))
	if category != "" && !models.IsKnownCategory(category) {
		return nil, &InvalidArgumentError{Name: "type", Value: f.Type, Reason: "must be conversion or bonus"}
	}

	type dated struct {
		n  models.Notification
		at time.Time
	}
	selected := make([]dated, 0)
	for _, n := range q.Notifications {
		at, ok := parseLenient(n.CreatedAt)
		if !ok || !w.Contains(at) {
			continue
		}
		if f.InviterUID != "" && n.InviterUID != f.InviterUID {
			continue
		}
		if category != "" && n.Category() != category {
			continue
		}
		selected = append(selected, dated{n: n, at: at})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].at.After(selected[j].at)
	})
	if len(selected) > limit {
		selected = selected[:limit]
	}

	out := make([]models.Notification, len(selected))
	for i, d := range selected {
		out[i] = d.n
	}
	return out, nil
}

// PointsSummary - сводка очков за окно, опционально по одному пригласившему.
func (q *Query) PointsSummary(inviterUID, start, end string) (PointsSummary, error) {
	w, err := ParseWindow(start, end)
	if err != nil {
		return PointsSummary{}, err
	}
	notifs := SelectNotifications(q.Notifications, w)
	if inviterUID != "" {
		notifs = byInviter(notifs, inviterUID)
	}
	return Summarize(notifs), nil
}

// TopReferrers ранжирует по уведомлениям окна, профиль берётся из всех пользователей.
func (q *Query) TopReferrers(start, end string, limit int) ([]RankedReferrer, error) {
	if limit == 0 {
		limit = DefaultTopReferrers
	}
	w, err := ParseWindow(start, end)
	if err != nil {
		return nil, err
	}
	return RankReferrers(SelectNotifications(q.Notifications, w), q.Users, limit)
}

// ChurnRisk - по всем пользователям относительно текущего момента.
func (q *Query) ChurnRisk(days int) (ChurnReport, error) {
	if days == 0 {
		days = DefaultChurnDays
	}
	return DetectChurnRisk(q.Users, q.now(), days)
}

// TotalPoints - сумма очков за окно.
func (q *Query) TotalPoints(start, end string) (int64, error) {
	w, err := ParseWindow(start, end)
	if err != nil {
		return 0, err
	}
	return TotalPoints(SelectNotifications(q.Notifications, w)), nil
}

// CurrentDate - текущий момент в каноническом виде.
func (q *Query) CurrentDate() map[string]string {
	return map[string]string{"current_date": FormatInstant(q.now())}
}

func byInviter(notifs []models.Notification, uid string) []models.Notification {
	out := make([]models.Notification, 0, len(notifs))
	for _, n := range notifs {
		if n.InviterUID == uid {
			out = append(out, n)
		}
	}
	return out
}
