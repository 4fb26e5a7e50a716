package analytics

import (
	"sort"

	"referral-analytics/models"
)

// RankedReferrer - строка рейтинга пригласивших.
type RankedReferrer struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	MyCode      string `json:"my_code"`
	Conversions int    `json:"conversions"`
	PointsTotal int64  `json:"points_total"`
}

// RankReferrers считает конверсии по inviter_uid и ранжирует пригласивших
// по (conversions, points_total) по убыванию. Пригласивший без профиля в users
// молча выпадает. При равенстве ключей сохраняется порядок первого появления.
func RankReferrers(notifs []models.Notification, users []models.User, limit int) ([]RankedReferrer, error) {
	if err := requirePositive("limit", limit); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, n := range notifs {
		if n.Category() != models.TypeConversion || n.InviterUID == "" {
			continue
		}
		if _, seen := counts[n.InviterUID]; !seen {
			order = append(order, n.InviterUID)
		}
		counts[n.InviterUID]++
	}

	byUID := indexUsers(users)
	ranked := make([]RankedReferrer, 0, len(order))
	for _, uid := range order {
		u, ok := byUID[uid]
		if !ok {
			continue
		}
		ranked = append(ranked, RankedReferrer{
			UID:         uid,
			Name:        u.Name,
			MyCode:      u.MyCode,
			Conversions: counts[uid],
			PointsTotal: u.PointsTotal,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Conversions != ranked[j].Conversions {
			return ranked[i].Conversions > ranked[j].Conversions
		}
		return ranked[i].PointsTotal > ranked[j].PointsTotal
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// indexUsers - первый пользователь с данным uid выигрывает.
func indexUsers(users []models.User) map[string]models.User {
	idx := make(map[string]models.User, len(users))
	for _, u := range users {
		if u.UID == "" {
			continue
		}
		if _, exists := idx[u.UID]; exists {
			continue
		}
		idx[u.UID] = u
	}
	return idx
}
