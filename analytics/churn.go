package analytics

import (
	"time"

	"referral-analytics/models"
)

// DefaultChurnDays - окно неактивности по умолчанию.
const DefaultChurnDays = 7

// AtRiskUser - приглашённый пользователь без очков.
type AtRiskUser struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	InvitedByCode string `json:"invited_by_code"`
}

// ChurnReport - результат поиска риска оттока.
type ChurnReport struct {
	Days  int          `json:"days"`
	Count int          `json:"count"`
	Users []AtRiskUser `json:"users"`
}

// DetectChurnRisk отмечает приглашённых пользователей с нулём очков,
// чей аккаунт создан не позже reference минус days календарных дней.
// Пользователи с битой датой создания не рассматриваются.
func DetectChurnRisk(users []models.User, reference time.Time, days int) (ChurnReport, error) {
	if err := requirePositive("days", days); err != nil {
		return ChurnReport{}, err
	}
	cutoff := reference.UTC().AddDate(0, 0, -days)

	atRisk := make([]AtRiskUser, 0)
	for _, u := range users {
		if !u.Referred() {
			continue
		}
		if u.PointsTotal != 0 {
			continue
		}
		created, ok := parseLenient(u.CreatedAt)
		if !ok {
			continue
		}
		if created.After(cutoff) {
			continue
		}
		atRisk = append(atRisk, AtRiskUser{
			UID:           u.UID,
			Name:          u.Name,
			Email:         u.Email,
			InvitedByCode: u.InvitedByCode,
		})
	}

	return ChurnReport{Days: days, Count: len(atRisk), Users: atRisk}, nil
}
