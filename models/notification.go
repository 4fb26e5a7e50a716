package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Категории уведомлений.
const (
	TypeConversion = "conversion"
	TypeBonus      = "bonus"
)

// Notification - уведомление о конверсии или бонусе.
type Notification struct {
	InviterUID    string `json:"inviter_uid"`
	Type          string `json:"type"`
	PointsAwarded int64  `json:"points_awarded"`
	CreatedAt     string `json:"created_at"`

	raw Record
}

func NewNotification(r Record) Notification {
	return Notification{
		InviterUID:    r.String("inviter_uid"),
		Type:          r.String("type"),
		PointsAwarded: ToInt(r.Get("points_awarded")),
		CreatedAt:     r.String("created_at"),
		raw:           r,
	}
}

// Category - тип в нижнем регистре.
func (n Notification) Category() string {
	return strings.ToLower(n.Type)
}

// MarshalJSON отдаёт исходную запись, если она есть: отчёт включает уведомления как пришли.
func (n Notification) MarshalJSON() ([]byte, error) {
	if n.raw != nil {
		return json.Marshal(n.raw)
	}
	type plain Notification
	return json.Marshal(plain(n))
}

func (n *Notification) UnmarshalJSON(data []byte) error {
	r, ok := DecodeRecord(data)
	if !ok {
		return fmt.Errorf("notification record is not a JSON object")
	}
	*n = NewNotification(r)
	return nil
}

// IsKnownCategory проверяет значение фильтра по типу.
func IsKnownCategory(t string) bool {
	switch strings.ToLower(t) {
	case TypeConversion, TypeBonus:
		return true
	}
	return false
}
