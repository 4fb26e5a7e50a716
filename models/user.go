package models

import (
	"encoding/json"
	"fmt"
)

// User - пользователь реферальной программы.
type User struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	MyCode        string `json:"my_code"`
	InvitedByCode string `json:"invited_by_code"`
	PointsTotal   int64  `json:"points_total"`
	CreatedAt     string `json:"created_at"`

	raw Record
}

// NewUser поднимает известные поля записи с правилами приведения.
func NewUser(r Record) User {
	return User{
		UID:           r.String("uid"),
		Name:          r.String("name"),
		Email:         r.String("email"),
		MyCode:        r.String("my_code"),
		InvitedByCode: r.String("invited_by_code"),
		PointsTotal:   ToInt(r.Get("points_total")),
		CreatedAt:     r.String("created_at"),
		raw:           r,
	}
}

// Referred - пользователь пришёл по чужому коду.
func (u User) Referred() bool {
	return u.InvitedByCode != ""
}

// MarshalJSON отдаёт исходную запись, если она есть.
func (u User) MarshalJSON() ([]byte, error) {
	if u.raw != nil {
		return json.Marshal(u.raw)
	}
	type plain User
	return json.Marshal(plain(u))
}

func (u *User) UnmarshalJSON(data []byte) error {
	r, ok := DecodeRecord(data)
	if !ok {
		return fmt.Errorf("user record is not a JSON object")
	}
	*u = NewUser(r)
	return nil
}
