package models

import (
	"encoding/json"
	"fmt"
	"io"
)

// Export - содержимое выгрузки: пользователи и уведомления.
type Export struct {
	Users         []User         `json:"users"`
	Notifications []Notification `json:"notifications"`
	// Skipped - сколько элементов выгрузки не были JSON-объектами.
	Skipped int `json:"-"`
}

type rawExport struct {
	Users         []json.RawMessage `json:"users"`
	Notifications []json.RawMessage `json:"notifications"`
}

// DecodeExport читает {"users": [...], "notifications": [...]}.
// Отсутствующие коллекции считаются пустыми, не-объекты пропускаются.
func DecodeExport(r io.Reader) (*Export, error) {
	var raw rawExport
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return BuildExport(raw.Users, raw.Notifications), nil
}

// BuildExport собирает выгрузку из сырых JSON-объектов (HTTP или PostgreSQL).
func BuildExport(users, notifications []json.RawMessage) *Export {
	out := &Export{
		Users:         make([]User, 0, len(users)),
		Notifications: make([]Notification, 0, len(notifications)),
	}
	for _, item := range users {
		rec, ok := DecodeRecord(item)
		if !ok {
			out.Skipped++
			continue
		}
		out.Users = append(out.Users, NewUser(rec))
	}
	for _, item := range notifications {
		rec, ok := DecodeRecord(item)
		if !ok {
			out.Skipped++
			continue
		}
		out.Notifications = append(out.Notifications, NewNotification(rec))
	}
	return out
}
