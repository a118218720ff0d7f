package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event — событие прихода (служба, собрание, выезд).
type Event struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"size:2048" json:"description,omitempty"`
	Location    string         `gorm:"size:255" json:"location,omitempty"`
	StartsAt    time.Time      `gorm:"index;not null" json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	Capacity    int            `gorm:"not null;default:0" json:"capacity"`  // 0 — без лимита волонтёров
	Details     datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"` // программа, заметки

	Signups []VolunteerSignup `json:"signups,omitempty"`
}

// VolunteerSignup — запись волонтёра на событие; одна на аккаунт.
type VolunteerSignup struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	EventID   string    `gorm:"size:36;not null;uniqueIndex:uniq_event_volunteer,priority:1" json:"-"`
	AccountID string    `gorm:"size:36;not null;uniqueIndex:uniq_event_volunteer,priority:2" json:"account_id"`
	RoleSlot  string    `gorm:"size:64" json:"role_slot,omitempty"` // usher|greeter|music|...
	CreatedAt time.Time `json:"created_at"`
}
