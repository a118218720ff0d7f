package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type PrayerStatus string

const (
	PrayerOpen     PrayerStatus = "open"
	PrayerPraying  PrayerStatus = "praying"
	PrayerAnswered PrayerStatus = "answered"
	PrayerArchived PrayerStatus = "archived"
)

func ParsePrayerStatus(s string) (PrayerStatus, bool) {
	switch PrayerStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PrayerOpen:
		return PrayerOpen, true
	case PrayerPraying:
		return PrayerPraying, true
	case PrayerAnswered:
		return PrayerAnswered, true
	case PrayerArchived:
		return PrayerArchived, true
	default:
		return "", false
	}
}

// prayerOrder — допустимый порядок статусов; переход только вперёд.
var prayerOrder = map[PrayerStatus]int{
	PrayerOpen:     0,
	PrayerPraying:  1,
	PrayerAnswered: 2,
	PrayerArchived: 3,
}

// CanTransition — open → praying → answered → archived, без возвратов.
func (s PrayerStatus) CanTransition(to PrayerStatus) bool {
	from, ok1 := prayerOrder[s]
	next, ok2 := prayerOrder[to]
	return ok1 && ok2 && next > from
}

// PrayerRequest — молитвенная нужда.
// Confidential ограничивает видимость пастырской командой.
type PrayerRequest struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AccountID    string       `gorm:"index;size:36;not null" json:"account_id"`
	Subject      string       `gorm:"size:255;not null" json:"subject"`
	Body         string       `gorm:"type:text" json:"body,omitempty"`
	Confidential bool         `gorm:"not null;default:false" json:"confidential"`
	Status       PrayerStatus `gorm:"size:32;not null;default:open" json:"status"`
}
