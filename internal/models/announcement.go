package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Audience string

const (
	AudienceAll     Audience = "all"
	AudienceMembers Audience = "members"
	AudienceLeaders Audience = "leaders"
)

func ParseAudience(s string) (Audience, bool) {
	switch Audience(strings.ToLower(strings.TrimSpace(s))) {
	case AudienceAll:
		return AudienceAll, true
	case AudienceMembers:
		return AudienceMembers, true
	case AudienceLeaders:
		return AudienceLeaders, true
	default:
		return "", false
	}
}

// Announcement — объявление; до публикации видно только staff-ролям.
type Announcement struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string     `gorm:"size:255;not null" json:"title"`
	Body        string     `gorm:"type:text" json:"body,omitempty"`
	Audience    Audience   `gorm:"size:32;not null;default:all" json:"audience"`
	Published   bool       `gorm:"not null;default:false" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    string     `gorm:"index;size:36" json:"author_id,omitempty"`
}
