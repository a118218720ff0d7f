package models

import (
	"time"

	"gorm.io/gorm"
)

// Group — малая группа (домашняя группа, служение).
type Group struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:1024" json:"description,omitempty"`
	LeaderID    string `gorm:"index;size:36" json:"leader_id,omitempty"`
	MeetDay     string `gorm:"size:32" json:"meet_day,omitempty"` // monday..sunday

	Members []GroupMembership `json:"members,omitempty"`
}

type GroupMembership struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	GroupID   string    `gorm:"size:36;not null;uniqueIndex:uniq_group_member,priority:1" json:"-"`
	AccountID string    `gorm:"size:36;not null;uniqueIndex:uniq_group_member,priority:2" json:"account_id"`
	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`
}
