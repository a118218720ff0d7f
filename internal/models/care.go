package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type CareStatus string

const (
	CareOpen    CareStatus = "open"
	CareVisited CareStatus = "visited"
	CareClosed  CareStatus = "closed"
)

func ParseCareStatus(s string) (CareStatus, bool) {
	switch CareStatus(strings.ToLower(strings.TrimSpace(s))) {
	case CareOpen:
		return CareOpen, true
	case CareVisited:
		return CareVisited, true
	case CareClosed:
		return CareClosed, true
	default:
		return "", false
	}
}

// CareAssignment — поручение пастырской заботы: кто навещает кого и почему.
type CareAssignment struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MemberID   string     `gorm:"index;size:36;not null" json:"member_id"`   // кого навещают
	AssigneeID string     `gorm:"index;size:36;not null" json:"assignee_id"` // член care-team
	Reason     string     `gorm:"size:1024" json:"reason,omitempty"`
	Status     CareStatus `gorm:"size:32;not null;default:open" json:"status"`
	VisitedAt  *time.Time `json:"visited_at,omitempty"`
}
