package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role — закрытый перечислимый тип. Любое значение вне списка
// отклоняется на границе API (HTTP 400), а не приводится as-is.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RolePastoralStaff Role = "pastoral-staff"
	RoleCareTeam      Role = "care-team"
	RoleGroupLeader   Role = "group-leader"
	RoleMember        Role = "member"
)

// ParseRole нормализует и проверяет строку роли.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdministrator:
		return RoleAdministrator, true
	case RolePastoralStaff:
		return RolePastoralStaff, true
	case RoleCareTeam:
		return RoleCareTeam, true
	case RoleGroupLeader:
		return RoleGroupLeader, true
	case RoleMember:
		return RoleMember, true
	default:
		return "", false
	}
}

// Staff — роли с правом управления записями прихода.
func (r Role) Staff() bool {
	return r == RoleAdministrator || r == RolePastoralStaff
}

// Account — учётная запись (email + хэш пароля + роль).
// Хэш пароля никогда не сериализуется в JSON.
type Account struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         Role   `gorm:"size:32;not null" json:"role"`
	Active       bool   `gorm:"not null;default:true" json:"active"`

	Profile Profile `json:"profile"`
}

// Profile — человекочитаемые данные, 1:1 с Account.
// Создаётся атомарно вместе с учётной записью.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	AccountID string         `gorm:"uniqueIndex;size:36;not null" json:"-"`
	FirstName string         `gorm:"size:255;not null" json:"first_name"`
	LastName  string         `gorm:"size:255;not null" json:"last_name"`
	Phone     string         `gorm:"size:64" json:"phone,omitempty"`
	PhotoURL  string         `gorm:"size:512" json:"photo_url,omitempty"`
	Contact   datatypes.JSON `gorm:"type:jsonb" json:"contact,omitempty"` // произвольные контакты (messengers, адрес)
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}
