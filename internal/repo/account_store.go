package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flock/internal/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrDuplicate  = errors.New("duplicate record")
	ErrCapacity   = errors.New("event is full")
)

type AccountStore struct{ db *gorm.DB }

func NewAccountStore(db *gorm.DB) *AccountStore { return &AccountStore{db: db} }

// NormalizeEmail — каноничная форма email: трим + нижний регистр.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).Preload("Profile").
		Where("email = ?", NormalizeEmail(email)).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).Preload("Profile").
		Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateWithProfile создаёт Account и Profile одной транзакцией: всё или ничего.
// Гонка на уникальном индексе email отображается в ErrEmailTaken.
func (s *AccountStore) CreateWithProfile(ctx context.Context, a *models.Account, p *models.Profile) error {
	a.Email = NormalizeEmail(a.Email)
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Account{}).Where("email = ?", a.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(a).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		p.AccountID = a.ID
		return tx.Create(p).Error
	})
}

func (s *AccountStore) UpdateProfile(ctx context.Context, p *models.Profile) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *AccountStore) UpdateRole(ctx context.Context, id string, role models.Role) error {
	res := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate — мягкое отключение; запись не удаляется.
func (s *AccountStore) Deactivate(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AccountStore) List(ctx context.Context, includeInactive bool) ([]models.Account, error) {
	q := s.db.WithContext(ctx).Preload("Profile").Order("email")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var out []models.Account
	return out, q.Find(&out).Error
}

// isUniqueViolation — детект конфликта уникального индекса без привязки к драйверу.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
