package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flock/internal/models"
)

type PrayerStore struct{ db *gorm.DB }

func NewPrayerStore(db *gorm.DB) *PrayerStore { return &PrayerStore{db: db} }

func (s *PrayerStore) Create(ctx context.Context, p *models.PrayerRequest) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.PrayerOpen
	}
	return s.db.WithContext(ctx).Create(p).Error
}

// List: all=true — всё (для пастырской команды); иначе свои нужды
// плюс чужие неконфиденциальные.
func (s *PrayerStore) List(ctx context.Context, accountID string, all bool) ([]models.PrayerRequest, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if !all {
		q = q.Where("account_id = ? OR confidential = ?", accountID, false)
	}
	var out []models.PrayerRequest
	return out, q.Find(&out).Error
}

func (s *PrayerStore) Get(ctx context.Context, id string) (*models.PrayerRequest, error) {
	var p models.PrayerRequest
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PrayerStore) Update(ctx context.Context, p *models.PrayerRequest) error {
	return s.db.WithContext(ctx).Save(p).Error
}
