package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flock/internal/models"
)

type AnnouncementStore struct{ db *gorm.DB }

func NewAnnouncementStore(db *gorm.DB) *AnnouncementStore { return &AnnouncementStore{db: db} }

func (s *AnnouncementStore) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Audience == "" {
		a.Audience = models.AudienceAll
	}
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *AnnouncementStore) List(ctx context.Context, publishedOnly bool) ([]models.Announcement, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var out []models.Announcement
	return out, q.Find(&out).Error
}

func (s *AnnouncementStore) Get(ctx context.Context, id string) (*models.Announcement, error) {
	var a models.Announcement
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AnnouncementStore) Update(ctx context.Context, a *models.Announcement) error {
	return s.db.WithContext(ctx).Save(a).Error
}

func (s *AnnouncementStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Announcement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
