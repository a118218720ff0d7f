package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flock/internal/models"
)

type CareStore struct{ db *gorm.DB }

func NewCareStore(db *gorm.DB) *CareStore { return &CareStore{db: db} }

func (s *CareStore) Create(ctx context.Context, c *models.CareAssignment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.CareOpen
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *CareStore) List(ctx context.Context, assigneeID string) ([]models.CareAssignment, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if assigneeID != "" {
		q = q.Where("assignee_id = ?", assigneeID)
	}
	var out []models.CareAssignment
	return out, q.Find(&out).Error
}

func (s *CareStore) Get(ctx context.Context, id string) (*models.CareAssignment, error) {
	var c models.CareAssignment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CareStore) Update(ctx context.Context, c *models.CareAssignment) error {
	return s.db.WithContext(ctx).Save(c).Error
}
