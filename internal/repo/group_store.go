package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flock/internal/models"
)

type GroupStore struct{ db *gorm.DB }

func NewGroupStore(db *gorm.DB) *GroupStore { return &GroupStore{db: db} }

func (s *GroupStore) Create(ctx context.Context, g *models.Group) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *GroupStore) List(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	return out, s.db.WithContext(ctx).Order("name").Find(&out).Error
}

func (s *GroupStore) Get(ctx context.Context, id string) (*models.Group, error) {
	var g models.Group
	err := s.db.WithContext(ctx).Preload("Members").Where("id = ?", id).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GroupStore) Update(ctx context.Context, g *models.Group) error {
	return s.db.WithContext(ctx).Save(g).Error
}

func (s *GroupStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember — идемпотентность обеспечивает уникальный индекс (group, account).
func (s *GroupStore) AddMember(ctx context.Context, groupID, accountID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Group{}).Where("id = ?", groupID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		m := models.GroupMembership{
			GroupID:   groupID,
			AccountID: accountID,
			JoinedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (s *GroupStore) RemoveMember(ctx context.Context, groupID, accountID string) error {
	res := s.db.WithContext(ctx).
		Where("group_id = ? AND account_id = ?", groupID, accountID).
		Delete(&models.GroupMembership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
