package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flock/internal/models"
)

type EventStore struct{ db *gorm.DB }

func NewEventStore(db *gorm.DB) *EventStore { return &EventStore{db: db} }

func (s *EventStore) Create(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *EventStore) List(ctx context.Context, upcomingOnly bool) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Order("starts_at")
	if upcomingOnly {
		q = q.Where("starts_at >= ?", time.Now().UTC())
	}
	var out []models.Event
	return out, q.Find(&out).Error
}

func (s *EventStore) Get(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := s.db.WithContext(ctx).Preload("Signups").Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventStore) Update(ctx context.Context, e *models.Event) error {
	return s.db.WithContext(ctx).Save(e).Error
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddSignup записывает волонтёра в одной транзакции:
// проверка события, лимита и дубликата — под одним снапшотом.
func (s *EventStore) AddSignup(ctx context.Context, eventID, accountID, roleSlot string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Event
		err := tx.Where("id = ?", eventID).First(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if e.Capacity > 0 {
			var n int64
			if err := tx.Model(&models.VolunteerSignup{}).
				Where("event_id = ?", eventID).Count(&n).Error; err != nil {
				return err
			}
			if n >= int64(e.Capacity) {
				return ErrCapacity
			}
		}
		su := models.VolunteerSignup{EventID: eventID, AccountID: accountID, RoleSlot: roleSlot}
		if err := tx.Create(&su).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (s *EventStore) RemoveSignup(ctx context.Context, eventID, accountID string) error {
	res := s.db.WithContext(ctx).
		Where("event_id = ? AND account_id = ?", eventID, accountID).
		Delete(&models.VolunteerSignup{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
