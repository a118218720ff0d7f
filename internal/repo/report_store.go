package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"flock/internal/models"
)

// DashboardCounts — агрегаты для дашборда отчётов.
type DashboardCounts struct {
	ActiveMembers   int64 `json:"active_members"`
	Groups          int64 `json:"groups"`
	UpcomingEvents  int64 `json:"upcoming_events"`
	OpenPrayers     int64 `json:"open_prayer_requests"`
	OpenCare        int64 `json:"open_care_assignments"`
	RecentSignups   int64 `json:"recent_volunteer_signups"` // за последние 30 дней
	PublishedNotice int64 `json:"published_announcements"`
}

type ReportStore struct{ db *gorm.DB }

func NewReportStore(db *gorm.DB) *ReportStore { return &ReportStore{db: db} }

func (s *ReportStore) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	now := time.Now().UTC()
	var out DashboardCounts

	type countQuery struct {
		dst   *int64
		build func(*gorm.DB) *gorm.DB
	}
	queries := []countQuery{
		{&out.ActiveMembers, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Account{}).Where("active = ?", true)
		}},
		{&out.Groups, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Group{})
		}},
		{&out.UpcomingEvents, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Event{}).Where("starts_at >= ?", now)
		}},
		{&out.OpenPrayers, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.PrayerRequest{}).
				Where("status IN ?", []models.PrayerStatus{models.PrayerOpen, models.PrayerPraying})
		}},
		{&out.OpenCare, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.CareAssignment{}).Where("status = ?", models.CareOpen)
		}},
		{&out.RecentSignups, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.VolunteerSignup{}).Where("created_at >= ?", now.AddDate(0, 0, -30))
		}},
		{&out.PublishedNotice, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Announcement{}).Where("published = ?", true)
		}},
	}
	for _, q := range queries {
		if err := q.build(s.db.WithContext(ctx)).Count(q.dst).Error; err != nil {
			return nil, err
		}
	}
	return &out, nil
}
