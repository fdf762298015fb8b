package repository

import (
	"github.com/ManuelReschke/PayFox/app/models"
	"gorm.io/gorm"
)

type notificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository creates a new notification log repository instance
func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(entry *models.NotificationLog) error {
	return r.db.Create(entry).Error
}

func (r *notificationLogRepository) LatestContaining(needle string, limit int) ([]models.NotificationLog, error) {
	var entries []models.NotificationLog
	err := r.db.Where("raw_body LIKE ?", "%"+needle+"%").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *notificationLogRepository) List(offset, limit int) ([]models.NotificationLog, error) {
	var entries []models.NotificationLog
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}
