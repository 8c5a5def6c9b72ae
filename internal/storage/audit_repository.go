package storage

import (
	"tg-wordguard/internal/models"

	"gorm.io/gorm"
)

// BanRepository handles database operations for BanEvent
type BanRepository struct {
	db *gorm.DB
}

// NewBanRepository creates a new BanRepository
func NewBanRepository(db *gorm.DB) *BanRepository {
	return &BanRepository{db: db}
}

// MigrateTable ensures the BanEvent table exists
func (r *BanRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.BanEvent{})
}

// Create inserts a new BanEvent
func (r *BanRepository) Create(event *models.BanEvent) error {
	return r.db.Create(event).Error
}

// GetByUser returns all ban events for a user, newest first
func (r *BanRepository) GetByUser(userID int64) ([]*models.BanEvent, error) {
	var events []*models.BanEvent
	result := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&events)
	return events, result.Error
}

// WarningRepository handles database operations for WarningEvent
type WarningRepository struct {
	db *gorm.DB
}

// NewWarningRepository creates a new WarningRepository
func NewWarningRepository(db *gorm.DB) *WarningRepository {
	return &WarningRepository{db: db}
}

// MigrateTable ensures the WarningEvent table exists
func (r *WarningRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.WarningEvent{})
}

// Create inserts a new WarningEvent
func (r *WarningRepository) Create(event *models.WarningEvent) error {
	return r.db.Create(event).Error
}

// CountByUser returns the number of warning events recorded for a user
func (r *WarningRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	result := r.db.Model(&models.WarningEvent{}).Where("user_id = ?", userID).Count(&count)
	return count, result.Error
}
