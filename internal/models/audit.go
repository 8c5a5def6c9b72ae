package models

import "time"

// BanEvent mirrors a permanent ban into the database for auditing.
// The JSON state file stays authoritative; these rows are append-only.
type BanEvent struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	UserID       int64  `gorm:"index;not null"`
	Username     string `gorm:"default:''"`
	GroupID      int64  `gorm:"index"`
	Reason       string `gorm:"type:text"`
	WarningCount int
	CreatedAt    time.Time
}

// WarningEvent mirrors a recorded warning into the database for auditing.
type WarningEvent struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"index;not null"`
	GroupID   int64  `gorm:"index"`
	Reason    string `gorm:"type:text"`
	Snippet   string `gorm:"type:text"`
	CreatedAt time.Time
}
