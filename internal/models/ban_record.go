package models

import "time"

// BanRecord marks a user as permanently banned across all groups.
// There is at most one record per user; the first ban wins and later
// ban attempts leave the record untouched.
type BanRecord struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Date     time.Time `json:"date"`
	Reason   string    `json:"reason"`
	Warnings int       `json:"warnings"` // warning count at the moment of the ban
}
