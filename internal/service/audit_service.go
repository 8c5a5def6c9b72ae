package service

import (
	"tg-wordguard/internal/logger"
	"tg-wordguard/internal/models"
)

// Audit mirrors ledger and registry mutations into the database when it is
// enabled. Mirror failures are logged and swallowed; the JSON state file
// stays authoritative.
type Audit struct{}

// NewAudit creates the database-backed mutation mirror.
func NewAudit() *Audit {
	return &Audit{}
}

// WarningRecorded stores a warning event for the user
func (a *Audit) WarningRecorded(userID, groupID int64, reason, snippet string) {
	if warningRepository == nil {
		return
	}
	event := &models.WarningEvent{UserID: userID, GroupID: groupID, Reason: reason, Snippet: snippet}
	if err := warningRepository.Create(event); err != nil {
		logger.Warningf("Error creating warning event: %v", err)
	}
}

// BanRecorded stores a ban event for the user
func (a *Audit) BanRecorded(userID int64, username string, groupID int64, reason string, warnings int) {
	if banRepository == nil {
		return
	}
	event := &models.BanEvent{UserID: userID, Username: username, GroupID: groupID, Reason: reason, WarningCount: warnings}
	if err := banRepository.Create(event); err != nil {
		logger.Warningf("Error creating ban event: %v", err)
	}
}
