// Package store owns the moderation aggregate: the banned-term set, the
// global ban registry, per-user warning histories, registered groups, the
// administrator set, and the silent-mode flag. One mutex serializes every
// read and mutation; each mutating operation persists the whole aggregate
// before returning (write-through).
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"tg-wordguard/internal/filter"
	"tg-wordguard/internal/logger"
	"tg-wordguard/internal/models"
)

// state is the persisted shape of the aggregate. Map keys are decimal
// user/group IDs.
type state struct {
	BlockedWords      []string                        `json:"blocked_words"`
	GlobalBannedUsers map[string]models.BanRecord     `json:"global_banned_users"`
	GroupSettings     map[string]models.GroupSettings `json:"group_settings"`
	UserWarnings      map[string][]models.Warning     `json:"user_warnings"`
	AdminUsers        []int64                         `json:"admin_users"`
	SilentMode        bool                            `json:"silent_mode"`
	LastUpdated       time.Time                       `json:"last_updated"`
}

// Stats is a point-in-time summary of the aggregate for the owner panel.
type Stats struct {
	BlockedWords  int
	BannedUsers   int
	WarnedUsers   int
	TotalWarnings int
	Groups        int
	AdminUsers    int
	SilentMode    bool
}

// Store is the single process-wide moderation aggregate.
type Store struct {
	mu      sync.Mutex
	path    string
	ownerID int64
	state   state
}

// New creates a store that persists to path, with the owner pre-seeded as
// administrator. Call Load to populate it from disk.
func New(path string, ownerID int64) *Store {
	s := &Store{path: path, ownerID: ownerID}
	s.state = defaultState(ownerID)
	return s
}

func defaultState(ownerID int64) state {
	return state{
		BlockedWords:      []string{},
		GlobalBannedUsers: make(map[string]models.BanRecord),
		GroupSettings:     make(map[string]models.GroupSettings),
		UserWarnings:      make(map[string][]models.Warning),
		AdminUsers:        []int64{ownerID},
		SilentMode:        true,
	}
}

// Load populates the aggregate from the state file. A missing or corrupt
// file falls back to defaults; loading is never fatal.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Infof("State file %s not found, starting with defaults", s.path)
		} else {
			logger.Errorf("Error reading state file %s: %v", s.path, err)
		}
		return
	}

	var loaded state
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Errorf("Error parsing state file %s, falling back to defaults: %v", s.path, err)
		return
	}

	if loaded.GlobalBannedUsers == nil {
		loaded.GlobalBannedUsers = make(map[string]models.BanRecord)
	}
	if loaded.GroupSettings == nil {
		loaded.GroupSettings = make(map[string]models.GroupSettings)
	}
	if loaded.UserWarnings == nil {
		loaded.UserWarnings = make(map[string][]models.Warning)
	}
	if loaded.BlockedWords == nil {
		loaded.BlockedWords = []string{}
	}
	if len(loaded.AdminUsers) == 0 {
		loaded.AdminUsers = []int64{s.ownerID}
	}

	s.state = loaded
	logger.Infof("Loaded %d blocked words, %d banned users, %d groups from %s",
		len(loaded.BlockedWords), len(loaded.GlobalBannedUsers), len(loaded.GroupSettings), s.path)
}

// saveLocked persists the aggregate via a temp file and atomic rename.
// Failures are logged, never raised: in-memory state stays authoritative
// until the next successful save. Callers must hold s.mu.
func (s *Store) saveLocked() {
	s.state.LastUpdated = time.Now()

	data, err := json.MarshalIndent(&s.state, "", "  ")
	if err != nil {
		logger.Errorf("Error serializing state: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		logger.Errorf("Error creating state directory: %v", err)
		return
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		logger.Errorf("Error writing state file: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		logger.Errorf("Error replacing state file: %v", err)
	}
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Words returns a copy of the banned-term set in insertion order.
func (s *Store) Words() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.state.BlockedWords))
	copy(out, s.state.BlockedWords)
	return out
}

// AddWords adds terms to the banned set, skipping entries that normalize
// to an existing term or to the empty string. It returns the number of
// terms added and the number skipped as duplicates.
func (s *Store) AddWords(words []string) (added, duplicates int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, word := range words {
		normalized := filter.Normalize(word)
		if normalized == "" {
			continue
		}
		exists := false
		for _, w := range s.state.BlockedWords {
			if filter.Normalize(w) == normalized {
				exists = true
				break
			}
		}
		if exists {
			duplicates++
			continue
		}
		s.state.BlockedWords = append(s.state.BlockedWords, word)
		added++
	}

	if added > 0 {
		s.saveLocked()
	}
	return added, duplicates
}

// RemoveWord removes the term whose normalized form equals the normalized
// argument, returning the literal term that was stored.
func (s *Store) RemoveWord(word string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := filter.Normalize(word)
	for i, w := range s.state.BlockedWords {
		if filter.Normalize(w) == normalized {
			s.state.BlockedWords = append(s.state.BlockedWords[:i], s.state.BlockedWords[i+1:]...)
			s.saveLocked()
			return w, true
		}
	}
	return "", false
}

// RecordWarning appends a warning to the user's history, creating the
// history on first use, and returns the new count. The snippet is
// truncated to 100 runes. Recording always succeeds.
func (s *Store) RecordWarning(userID int64, reason, group, snippet string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(userID)
	s.state.UserWarnings[k] = append(s.state.UserWarnings[k], models.Warning{
		Date:    time.Now(),
		Reason:  reason,
		Group:   group,
		Message: truncateRunes(snippet, 100),
	})
	s.saveLocked()
	return len(s.state.UserWarnings[k])
}

// WarningCount returns the user's current history length, 0 if never warned.
func (s *Store) WarningCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.UserWarnings[key(userID)])
}

// IsBanned reports whether the user is in the global ban registry.
func (s *Store) IsBanned(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.GlobalBannedUsers[key(userID)]
	return ok
}

// Ban records a permanent global ban. First ban wins: if the user is
// already banned the existing record is left untouched and Ban reports
// false.
func (s *Store) Ban(userID int64, username, reason string, warnings int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(userID)
	if _, ok := s.state.GlobalBannedUsers[k]; ok {
		return false
	}

	s.state.GlobalBannedUsers[k] = models.BanRecord{
		UserID:   userID,
		Username: username,
		Date:     time.Now(),
		Reason:   reason,
		Warnings: warnings,
	}
	s.saveLocked()
	return true
}

// BanList returns up to limit ban records, oldest first.
func (s *Store) BanList(limit int) []models.BanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]models.BanRecord, 0, len(s.state.GlobalBannedUsers))
	for _, r := range s.state.GlobalBannedUsers {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

// RegisterGroup records or refreshes the settings snapshot for a group.
func (s *Store) RegisterGroup(settings models.GroupSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GroupSettings[key(settings.GroupID)] = settings
	s.saveLocked()
}

// IsAdminUser reports whether the user is a bot administrator.
func (s *Store) IsAdminUser(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.state.AdminUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// SilentMode reports whether in-group notifications are suppressed.
func (s *Store) SilentMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SilentMode
}

// ToggleSilentMode flips the silent-mode flag and returns the new value.
func (s *Store) ToggleSilentMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SilentMode = !s.state.SilentMode
	s.saveLocked()
	return s.state.SilentMode
}

// Stats returns a snapshot of aggregate counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, ws := range s.state.UserWarnings {
		total += len(ws)
	}
	return Stats{
		BlockedWords:  len(s.state.BlockedWords),
		BannedUsers:   len(s.state.GlobalBannedUsers),
		WarnedUsers:   len(s.state.UserWarnings),
		TotalWarnings: total,
		Groups:        len(s.state.GroupSettings),
		AdminUsers:    len(s.state.AdminUsers),
		SilentMode:    s.state.SilentMode,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Path returns the state file location, for the owner panel display.
func (s *Store) Path() string {
	return s.path
}
