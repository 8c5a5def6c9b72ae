package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-wordguard/internal/models"
)

const testOwner int64 = 1000

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "state.json"), testOwner)
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	s.Load()

	stats := s.Stats()
	assert.Equal(t, 0, stats.BlockedWords)
	assert.Equal(t, 0, stats.BannedUsers)
	assert.True(t, stats.SilentMode, "silent mode defaults to enabled")
	assert.True(t, s.IsAdminUser(testOwner), "owner pre-seeded as admin")
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := New(path, testOwner)
	s.Load()

	assert.Equal(t, 0, s.Stats().BlockedWords)
	assert.True(t, s.IsAdminUser(testOwner))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := New(path, testOwner)
	s.AddWords([]string{"spam", "scam"})
	s.RecordWarning(42, "blocked word: spam", "Group A", "buy spam now")
	s.Ban(7, "spammer", "threshold exceeded", 3)
	s.RegisterGroup(models.GroupSettings{GroupID: -100, Title: "Group A", MemberCount: 12})
	s.ToggleSilentMode()

	reloaded := New(path, testOwner)
	reloaded.Load()

	assert.ElementsMatch(t, []string{"spam", "scam"}, reloaded.Words())
	assert.Equal(t, 1, reloaded.WarningCount(42))
	assert.True(t, reloaded.IsBanned(7))
	assert.False(t, reloaded.SilentMode())
	assert.Equal(t, 1, reloaded.Stats().Groups)
}

func TestPersistedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := New(path, testOwner)
	s.AddWords([]string{"spam"})
	s.Ban(7, "spammer", "threshold exceeded", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, field := range []string{
		"blocked_words", "global_banned_users", "group_settings",
		"user_warnings", "admin_users", "silent_mode", "last_updated",
	} {
		assert.Contains(t, raw, field)
	}

	var banned map[string]models.BanRecord
	require.NoError(t, json.Unmarshal(raw["global_banned_users"], &banned))
	assert.Contains(t, banned, "7", "registry keyed by decimal user ID")
}

func TestAddWords_DeduplicatesUnderNormalization(t *testing.T) {
	s := newTestStore(t)

	added, dups := s.AddWords([]string{"spam", "SPAM!!", "s.p.a.m", "scam"})
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, dups)

	added, dups = s.AddWords([]string{"Spam"})
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, dups)
}

func TestAddWords_SkipsEmptyAfterNormalization(t *testing.T) {
	s := newTestStore(t)

	added, dups := s.AddWords([]string{"", "   ", "!!!"})
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, dups)
	assert.Empty(t, s.Words())
}

func TestRemoveWord_ByNormalizedForm(t *testing.T) {
	s := newTestStore(t)
	s.AddWords([]string{"Free Money"})

	literal, ok := s.RemoveWord("free   money!!")
	assert.True(t, ok)
	assert.Equal(t, "Free Money", literal, "removal reports the stored literal")
	assert.Empty(t, s.Words())

	_, ok = s.RemoveWord("free money")
	assert.False(t, ok)
}

func TestRecordWarning_MonotonicCount(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, 0, s.WarningCount(42))
	for i := 1; i <= 5; i++ {
		n := s.RecordWarning(42, "blocked word: spam", "Group A", "text")
		assert.Equal(t, i, n)
		assert.Equal(t, i, s.WarningCount(42))
	}
}

func TestRecordWarning_TruncatesSnippet(t *testing.T) {
	s := newTestStore(t)

	long := make([]rune, 250)
	for i := range long {
		long[i] = 'x'
	}
	s.RecordWarning(42, "reason", "group", string(long))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var raw struct {
		UserWarnings map[string][]models.Warning `json:"user_warnings"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.UserWarnings["42"], 1)
	assert.Len(t, []rune(raw.UserWarnings["42"][0].Message), 100)
}

func TestBan_FirstBanWins(t *testing.T) {
	s := newTestStore(t)

	assert.True(t, s.Ban(7, "first", "threshold exceeded", 3))
	assert.False(t, s.Ban(7, "second", "other reason", 9))

	records := s.BanList(0)
	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Username)
	assert.Equal(t, 3, records[0].Warnings)
}

func TestBanList_Limit(t *testing.T) {
	s := newTestStore(t)
	for i := int64(1); i <= 5; i++ {
		s.Ban(i, "user", "reason", 3)
	}

	assert.Len(t, s.BanList(3), 3)
	assert.Len(t, s.BanList(0), 5)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	s.AddWords([]string{"spam"})
	s.RecordWarning(1, "r", "g", "m")
	s.RecordWarning(1, "r", "g", "m")
	s.RecordWarning(2, "r", "g", "m")
	s.Ban(2, "u", "threshold exceeded", 3)

	stats := s.Stats()
	assert.Equal(t, 1, stats.BlockedWords)
	assert.Equal(t, 1, stats.BannedUsers)
	assert.Equal(t, 2, stats.WarnedUsers)
	assert.Equal(t, 3, stats.TotalWarnings)
	assert.Equal(t, 1, stats.AdminUsers)
}
