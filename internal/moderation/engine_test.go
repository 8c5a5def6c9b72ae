package moderation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-wordguard/internal/store"
)

const ownerID int64 = 1000

type fakeTransport struct {
	roles map[string]Role // "groupID:userID" -> role

	deleted     []int // message IDs
	removed     []int64
	directTexts []string
	groupTexts  []string
	lastTTL     time.Duration

	deleteErr error
	removeErr error
	notifyErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{roles: make(map[string]Role)}
}

func (f *fakeTransport) setRole(groupID, userID int64, role Role) {
	f.roles[fmt.Sprintf("%d:%d", groupID, userID)] = role
}

func (f *fakeTransport) MemberRole(_ context.Context, groupID, userID int64) Role {
	if role, ok := f.roles[fmt.Sprintf("%d:%d", groupID, userID)]; ok {
		return role
	}
	return RoleMember
}

func (f *fakeTransport) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) RemoveMember(_ context.Context, _ int64, userID int64) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, userID)
	return nil
}

func (f *fakeTransport) SendDirectNotification(_ context.Context, _ int64, text string) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.directTexts = append(f.directTexts, text)
	return nil
}

func (f *fakeTransport) SendGroupNotification(_ context.Context, _ int64, text string, ttl time.Duration) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.groupTexts = append(f.groupTexts, text)
	f.lastTTL = ttl
	return nil
}

func newTestEngine(t *testing.T, words ...string) (*Engine, *store.Store, *fakeTransport) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "state.json"), ownerID)
	st.AddWords(words)
	tr := newFakeTransport()
	return NewEngine(st, tr, ownerID, 3, 5*time.Second), st, tr
}

func violation(group int64, messageID int, userID int64, text string) Message {
	return Message{
		GroupID:    group,
		GroupTitle: fmt.Sprintf("Group %d", group),
		MessageID:  messageID,
		SenderID:   userID,
		SenderName: "Test User",
		SenderUser: "testuser",
		Text:       text,
	}
}

func TestHandleMessage_FirstViolation(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")

	engine.HandleMessage(context.Background(), violation(-100, 55, 42, "This is SPAM!!"))

	assert.Equal(t, []int{55}, tr.deleted, "offending message deleted")
	assert.Equal(t, 1, st.WarningCount(42))
	assert.False(t, st.IsBanned(42), "no ban below threshold")
	assert.Empty(t, tr.removed)
	assert.Empty(t, tr.directTexts, "owner not notified for a plain warning")
}

func TestHandleMessage_CleanMessage(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")

	engine.HandleMessage(context.Background(), violation(-100, 55, 42, "perfectly fine message"))

	assert.Empty(t, tr.deleted)
	assert.Equal(t, 0, st.WarningCount(42))
}

func TestHandleMessage_EmptyText(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")

	engine.HandleMessage(context.Background(), violation(-100, 55, 42, ""))

	assert.Empty(t, tr.deleted)
	assert.Equal(t, 0, st.WarningCount(42))
}

func TestHandleMessage_AdminExempt(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")
	tr.setRole(-100, 42, RoleAdmin)

	engine.HandleMessage(context.Background(), violation(-100, 55, 42, "spam spam spam"))

	assert.Empty(t, tr.deleted, "admin message untouched")
	assert.Equal(t, 0, st.WarningCount(42), "role check short-circuits before matching")
}

func TestHandleMessage_OwnerExempt(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")
	tr.setRole(-100, 42, RoleOwner)

	engine.HandleMessage(context.Background(), violation(-100, 55, 42, "spam"))

	assert.Empty(t, tr.deleted)
	assert.Equal(t, 0, st.WarningCount(42))
}

func TestHandleMessage_UnknownRoleIsModerated(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")
	tr.setRole(-100, 42, RoleUnknown)

	engine.HandleMessage(context.Background(), violation(-100, 55, 42, "spam"))

	assert.Equal(t, []int{55}, tr.deleted)
	assert.Equal(t, 1, st.WarningCount(42))
}

func TestHandleMessage_ThirdViolationBansAcrossGroups(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")
	ctx := context.Background()

	engine.HandleMessage(ctx, violation(-100, 1, 42, "spam one"))
	engine.HandleMessage(ctx, violation(-200, 2, 42, "spam two"))
	assert.False(t, st.IsBanned(42), "banned before reaching the threshold")

	engine.HandleMessage(ctx, violation(-300, 3, 42, "spam three"))

	require.True(t, st.IsBanned(42))
	assert.Equal(t, []int64{42}, tr.removed, "removed from the group of the third violation")
	assert.Equal(t, 3, st.WarningCount(42))

	records := st.BanList(0)
	require.Len(t, records, 1)
	assert.Equal(t, BanReason, records[0].Reason)
	assert.Equal(t, 3, records[0].Warnings)

	require.Len(t, tr.directTexts, 1, "owner notified exactly once")
	assert.Contains(t, tr.directTexts[0], "permanently banned")
}

func TestHandleMessage_OwnerNotifiedEvenInSilentMode(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")
	ctx := context.Background()
	require.True(t, st.SilentMode())

	for i := 1; i <= 3; i++ {
		engine.HandleMessage(ctx, violation(-100, i, 42, "spam"))
	}

	assert.Empty(t, tr.groupTexts, "silent mode suppresses in-group notices")
	assert.Len(t, tr.directTexts, 1, "ban notice to owner is never silenced")
}

func TestHandleMessage_GroupNoticeWhenNotSilent(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")
	st.ToggleSilentMode() // disable silent mode

	engine.HandleMessage(context.Background(), violation(-100, 1, 42, "spam"))

	require.Len(t, tr.groupTexts, 1)
	assert.Contains(t, tr.groupTexts[0], "1/3")
	assert.Equal(t, 5*time.Second, tr.lastTTL, "notice carries the retraction TTL")
}

func TestHandleMessage_DeleteFailureDoesNotStopEscalation(t *testing.T) {
	engine, st, tr := newTestEngine(t, "spam")
	tr.deleteErr = errors.New("message already deleted")

	engine.HandleMessage(context.Background(), violation(-100, 1, 42, "spam"))

	assert.Equal(t, 1, st.WarningCount(42), "warning recorded despite delete failure")
}

func TestHandleMessage_BanIdempotentAcrossExtraViolations(t *testing.T) {
	engine, st, _ := newTestEngine(t, "spam")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		engine.HandleMessage(ctx, violation(-100, i, 42, "spam"))
	}

	assert.Len(t, st.BanList(0), 1, "exactly one ban record")
	assert.Equal(t, 3, st.BanList(0)[0].Warnings, "record keeps the count at the moment of the ban")
}

func TestHandleJoin_BannedUserRemoved(t *testing.T) {
	engine, st, tr := newTestEngine(t)
	st.Ban(42, "spammer", BanReason, 3)

	engine.HandleJoin(context.Background(), Join{
		GroupID:    -500,
		GroupTitle: "Unrelated Group",
		MessageID:  9,
		UserID:     42,
		UserName:   "Test User",
	})

	assert.Equal(t, []int64{42}, tr.removed)
	assert.Equal(t, []int{9}, tr.deleted, "join announcement deleted")
	assert.Equal(t, 0, st.WarningCount(42), "join path never touches the warning ledger")
	require.Len(t, tr.directTexts, 1)
	assert.Contains(t, tr.directTexts[0], "Globally banned")
}

func TestHandleJoin_CleanUserIgnored(t *testing.T) {
	engine, _, tr := newTestEngine(t)

	engine.HandleJoin(context.Background(), Join{GroupID: -500, UserID: 42, MessageID: 9})

	assert.Empty(t, tr.removed)
	assert.Empty(t, tr.deleted)
	assert.Empty(t, tr.directTexts)
}

func TestHandleJoin_NoAnnouncementMessage(t *testing.T) {
	engine, st, tr := newTestEngine(t)
	st.Ban(42, "spammer", BanReason, 3)

	engine.HandleJoin(context.Background(), Join{GroupID: -500, UserID: 42})

	assert.Equal(t, []int64{42}, tr.removed)
	assert.Empty(t, tr.deleted, "no announcement to delete")
}

type recordingAudit struct {
	warnings int
	bans     int
}

func (a *recordingAudit) WarningRecorded(int64, int64, string, string) { a.warnings++ }
func (a *recordingAudit) BanRecorded(int64, string, int64, string, int) {
	a.bans++
}

func TestAuditMirror(t *testing.T) {
	engine, _, _ := newTestEngine(t, "spam")
	audit := &recordingAudit{}
	engine.SetAudit(audit)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		engine.HandleMessage(ctx, violation(-100, i, 42, "spam"))
	}

	assert.Equal(t, 3, audit.warnings)
	assert.Equal(t, 1, audit.bans)
}
