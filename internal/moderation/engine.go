// Package moderation implements the escalation engine: violation detection
// on group messages, the per-user Clean -> Warned(n) -> Banned state
// machine, and join-time enforcement of the global ban registry.
package moderation

import (
	"context"
	"fmt"
	"time"

	"tg-wordguard/internal/filter"
	"tg-wordguard/internal/logger"
	"tg-wordguard/internal/metrics"
	"tg-wordguard/internal/store"
)

// BanReason is recorded in the registry when the warning threshold is
// exceeded.
const BanReason = "threshold exceeded"

// Message is an inbound group message to evaluate.
type Message struct {
	GroupID    int64
	GroupTitle string
	MessageID  int
	SenderID   int64
	SenderName string // display name, for mention links
	SenderUser string // @username without the @, may be empty
	Text       string // text or caption content
}

// Join is a new-member event for a single joining user.
type Join struct {
	GroupID    int64
	GroupTitle string
	MessageID  int // join announcement message, 0 if none
	UserID     int64
	UserName   string
}

// Engine orchestrates violation handling. It owns no state of its own:
// warnings and bans live in the store, physical actions go through the
// transport.
type Engine struct {
	store     *store.Store
	transport Transport
	audit     Audit // optional
	ownerID   int64
	threshold int
	noticeTTL time.Duration
}

// NewEngine creates an engine banning users at threshold warnings and
// retracting in-group notices after noticeTTL.
func NewEngine(st *store.Store, tr Transport, ownerID int64, threshold int, noticeTTL time.Duration) *Engine {
	if threshold <= 0 {
		threshold = 3
	}
	return &Engine{
		store:     st,
		transport: tr,
		ownerID:   ownerID,
		threshold: threshold,
		noticeTTL: noticeTTL,
	}
}

// SetAudit attaches an optional mutation mirror.
func (e *Engine) SetAudit(a Audit) {
	e.audit = a
}

// HandleMessage runs the violation flow for one group message.
func (e *Engine) HandleMessage(ctx context.Context, msg Message) {
	metrics.MessagesScanned.Inc()

	// Elevated senders are exempt before any matching happens.
	if e.transport.MemberRole(ctx, msg.GroupID, msg.SenderID).Elevated() {
		return
	}

	if msg.Text == "" {
		return
	}

	term, ok := filter.Match(msg.Text, e.store.Words())
	if !ok {
		return
	}
	metrics.ViolationsTotal.Inc()

	if err := e.transport.DeleteMessage(ctx, msg.GroupID, msg.MessageID); err != nil {
		metrics.TransportFailures.WithLabelValues("delete").Inc()
		logger.Warningf("Error deleting message %d in group %d: %v", msg.MessageID, msg.GroupID, err)
	}

	reason := fmt.Sprintf("blocked word: %s", term)
	count := e.store.RecordWarning(msg.SenderID, reason, msg.GroupTitle, msg.Text)
	if e.audit != nil {
		e.audit.WarningRecorded(msg.SenderID, msg.GroupID, reason, msg.Text)
	}

	logger.Infof("DELETE_MESSAGE | User: %d | Banned word: %s | Warnings: %d", msg.SenderID, term, count)

	if count >= e.threshold {
		e.banUser(ctx, msg, term, count)
		return
	}

	e.notifyGroup(ctx, msg, count)
}

// banUser performs the Warned(n) -> Banned transition: removal from the
// current group, a permanent registry entry, and an owner-only notice.
func (e *Engine) banUser(ctx context.Context, msg Message, term string, count int) {
	if err := e.transport.RemoveMember(ctx, msg.GroupID, msg.SenderID); err != nil {
		metrics.TransportFailures.WithLabelValues("remove").Inc()
		logger.Warningf("Error removing user %d from group %d: %v", msg.SenderID, msg.GroupID, err)
	}

	if e.store.Ban(msg.SenderID, msg.SenderUser, BanReason, count) {
		metrics.BansTotal.Inc()
		if e.audit != nil {
			e.audit.BanRecorded(msg.SenderID, msg.SenderUser, msg.GroupID, BanReason, count)
		}
		logger.Infof("PERMANENT_BAN | User: %d | %d warnings | Word: %s", msg.SenderID, count, term)
	}

	username := msg.SenderUser
	if username == "" {
		username = "-"
	}
	text := fmt.Sprintf("🚫 <b>User permanently banned</b>\n\n"+
		"• <b>User:</b> %s\n"+
		"• <b>Username:</b> @%s\n"+
		"• <b>ID:</b> <code>%d</code>\n"+
		"• <b>Reason:</b> exceeded %d warnings\n"+
		"• <b>Word:</b> %s\n"+
		"• <b>Group:</b> %s",
		mentionLink(msg.SenderID, msg.SenderName), username, msg.SenderID, e.threshold, term, msg.GroupTitle)

	// Ban events are never silent to the owner, only to the group.
	if err := e.transport.SendDirectNotification(ctx, e.ownerID, text); err != nil {
		metrics.TransportFailures.WithLabelValues("notify").Inc()
		logger.Warningf("Error notifying owner about ban of user %d: %v", msg.SenderID, err)
	}
}

// notifyGroup posts the running-count warning notice, unless silent mode
// suppresses in-group notifications.
func (e *Engine) notifyGroup(ctx context.Context, msg Message, count int) {
	if e.store.SilentMode() {
		return
	}

	text := fmt.Sprintf("⚠️ %s\nYour message was removed for containing a blocked word.\nWarning %d/%d",
		mentionLink(msg.SenderID, msg.SenderName), count, e.threshold)

	if err := e.transport.SendGroupNotification(ctx, msg.GroupID, text, e.noticeTTL); err != nil {
		metrics.TransportFailures.WithLabelValues("notify").Inc()
		logger.Warningf("Error sending warning notice to group %d: %v", msg.GroupID, err)
	}
}

// HandleJoin enforces the global ban registry for one joining member. It
// never creates or consults warning histories.
func (e *Engine) HandleJoin(ctx context.Context, join Join) {
	if !e.store.IsBanned(join.UserID) {
		return
	}
	metrics.JoinRejections.Inc()

	if err := e.transport.RemoveMember(ctx, join.GroupID, join.UserID); err != nil {
		metrics.TransportFailures.WithLabelValues("remove").Inc()
		logger.Warningf("Error removing banned user %d from group %d: %v", join.UserID, join.GroupID, err)
	}

	if join.MessageID != 0 {
		if err := e.transport.DeleteMessage(ctx, join.GroupID, join.MessageID); err != nil {
			metrics.TransportFailures.WithLabelValues("delete").Inc()
			logger.Warningf("Error deleting join announcement in group %d: %v", join.GroupID, err)
		}
	}

	logger.Infof("AUTO_BAN | User: %d | Global banned user joined %s", join.UserID, join.GroupTitle)

	text := fmt.Sprintf("🚫 <b>Globally banned user removed</b>\n\n"+
		"• <b>User:</b> %s\n"+
		"• <b>Group:</b> %s\n"+
		"• <b>Date:</b> %s",
		mentionLink(join.UserID, join.UserName), join.GroupTitle, time.Now().Format("2006-01-02 15:04:05"))

	if err := e.transport.SendDirectNotification(ctx, e.ownerID, text); err != nil {
		metrics.TransportFailures.WithLabelValues("notify").Inc()
		logger.Warningf("Error notifying owner about rejected join of user %d: %v", join.UserID, err)
	}
}

func mentionLink(userID int64, name string) string {
	if name == "" {
		name = fmt.Sprintf("user %d", userID)
	}
	return fmt.Sprintf("<a href=\"tg://user?id=%d\">%s</a>", userID, name)
}
