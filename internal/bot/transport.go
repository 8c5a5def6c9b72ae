package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mymmrac/telego"

	"tg-wordguard/internal/crash"
	"tg-wordguard/internal/logger"
	"tg-wordguard/internal/moderation"
)

const (
	roleCacheSize = 1024
	roleCacheTTL  = 1 * time.Minute
)

// Transport implements moderation.Transport over the Telegram Bot API.
// Role lookups are cached for a short time so a burst of messages from
// the same sender does not hammer getChatMember.
type Transport struct {
	bot       *telego.Bot
	roleCache *expirable.LRU[string, moderation.Role]
}

// NewTransport creates a Telegram-backed transport for the engine.
func NewTransport(bot *telego.Bot) *Transport {
	return &Transport{
		bot:       bot,
		roleCache: expirable.NewLRU[string, moderation.Role](roleCacheSize, nil, roleCacheTTL),
	}
}

// MemberRole looks up a user's role in a group. Lookup failures map to
// RoleUnknown and are not cached.
func (t *Transport) MemberRole(ctx context.Context, groupID, userID int64) moderation.Role {
	key := fmt.Sprintf("%d:%d", groupID, userID)
	if role, ok := t.roleCache.Get(key); ok {
		return role
	}

	member, err := t.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: telego.ChatID{ID: groupID},
		UserID: userID,
	})
	if err != nil {
		logger.Warningf("Error getting chat member %d in group %d: %v", userID, groupID, err)
		return moderation.RoleUnknown
	}

	var role moderation.Role
	switch member.MemberStatus() {
	case telego.MemberStatusCreator:
		role = moderation.RoleOwner
	case telego.MemberStatusAdministrator:
		role = moderation.RoleAdmin
	default:
		role = moderation.RoleMember
	}

	t.roleCache.Add(key, role)
	return role
}

// DeleteMessage removes a message from a group.
func (t *Transport) DeleteMessage(ctx context.Context, groupID int64, messageID int) error {
	return t.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: groupID},
		MessageID: messageID,
	})
}

// RemoveMember bans a user from a single group.
func (t *Transport) RemoveMember(ctx context.Context, groupID, userID int64) error {
	return t.bot.BanChatMember(ctx, &telego.BanChatMemberParams{
		ChatID: telego.ChatID{ID: groupID},
		UserID: userID,
	})
}

// SendDirectNotification sends a private HTML message to a user.
func (t *Transport) SendDirectNotification(ctx context.Context, userID int64, text string) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: userID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}

// SendGroupNotification posts an ephemeral notice to a group and schedules
// its retraction after ttl without blocking the caller.
func (t *Transport) SendGroupNotification(ctx context.Context, groupID int64, text string, ttl time.Duration) error {
	msg, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: groupID},
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	if ttl > 0 {
		messageID := msg.MessageID
		crash.SafeGoroutine(fmt.Sprintf("retract-notice-%d-%d", groupID, messageID), func() {
			time.Sleep(ttl)
			err := t.bot.DeleteMessage(context.Background(), &telego.DeleteMessageParams{
				ChatID:    telego.ChatID{ID: groupID},
				MessageID: messageID,
			})
			if err != nil {
				logger.Warningf("Error retracting notice %d in group %d: %v", messageID, groupID, err)
			}
		})
	}

	return nil
}

// MemberCount returns the number of members in a group, 0 on failure.
func (t *Transport) MemberCount(ctx context.Context, groupID int64) int {
	count, err := t.bot.GetChatMemberCount(ctx, &telego.GetChatMemberCountParams{
		ChatID: telego.ChatID{ID: groupID},
	})
	if err != nil || count == nil {
		logger.Warningf("Error getting member count for group %d: %v", groupID, err)
		return 0
	}
	return *count
}
