package handler

import (
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-wordguard/internal/logger"
	"tg-wordguard/internal/models"
	"tg-wordguard/internal/moderation"
)

// handleIncomingMessage routes new messages: member join events go to the
// ban-registry check, everything else in a group goes through the
// violation scan.
func handleIncomingMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	// Skip if no sender information or sender is a bot
	if message.From == nil {
		return nil
	}

	if len(message.NewChatMembers) > 0 {
		return handleNewChatMembers(ctx, bot, message)
	}

	if message.From.IsBot {
		return nil
	}

	if message.Chat.Type == "private" {
		return nil
	}

	return handleGroupMessage(ctx, message)
}

// handleGroupMessage runs the escalation engine on one group message.
func handleGroupMessage(ctx *th.Context, message telego.Message) error {
	text := message.Text
	if text == "" {
		text = message.Caption
	}

	engine.HandleMessage(ctx.Context(), moderation.Message{
		GroupID:    message.Chat.ID,
		GroupTitle: message.Chat.Title,
		MessageID:  message.MessageID,
		SenderID:   message.From.ID,
		SenderName: displayName(*message.From),
		SenderUser: message.From.Username,
		Text:       text,
	})

	return nil
}

// handleNewChatMembers enforces the global ban registry for every joining
// member. If the bot itself was added, the group is registered instead.
func handleNewChatMembers(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	botID := bot.ID()

	for _, member := range message.NewChatMembers {
		if member.ID == botID {
			onBotAddedToGroup(ctx, message)
			continue
		}
		if member.IsBot {
			continue
		}

		engine.HandleJoin(ctx.Context(), moderation.Join{
			GroupID:    message.Chat.ID,
			GroupTitle: message.Chat.Title,
			MessageID:  message.MessageID,
			UserID:     member.ID,
			UserName:   displayName(member),
		})
	}

	return nil
}

// onBotAddedToGroup registers the group, greets it and notifies the owner.
func onBotAddedToGroup(ctx *th.Context, message telego.Message) {
	groupID := message.Chat.ID
	memberCount := transport.MemberCount(ctx.Context(), groupID)

	dataStore.RegisterGroup(models.GroupSettings{
		GroupID:     groupID,
		Title:       message.Chat.Title,
		AddedDate:   time.Now(),
		MemberCount: memberCount,
	})
	logger.Infof("BOT_ADDED | Group: %d | Title: %s | Members: %d", groupID, message.Chat.Title, memberCount)

	welcome := "🛡 <b>Word guard activated.</b>\n\n" +
		"Enabled automatically:\n" +
		"• blocked-word detection\n" +
		"• automatic removal of violating messages\n" +
		"• permanent ban of repeat offenders\n\n" +
		"Requirements: promote the bot to admin with permission to delete messages and ban members."

	if err := transport.SendGroupNotification(ctx.Context(), groupID, welcome, 0); err != nil {
		logger.Warningf("Error greeting group %d: %v", groupID, err)
	}

	stats := dataStore.Stats()
	notice := fmt.Sprintf("✅ <b>Bot added to a new group</b>\n\n"+
		"• <b>Group:</b> %s\n"+
		"• <b>Members:</b> %d\n"+
		"• <b>Active groups:</b> %d",
		message.Chat.Title, memberCount, stats.Groups)

	if err := transport.SendDirectNotification(ctx.Context(), globalConfig.Bot.OwnerID, notice); err != nil {
		logger.Warningf("Error notifying owner about new group %d: %v", groupID, err)
	}
}

func displayName(user telego.User) string {
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}
