package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-wordguard/internal/logger"
)

const wordsPerChunk = 50

// HandleCommand dispatches owner commands. It reports whether the message
// was a recognized command.
func HandleCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) (bool, error) {
	if message.From == nil || !strings.HasPrefix(message.Text, "/") {
		return false, nil
	}

	fields := strings.Fields(message.Text)
	command := fields[0]
	// Strip the @botname suffix used in groups
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}

	switch command {
	case "/panel", "/start", "/help", "/addword", "/delword", "/words", "/banlist", "/silent", "/stats":
	default:
		return false, nil
	}

	if message.From.ID != globalConfig.Bot.OwnerID {
		return true, reply(ctx, bot, message.Chat.ID, "⛔ This command is for the owner only!")
	}

	switch command {
	case "/panel", "/start", "/help":
		return true, handlePanel(ctx, bot, message)
	case "/addword":
		return true, handleAddWord(ctx, bot, message, fields[1:])
	case "/delword":
		return true, handleDelWord(ctx, bot, message, fields[1:])
	case "/words":
		return true, handleWords(ctx, bot, message)
	case "/banlist":
		return true, handleBanList(ctx, bot, message)
	case "/silent":
		return true, handleSilent(ctx, bot, message)
	case "/stats":
		return true, handleStats(ctx, bot, message)
	}

	return false, nil
}

func handlePanel(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	stats := dataStore.Stats()

	silentStatus := "❌ disabled"
	if stats.SilentMode {
		silentStatus = "✅ enabled"
	}

	text := fmt.Sprintf("🛡 <b>Word Guard control panel</b>\n\n"+
		"<b>📊 Statistics:</b>\n"+
		"• Blocked words: %d\n"+
		"• Banned users: %d\n"+
		"• Active groups: %d\n"+
		"• Recorded warnings: %d\n\n"+
		"<b>⚙️ Settings:</b>\n"+
		"• Silent mode: %s\n"+
		"• Administrators: %d\n\n"+
		"<b>Commands:</b>\n"+
		"/panel - this panel\n"+
		"/addword - add blocked words\n"+
		"/delword - delete a blocked word\n"+
		"/words - list blocked words\n"+
		"/banlist - list banned users\n"+
		"/silent - toggle silent mode\n"+
		"/stats - detailed statistics",
		stats.BlockedWords, stats.BannedUsers, stats.Groups, stats.TotalWarnings,
		silentStatus, stats.AdminUsers)

	return reply(ctx, bot, message.Chat.ID, text)
}

func handleAddWord(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	var words []string

	if message.ReplyToMessage != nil && message.ReplyToMessage.Text != "" {
		// Words from the replied-to message, one per line
		for _, line := range strings.Split(message.ReplyToMessage.Text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				words = append(words, line)
			}
		}
	} else {
		words = args
	}

	if len(words) == 0 {
		return reply(ctx, bot, message.Chat.ID,
			"📝 <b>Usage:</b>\n<code>/addword word1 word2 word3</code>\n\n"+
				"Or reply to a message containing words (one per line) with <code>/addword</code>")
	}

	added, duplicates := dataStore.AddWords(words)
	logger.Infof("ADD_WORDS | User: %d | Added %d words", message.From.ID, added)

	text := fmt.Sprintf("✅ <b>Blocked words updated</b>\n\n"+
		"➕ Added: %d\n"+
		"➖ Duplicates: %d\n"+
		"📊 Total now: %d",
		added, duplicates, dataStore.Stats().BlockedWords)

	return reply(ctx, bot, message.Chat.ID, text)
}

func handleDelWord(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	if len(args) == 0 {
		return reply(ctx, bot, message.Chat.ID,
			"🗑 <b>Usage:</b>\n<code>/delword word</code>\n\nList words with /words")
	}

	word := strings.Join(args, " ")
	removed, ok := dataStore.RemoveWord(word)
	if !ok {
		return reply(ctx, bot, message.Chat.ID,
			fmt.Sprintf("⚠️ <b>Word not found:</b> <code>%s</code>\nList words with /words", word))
	}

	logger.Infof("DELETE_WORD | User: %d | Removed: %s", message.From.ID, removed)
	return reply(ctx, bot, message.Chat.ID,
		fmt.Sprintf("✅ <b>Word removed:</b> <code>%s</code>\n📊 Remaining: %d",
			removed, dataStore.Stats().BlockedWords))
}

func handleWords(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	words := dataStore.Words()
	if len(words) == 0 {
		return reply(ctx, bot, message.Chat.ID, "📭 <b>No blocked words configured</b>")
	}

	sort.Strings(words)

	chunks := (len(words) + wordsPerChunk - 1) / wordsPerChunk
	for i := 0; i < chunks; i++ {
		end := (i + 1) * wordsPerChunk
		if end > len(words) {
			end = len(words)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📋 <b>Blocked words (%d)</b>\n\n", len(words))
		for j, word := range words[i*wordsPerChunk : end] {
			fmt.Fprintf(&sb, "%d. <code>%s</code>\n", i*wordsPerChunk+j+1, word)
		}
		if chunks > 1 {
			fmt.Fprintf(&sb, "\n📄 Page %d of %d", i+1, chunks)
		}

		if err := reply(ctx, bot, message.Chat.ID, sb.String()); err != nil {
			return err
		}
	}

	return nil
}

func handleBanList(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	records := dataStore.BanList(50)
	if len(records) == 0 {
		return reply(ctx, bot, message.Chat.ID, "📭 <b>No permanently banned users</b>")
	}

	total := dataStore.Stats().BannedUsers

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚫 <b>Permanently banned users (%d)</b>\n\n", total)
	for i, record := range records {
		username := record.Username
		if username == "" {
			username = "-"
		}
		fmt.Fprintf(&sb, "%d. <b>ID:</b> <code>%d</code>\n", i+1, record.UserID)
		fmt.Fprintf(&sb, "   <b>Username:</b> @%s\n", username)
		fmt.Fprintf(&sb, "   <b>Date:</b> %s\n", record.Date.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&sb, "   <b>Reason:</b> %s\n\n", record.Reason)
	}
	if total > len(records) {
		fmt.Fprintf(&sb, "📄 Showing %d of %d", len(records), total)
	}

	return reply(ctx, bot, message.Chat.ID, sb.String())
}

func handleSilent(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	enabled := dataStore.ToggleSilentMode()
	logger.Infof("TOGGLE_SILENT | User: %d | New status: %v", message.From.ID, enabled)

	status := "❌ disabled"
	if enabled {
		status = "✅ enabled"
	}

	return reply(ctx, bot, message.Chat.ID,
		fmt.Sprintf("🔇 <b>Silent mode:</b> %s\n\n"+
			"When silent mode is on, violating messages are removed without "+
			"in-group notices. Owner notifications are always sent.", status))
}

func handleStats(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	stats := dataStore.Stats()

	silent := "❌"
	if stats.SilentMode {
		silent = "✅"
	}

	text := fmt.Sprintf("📊 <b>Word Guard statistics</b>\n\n"+
		"<b>🔢 Blocked words:</b> %d\n"+
		"<b>👥 Banned users:</b> %d\n"+
		"<b>👤 Warned users:</b> %d\n"+
		"<b>⚠️ Total warnings:</b> %d\n"+
		"<b>👥 Active groups:</b> %d\n\n"+
		"<b>⚙️ Settings:</b>\n"+
		"• Silent mode: %s\n"+
		"• Administrators: %d\n"+
		"• State file: <code>%s</code>",
		stats.BlockedWords, stats.BannedUsers, stats.WarnedUsers,
		stats.TotalWarnings, stats.Groups, silent, stats.AdminUsers,
		dataStore.Path())

	return reply(ctx, bot, message.Chat.ID, text)
}

func reply(ctx *th.Context, bot *telego.Bot, chatID int64, text string) error {
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}
