package handler

import (
	"sync"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-wordguard/internal/bot"
	"tg-wordguard/internal/config"
	"tg-wordguard/internal/moderation"
	"tg-wordguard/internal/store"
)

var (
	globalConfig *config.Config
	dataStore    *store.Store
	engine       *moderation.Engine
	transport    *bot.Transport

	handlersWG sync.WaitGroup
)

// Initialize wires the handler package to the shared store, engine and
// transport.
func Initialize(cfg *config.Config, st *store.Store, eng *moderation.Engine, tr *bot.Transport) {
	globalConfig = cfg
	dataStore = st
	engine = eng
	transport = tr
}

// SetupMessageHandlers configures all bot message and update handlers
func SetupMessageHandlers(bh *th.BotHandler, b *telego.Bot) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		handlersWG.Add(1)
		defer handlersWG.Done()

		ok, err := HandleCommand(ctx, b, message)
		if ok {
			return err
		}

		return handleIncomingMessage(ctx, b, message)
	})
}

// WaitForHandlers blocks until all in-flight message handlers complete.
func WaitForHandlers() {
	handlersWG.Wait()
}
