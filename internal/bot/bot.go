// Package bot dispatches inbound Telegram updates to the upload and
// retrieval pipelines and the access-control workflow.
package bot

import (
	"context"
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sid743/TG-cloud-storage/internal/access"
	"github.com/sid743/TG-cloud-storage/internal/file"
	"github.com/sid743/TG-cloud-storage/internal/gateway"
	"github.com/sid743/TG-cloud-storage/internal/topic"
)

// Bot wires the pipelines together. All shared state lives behind the file
// service, the topic router and the workflow; handlers themselves are
// stateless and safe to run concurrently.
type Bot struct {
	gw     gateway.Gateway
	files  *file.Service
	topics *topic.Router
	flow   *access.Workflow
}

// New creates a Bot over its collaborators.
func New(gw gateway.Gateway, files *file.Service, topics *topic.Router, flow *access.Workflow) *Bot {
	return &Bot{gw: gw, files: files, topics: topics, flow: flow}
}

// Run consumes the update stream until ctx is cancelled or the stream
// closes. Each update is handled in its own goroutine so one slow platform
// call never stalls unrelated users.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			go b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate routes one inbound update. Safe for concurrent use. Panics
// are contained here: a bad update must never take the poll loop down.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bot: recovered from panic in update handler: %v", r)
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		b.handleDecision(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil && upd.Message.IsCommand():
		b.handleCommand(ctx, upd.Message)
	case upd.Message != nil && upd.Message.From != nil:
		b.handleUpload(ctx, upd.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "list":
		b.handleList(ctx, msg)
	}
}

// handleDecision processes an approve/deny button press from an owner's
// prompt.
func (b *Bot) handleDecision(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil {
		// Prompt too old for Telegram to echo back; nothing to update.
		b.ack(ctx, q.ID, "This request has expired.")
		return
	}

	prompt := gateway.Prompt{ChatID: q.Message.Chat.ID, MessageID: q.Message.MessageID}
	err := b.flow.Decide(ctx, q.Data, prompt)
	switch {
	case errors.Is(err, access.ErrBadPayload):
		log.Printf("bot: rejected decision payload from %d: %v", q.From.ID, err)
		b.ack(ctx, q.ID, "Invalid request.")
	case errors.Is(err, access.ErrAlreadyDecided):
		b.ack(ctx, q.ID, "Already decided.")
	case err != nil:
		log.Printf("bot: decision failed: %v", err)
		b.ack(ctx, q.ID, "Something went wrong, try again.")
	default:
		b.ack(ctx, q.ID, "")
	}
}

func (b *Bot) ack(ctx context.Context, callbackID, text string) {
	if err := b.gw.AnswerCallback(ctx, callbackID, text); err != nil {
		log.Printf("bot: answer callback: %v", err)
	}
}

// reply sends a user-facing message, logging (not escalating) send failures.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.gw.SendText(ctx, chatID, text); err != nil {
		log.Printf("bot: reply to %d: %v", chatID, err)
	}
}
