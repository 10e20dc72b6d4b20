package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleStart handles /start: bare, it greets; with a code argument it runs
// the retrieval pipeline. Owners get their content back directly; anyone
// else triggers an access request toward the owner and waits.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	code := msg.CommandArguments()
	if code == "" {
		b.reply(ctx, chatID, msgWelcome)
		return
	}

	f, err := b.files.Get(ctx, code)
	if err != nil {
		if !b.files.IsNotFound(err) {
			log.Printf("bot: resolve code %q: %v", code, err)
		}
		b.reply(ctx, chatID, msgNotFound)
		return
	}

	requester := msg.From
	if requester.ID == f.OwnerID {
		if err := b.gw.SendMedia(ctx, chatID, f.ContentHandle, f.Kind, ""); err != nil {
			log.Printf("bot: deliver %s to owner %d: %v", f.Code, f.OwnerID, err)
			b.reply(ctx, chatID, msgDeliveryFailed)
		}
		return
	}

	b.reply(ctx, chatID, msgProtected)
	if err := b.flow.Open(ctx, f, requester.ID, requester.FirstName); err != nil {
		log.Printf("bot: open access request for %s by %d: %v", f.Code, requester.ID, err)
		b.reply(ctx, chatID, msgOwnerUnreachable)
	}
}

// handleList replies with every file the caller owns, rendered as deep links.
func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	files, err := b.files.ListByOwner(ctx, msg.From.ID)
	if err != nil {
		log.Printf("bot: list files for %d: %v", msg.From.ID, err)
		b.reply(ctx, chatID, msgDeliveryFailed)
		return
	}
	if len(files) == 0 {
		b.reply(ctx, chatID, msgNoFiles)
		return
	}

	b.reply(ctx, chatID, fileListMessage(files, b.gw.DeepLink))
}
