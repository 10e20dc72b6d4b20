package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sid743/TG-cloud-storage/internal/media"
	"github.com/sid743/TG-cloud-storage/internal/topic"
)

// handleUpload runs the upload pipeline: extract → ensure lane → relay into
// the storage group → record → reply with the deep link. Each stage aborts
// the pipeline on failure, so no code is ever issued for content that did
// not make it into storage.
func (b *Bot) handleUpload(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	owner := msg.From

	info, err := media.Extract(msg)
	if err != nil {
		if errors.Is(err, media.ErrNoMedia) {
			b.reply(ctx, chatID, msgUnsupported)
			return
		}
		log.Printf("bot: extract media from %d: %v", owner.ID, err)
		b.reply(ctx, chatID, msgSaveFailed)
		return
	}

	if err := b.gw.SendUploadAction(ctx, chatID); err != nil {
		log.Printf("bot: chat action for %d: %v", owner.ID, err)
	}

	laneID, err := b.topics.EnsureLane(ctx, owner.ID, laneLabel(owner))
	if err != nil {
		log.Printf("bot: ensure lane for %d: %v", owner.ID, err)
		if errors.Is(err, topic.ErrLaneCreation) {
			b.reply(ctx, chatID, msgLaneFailed)
		} else {
			b.reply(ctx, chatID, msgSaveFailed)
		}
		return
	}

	if err := b.gw.Relay(ctx, chatID, msg.MessageID, laneID); err != nil {
		log.Printf("bot: relay message %d for %d: %v", msg.MessageID, owner.ID, err)
		b.reply(ctx, chatID, msgRelayFailed)
		return
	}

	code, err := b.files.Put(ctx, info.Handle, info.Fingerprint, info.Kind, info.DisplayName, owner.ID)
	if err != nil {
		log.Printf("bot: record file for %d: %v", owner.ID, err)
		b.reply(ctx, chatID, msgSaveFailed)
		return
	}

	b.reply(ctx, chatID, savedMessage(info.DisplayName, b.gw.DeepLink(code)))
}

// laneLabel names an owner's storage topic in the shared group.
func laneLabel(u *tgbotapi.User) string {
	return fmt.Sprintf("%s (%d)", u.FirstName, u.ID)
}
