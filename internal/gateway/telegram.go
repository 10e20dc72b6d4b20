package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sid743/TG-cloud-storage/internal/file"
)

// Telegram implements Gateway on the Bot API. Forum-topic methods postdate
// the pinned client (Bot API 6.3), so lane creation and thread-targeted
// forwards go through MakeRequest directly.
type Telegram struct {
	api     *tgbotapi.BotAPI
	groupID int64
}

// NewTelegram authenticates against the Bot API and returns a ready gateway.
// groupID must be a forum-enabled supergroup the bot administers.
func NewTelegram(token string, groupID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	log.Printf("authorized as @%s", api.Self.UserName)
	return &Telegram{api: api, groupID: groupID}, nil
}

// Updates opens the long-polling update stream.
func (t *Telegram) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return t.api.GetUpdatesChan(u)
}

// Stop shuts down the long-polling loop.
func (t *Telegram) Stop() {
	t.api.StopReceivingUpdates()
}

// CreateLane creates a forum topic in the storage group and returns its
// thread id.
func (t *Telegram) CreateLane(ctx context.Context, label string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	params := make(tgbotapi.Params)
	params.AddNonZero64("chat_id", t.groupID)
	params["name"] = label

	resp, err := t.api.MakeRequest("createForumTopic", params)
	if err != nil {
		return 0, fmt.Errorf("create forum topic: %w", err)
	}

	var topic struct {
		MessageThreadID int64 `json:"message_thread_id"`
	}
	if err := json.Unmarshal(resp.Result, &topic); err != nil {
		return 0, fmt.Errorf("decode forum topic: %w", err)
	}
	return topic.MessageThreadID, nil
}

// Relay forwards a message into the given topic of the storage group.
func (t *Telegram) Relay(ctx context.Context, fromChatID int64, messageID int, laneID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := make(tgbotapi.Params)
	params.AddNonZero64("chat_id", t.groupID)
	params.AddNonZero64("from_chat_id", fromChatID)
	params.AddNonZero("message_id", messageID)
	params.AddNonZero64("message_thread_id", laneID)

	if _, err := t.api.MakeRequest("forwardMessage", params); err != nil {
		return fmt.Errorf("forward message: %w", err)
	}
	return nil
}

// SendText sends an HTML message with link previews disabled.
func (t *Telegram) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendApprovalPrompt sends the two-button approve/deny prompt.
func (t *Telegram) SendApprovalPrompt(ctx context.Context, chatID int64, text, approvePayload, denyPayload string) (Prompt, error) {
	if err := ctx.Err(); err != nil {
		return Prompt{}, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", approvePayload),
			tgbotapi.NewInlineKeyboardButtonData("❌ Deny", denyPayload),
		),
	)
	sent, err := t.api.Send(msg)
	if err != nil {
		return Prompt{}, fmt.Errorf("send approval prompt: %w", err)
	}
	return Prompt{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// EditPrompt rewrites a decided prompt; editing without a reply markup drops
// the buttons.
func (t *Telegram) EditPrompt(ctx context.Context, p Prompt, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageText(p.ChatID, p.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(edit); err != nil {
		return fmt.Errorf("edit prompt: %w", err)
	}
	return nil
}

// SendMedia delivers stored content by its handle, dispatched on the kind.
func (t *Telegram) SendMedia(ctx context.Context, chatID int64, handle string, kind file.MediaKind, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.Chattable
	switch kind {
	case file.KindDocument:
		c := tgbotapi.NewDocument(chatID, tgbotapi.FileID(handle))
		c.Caption = caption
		msg = c
	case file.KindVideo:
		c := tgbotapi.NewVideo(chatID, tgbotapi.FileID(handle))
		c.Caption = caption
		msg = c
	case file.KindPhoto:
		c := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(handle))
		c.Caption = caption
		msg = c
	case file.KindAudio:
		c := tgbotapi.NewAudio(chatID, tgbotapi.FileID(handle))
		c.Caption = caption
		msg = c
	default:
		return fmt.Errorf("send media: unknown media kind %q", kind)
	}

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", kind, err)
	}
	return nil
}

// SendUploadAction shows the "uploading a document" indicator.
func (t *Telegram) SendUploadAction(ctx context.Context, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadDocument)); err != nil {
		return fmt.Errorf("send chat action: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press.
func (t *Telegram) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// DeepLink builds the https://t.me/<bot>?start=<code> re-entry URL.
func (t *Telegram) DeepLink(code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", t.api.Self.UserName, code)
}
