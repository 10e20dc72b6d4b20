// Package gateway defines the messaging-platform surface the pipelines need.
// Swap implementations by changing the concrete type injected at startup —
// the Telegram implementation is the production one; tests use fakes.
package gateway

import (
	"context"

	"github.com/sid743/TG-cloud-storage/internal/file"
)

// Prompt identifies an approval prompt already sent to an owner, so a later
// decision can update it in place.
type Prompt struct {
	ChatID    int64
	MessageID int
}

// Gateway is the platform collaborator: everything the bot does that touches
// Telegram goes through here.
type Gateway interface {
	// CreateLane opens a new storage lane in the shared group and returns
	// its handle.
	CreateLane(ctx context.Context, label string) (int64, error)
	// Relay forwards an inbound message into a lane of the storage group.
	Relay(ctx context.Context, fromChatID int64, messageID int, laneID int64) error
	// SendText sends an HTML-formatted message.
	SendText(ctx context.Context, chatID int64, text string) error
	// SendApprovalPrompt sends a message with approve/deny buttons carrying
	// the given opaque payloads, and returns a reference to the prompt.
	SendApprovalPrompt(ctx context.Context, chatID int64, text, approvePayload, denyPayload string) (Prompt, error)
	// EditPrompt rewrites a previously sent prompt, dropping its buttons.
	EditPrompt(ctx context.Context, p Prompt, text string) error
	// SendMedia delivers stored content by handle, dispatching on the kind.
	SendMedia(ctx context.Context, chatID int64, handle string, kind file.MediaKind, caption string) error
	// SendUploadAction shows the "uploading a document" chat action.
	SendUploadAction(ctx context.Context, chatID int64) error
	// AnswerCallback acknowledges a button press, optionally with a notice.
	AnswerCallback(ctx context.Context, callbackID, text string) error
	// DeepLink builds the shareable re-entry URL for a short code.
	DeepLink(code string) string
}
