// Package gatewaytest provides an in-memory Gateway for tests: every
// outbound interaction is recorded, and each operation can be forced to
// fail.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/sid743/TG-cloud-storage/internal/file"
	"github.com/sid743/TG-cloud-storage/internal/gateway"
)

type SentText struct {
	ChatID int64
	Text   string
}

type SentMedia struct {
	ChatID  int64
	Handle  string
	Kind    file.MediaKind
	Caption string
}

type SentPrompt struct {
	Prompt         gateway.Prompt
	ChatID         int64
	Text           string
	ApprovePayload string
	DenyPayload    string
}

type Relayed struct {
	FromChatID int64
	MessageID  int
	LaneID     int64
}

// Fake implements gateway.Gateway. Zero value is not usable; call New.
type Fake struct {
	mu         sync.Mutex
	nextLane   int64
	nextPrompt int

	Texts   []SentText
	Media   []SentMedia
	Prompts []SentPrompt
	Relays  []Relayed
	Edits   map[gateway.Prompt][]string

	CreateLaneErr error
	RelayErr      error
	SendTextErr   error
	PromptErr     error
	MediaErr      error
	EditErr       error
}

// New creates an empty fake gateway.
func New() *Fake {
	return &Fake{
		nextLane:   1000,
		nextPrompt: 100,
		Edits:      make(map[gateway.Prompt][]string),
	}
}

func (f *Fake) CreateLane(_ context.Context, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateLaneErr != nil {
		return 0, f.CreateLaneErr
	}
	f.nextLane++
	return f.nextLane, nil
}

func (f *Fake) Relay(_ context.Context, fromChatID int64, messageID int, laneID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RelayErr != nil {
		return f.RelayErr
	}
	f.Relays = append(f.Relays, Relayed{FromChatID: fromChatID, MessageID: messageID, LaneID: laneID})
	return nil
}

func (f *Fake) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendTextErr != nil {
		return f.SendTextErr
	}
	f.Texts = append(f.Texts, SentText{ChatID: chatID, Text: text})
	return nil
}

func (f *Fake) SendApprovalPrompt(_ context.Context, chatID int64, text, approvePayload, denyPayload string) (gateway.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PromptErr != nil {
		return gateway.Prompt{}, f.PromptErr
	}
	f.nextPrompt++
	p := gateway.Prompt{ChatID: chatID, MessageID: f.nextPrompt}
	f.Prompts = append(f.Prompts, SentPrompt{
		Prompt: p, ChatID: chatID, Text: text,
		ApprovePayload: approvePayload, DenyPayload: denyPayload,
	})
	return p, nil
}

func (f *Fake) EditPrompt(_ context.Context, p gateway.Prompt, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EditErr != nil {
		return f.EditErr
	}
	f.Edits[p] = append(f.Edits[p], text)
	return nil
}

func (f *Fake) SendMedia(_ context.Context, chatID int64, handle string, kind file.MediaKind, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MediaErr != nil {
		return f.MediaErr
	}
	f.Media = append(f.Media, SentMedia{ChatID: chatID, Handle: handle, Kind: kind, Caption: caption})
	return nil
}

func (f *Fake) SendUploadAction(_ context.Context, _ int64) error { return nil }

func (f *Fake) AnswerCallback(_ context.Context, _, _ string) error { return nil }

func (f *Fake) DeepLink(code string) string {
	return "https://t.me/filestorebot?start=" + code
}

// TextsFor returns every text sent to chatID, in order.
func (f *Fake) TextsFor(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.Texts {
		if s.ChatID == chatID {
			out = append(out, s.Text)
		}
	}
	return out
}

// MediaFor returns every media delivery to chatID, in order.
func (f *Fake) MediaFor(chatID int64) []SentMedia {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMedia
	for _, m := range f.Media {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// LastPrompt returns the most recently sent approval prompt.
func (f *Fake) LastPrompt() (SentPrompt, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Prompts) == 0 {
		return SentPrompt{}, false
	}
	return f.Prompts[len(f.Prompts)-1], true
}

// EditsFor returns the edit history of a prompt.
func (f *Fake) EditsFor(p gateway.Prompt) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Edits[p]...)
}
