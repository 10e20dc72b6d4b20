package access

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"sync"

	"github.com/sid743/TG-cloud-storage/internal/file"
	"github.com/sid743/TG-cloud-storage/internal/gateway"
)

// ErrAlreadyDecided is returned when a decision signal arrives for a
// (code, requester) pair that already reached a terminal state. Duplicate
// presses are a no-op: the first decision stands and nothing is re-delivered.
var ErrAlreadyDecided = errors.New("request already decided")

// Workflow drives pending access requests to a terminal approve/deny state.
//
// Between the prompt and the decision there is no server-side request row:
// the whole request identity travels inside the signed button payload, and
// the decision re-enters as a fresh event. Only terminal outcomes are held
// in memory, to make duplicate signals idempotent; a restart before the
// owner decides strands the prompt, which is accepted.
type Workflow struct {
	files *file.Service
	gw    gateway.Gateway
	codec *Codec

	mu      sync.Mutex
	decided map[string]Action
}

// NewWorkflow creates a workflow over the reference store and the gateway,
// signing button payloads with secret.
func NewWorkflow(files *file.Service, gw gateway.Gateway, secret []byte) *Workflow {
	return &Workflow{
		files:   files,
		gw:      gw,
		codec:   NewCodec(secret),
		decided: make(map[string]Action),
	}
}

// Open sends the approval prompt for f to its owner, naming the requester.
// A send failure means the owner is unreachable; the caller reports that to
// the requester.
func (w *Workflow) Open(ctx context.Context, f *file.StoredFile, requesterID int64, requesterName string) error {
	approve := w.codec.Encode(Signal{Action: ActionApprove, Code: f.Code, RequesterID: requesterID})
	deny := w.codec.Encode(Signal{Action: ActionDeny, Code: f.Code, RequesterID: requesterID})

	text := fmt.Sprintf(
		"🔔 <b>Access Request</b>\n\n👤 <b>User:</b> %s\n📄 <b>File:</b> %s\n\nDo you want to send this file to them?",
		html.EscapeString(requesterName), html.EscapeString(f.DisplayName),
	)

	if _, err := w.gw.SendApprovalPrompt(ctx, f.OwnerID, text, approve, deny); err != nil {
		return fmt.Errorf("send approval prompt: %w", err)
	}
	return nil
}

// Decide processes one decision signal from a button press on prompt.
// Invalid payloads surface as ErrBadPayload; duplicates as ErrAlreadyDecided.
// An approval is irrevocable the moment it is claimed — a delivery failure
// afterwards is reported on the prompt but never rolls the decision back.
func (w *Workflow) Decide(ctx context.Context, rawPayload string, prompt gateway.Prompt) error {
	sig, err := w.codec.Decode(rawPayload)
	if err != nil {
		return err
	}

	f, err := w.files.Get(ctx, sig.Code)
	if err != nil {
		if w.files.IsNotFound(err) {
			if editErr := w.gw.EditPrompt(ctx, prompt, "⚠️ File no longer available."); editErr != nil {
				log.Printf("access: edit prompt for missing %s: %v", sig.Code, editErr)
			}
			return nil
		}
		return fmt.Errorf("resolve code %s: %w", sig.Code, err)
	}

	if !w.claim(sig) {
		return ErrAlreadyDecided
	}

	switch sig.Action {
	case ActionDeny:
		w.finishDeny(ctx, sig, prompt)
	case ActionApprove:
		w.finishApprove(ctx, sig, f, prompt)
	}
	return nil
}

// claim atomically marks the pair as decided. Returns false when another
// signal got there first.
func (w *Workflow) claim(sig Signal) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := sig.Code + ":" + strconv.FormatInt(sig.RequesterID, 10)
	if _, done := w.decided[key]; done {
		return false
	}
	w.decided[key] = sig.Action
	return true
}

func (w *Workflow) finishDeny(ctx context.Context, sig Signal, prompt gateway.Prompt) {
	if err := w.gw.EditPrompt(ctx, prompt, "❌ Request denied."); err != nil {
		log.Printf("access: edit denied prompt for %s: %v", sig.Code, err)
	}
	// Requester may have blocked the bot; nothing more to do.
	if err := w.gw.SendText(ctx, sig.RequesterID, "❌ Your request for file access was denied."); err != nil {
		log.Printf("access: notify denied requester %d: %v", sig.RequesterID, err)
	}
}

func (w *Workflow) finishApprove(ctx context.Context, sig Signal, f *file.StoredFile, prompt gateway.Prompt) {
	if err := w.gw.EditPrompt(ctx, prompt, "✅ Access granted to user."); err != nil {
		log.Printf("access: edit approved prompt for %s: %v", sig.Code, err)
	}

	err := w.gw.SendText(ctx, sig.RequesterID, "✅ <b>Request Approved!</b> Incoming file:")
	if err == nil {
		err = w.gw.SendMedia(ctx, sig.RequesterID, f.ContentHandle, f.Kind, "")
	}
	if err != nil {
		log.Printf("access: deliver %s to %d: %v", sig.Code, sig.RequesterID, err)
		text := fmt.Sprintf("✅ Approved, but failed to send: %s", html.EscapeString(err.Error()))
		if editErr := w.gw.EditPrompt(ctx, prompt, text); editErr != nil {
			log.Printf("access: report delivery failure for %s: %v", sig.Code, editErr)
		}
	}
}
