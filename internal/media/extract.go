// Package media classifies inbound messages and extracts the content
// metadata the pipelines store. Extraction is pure: no platform calls, no
// state.
package media

import (
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sid743/TG-cloud-storage/internal/file"
)

// ErrNoMedia is returned when a message carries no recognizable content.
var ErrNoMedia = errors.New("no recognizable media")

// Info is the extracted metadata of one content-bearing message.
type Info struct {
	Handle      string
	Fingerprint string
	Kind        file.MediaKind
	DisplayName string
}

// Extract classifies the message's media and pulls out its handle,
// fingerprint, kind and display name. A message carries exactly one kind;
// the display name never comes back empty — when nothing usable is attached
// a name is synthesized from the kind and the current date.
func Extract(m *tgbotapi.Message) (*Info, error) {
	switch {
	case m.Document != nil:
		return &Info{
			Handle:      m.Document.FileID,
			Fingerprint: m.Document.FileUniqueID,
			Kind:        file.KindDocument,
			DisplayName: firstNonEmpty(m.Document.FileName, "Document"),
		}, nil

	case m.Video != nil:
		return &Info{
			Handle:      m.Video.FileID,
			Fingerprint: m.Video.FileUniqueID,
			Kind:        file.KindVideo,
			DisplayName: firstNonEmpty(m.Caption, m.Video.FileName, synthesizedName("Video", "mp4")),
		}, nil

	case len(m.Photo) > 0:
		p := largestPhoto(m.Photo)
		return &Info{
			Handle:      p.FileID,
			Fingerprint: p.FileUniqueID,
			Kind:        file.KindPhoto,
			DisplayName: firstNonEmpty(m.Caption, synthesizedName("Photo", "jpg")),
		}, nil

	case m.Audio != nil:
		return &Info{
			Handle:      m.Audio.FileID,
			Fingerprint: m.Audio.FileUniqueID,
			Kind:        file.KindAudio,
			DisplayName: firstNonEmpty(m.Audio.FileName, m.Audio.Title, "Audio_Track"),
		}, nil
	}

	return nil, ErrNoMedia
}

// largestPhoto picks the highest-resolution variant. The platform usually
// sends variants in ascending size, but that ordering is not relied on.
func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}

func synthesizedName(kind, ext string) string {
	return fmt.Sprintf("%s_%s.%s", kind, time.Now().Format("20060102"), ext)
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
