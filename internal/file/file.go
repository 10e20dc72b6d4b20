// Package file implements the reference store: the persistent mapping from
// short shareable codes to content stored on the messaging platform.
package file

import (
	"errors"
	"fmt"
)

// MediaKind is the closed set of content kinds the bot stores. Delivery is
// parameterized by the kind; new kinds require a migration of the gateway's
// send path, so the set stays deliberately small.
type MediaKind string

const (
	KindDocument MediaKind = "document"
	KindVideo    MediaKind = "video"
	KindPhoto    MediaKind = "photo"
	KindAudio    MediaKind = "audio"
)

// Valid reports whether k is one of the known media kinds.
func (k MediaKind) Valid() bool {
	switch k {
	case KindDocument, KindVideo, KindPhoto, KindAudio:
		return true
	}
	return false
}

// ParseMediaKind converts a stored string back into a MediaKind.
func ParseMediaKind(s string) (MediaKind, error) {
	k := MediaKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown media kind %q", s)
	}
	return k, nil
}

// StoredFile is one relayed piece of content. Rows are immutable after
// insertion; Code is the primary key and the only identifier users see.
type StoredFile struct {
	Code               string
	ContentHandle      string
	ContentFingerprint string
	Kind               MediaKind
	DisplayName        string
	OwnerID            int64
}

// ErrNotFound is returned when a code does not resolve to a stored file.
var ErrNotFound = errors.New("file not found")

// ErrCodeTaken is returned by a Store when an insert collides with an
// existing code. Callers regenerate and retry.
var ErrCodeTaken = errors.New("short code already taken")
