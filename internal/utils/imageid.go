package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageIDHookFunc is the signature of the NewImageID test hook. It returns
// an ID and whether to override the default generation.
type ImageIDHookFunc func() (id string, override bool)

// NewImageIDHook lets tests pin image IDs.
var NewImageIDHook ImageIDHookFunc

// NewImageID generates a globally unique image identifier: millisecond
// timestamp plus a random suffix. Concurrent uploads from the same session
// land within the same millisecond, so the random part carries uniqueness.
func NewImageID() string {
	if NewImageIDHook != nil {
		if id, override := NewImageIDHook(); override {
			return id
		}
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), suffix)
}

// FileExtension extracts the lowercase extension of a filename without the
// dot, defaulting to "jpg" when the name carries none.
func FileExtension(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx == -1 || idx == len(filename)-1 {
		return "jpg"
	}
	return strings.ToLower(filename[idx+1:])
}
