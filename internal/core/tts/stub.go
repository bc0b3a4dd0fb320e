package tts

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
)

// Stub fakes synthesis for dev mode: a deterministic path keyed by the text,
// no file written, no API key needed.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Synthesize(ctx context.Context, text, language string) (string, error) {
	h := sha1.New()
	h.Write([]byte(text + language))
	key := hex.EncodeToString(h.Sum(nil))[:16]
	return "/audio/" + key + ".mp3", nil
}
