package tts

import "context"

// Provider turns answer text into a served audio asset. Implementations
// return the URL path the asset is reachable under (e.g. /audio/<name>.mp3).
type Provider interface {
	Synthesize(ctx context.Context, text, language string) (audioPath string, err error)
}
