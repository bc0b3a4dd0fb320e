package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const elevenLabsBase = "https://api.elevenlabs.io/v1"

// ElevenLabs synthesizes speech via the ElevenLabs HTTP API and stores the
// resulting mp3 under outDir, which the server exposes at /audio.
type ElevenLabs struct {
	apiKey string
	voice  string
	outDir string
	hc     *http.Client
}

func NewElevenLabs(apiKey, voice, outDir string) *ElevenLabs {
	return &ElevenLabs{
		apiKey: apiKey,
		voice:  voice,
		outDir: outDir,
		hc:     &http.Client{Timeout: 30 * time.Second},
	}
}

type synthesizeReq struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text, language string) (string, error) {
	body, err := json.Marshal(synthesizeReq{Text: text, ModelID: "eleven_turbo_v2"})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/text-to-speech/%s", elevenLabsBase, e.voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("tts status %d: %s", resp.StatusCode, msg)
	}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	name := fmt.Sprintf("profai_%d.mp3", time.Now().UnixMilli())
	out, err := os.Create(filepath.Join(e.outDir, name))
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return "/audio/" + name, nil
}
