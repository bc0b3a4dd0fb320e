package gemini

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/profai/profai-backend/pkg/types"
)

// Client wraps the Gemini API for every generation concern ProfAI has:
// tutoring chat, structured JSON generation, frame analysis, and audio
// transcription.
type Client struct {
	c     *genai.Client
	model string
}

func New(apiKey, model string) (*Client, error) {
	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
		ForceAttemptHTTP2: false,
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
	}
	hc := &http.Client{Transport: tr, Timeout: 60 * time.Second}
	reqTimeout := 45 * time.Second
	cl, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: "v1",
			Timeout:    &reqTimeout,
		},
	})
	if err != nil {
		return nil, err
	}
	return &Client{c: cl, model: model}, nil
}

func (g *Client) Close() error { return nil }

// Chat produces a tutoring reply for text, with system as the persona
// instruction and history as prior turns in order.
func (g *Client) Chat(ctx context.Context, system string, history []types.Message, text string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.RoleUser
		if m.Role == "ai" || m.Role == "assistant" || m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: text}},
	})

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	return g.callOnce(ctx, contents, cfg)
}

// GenerateJSON asks for a JSON document and returns the raw response text.
// Callers parse and repair; the model is only nudged via response MIME type.
func (g *Client) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	temp := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}
	out, err := g.callOnce(ctx, contents, cfg)
	if err == nil {
		return out, nil
	}
	// Some models reject the MIME constraint; retry without it.
	cfg.ResponseMIMEType = ""
	return g.callOnce(ctx, contents, cfg)
}

// AnalyzeImage runs prompt against a single image frame.
func (g *Client) AnalyzeImage(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	temp := float32(0.2)
	topP := float32(0.8)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
		TopP:        &topP,
	}
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{Data: image, MIMEType: mime}},
		},
	}}
	return g.callOnce(ctx, contents, cfg)
}

// Transcribe converts recorded speech to text.
func (g *Client) Transcribe(ctx context.Context, audio []byte, mime, language string) (string, error) {
	instr := "Transcribe this audio verbatim. Output only the transcription text, nothing else."
	if language != "" && !strings.EqualFold(language, "en") {
		instr += " The audio language code is " + language + "."
	}
	temp := float32(0.0)
	cfg := &genai.GenerateContentConfig{Temperature: &temp}
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: instr},
			{InlineData: &genai.Blob{Data: audio, MIMEType: mime}},
		},
	}}
	out, err := g.callOnce(ctx, contents, cfg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (g *Client) callOnce(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := g.c.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			lastErr = err
			if retriable(err) {
				time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
				continue
			}
			return "", err
		}
		if text := extractText(resp); text != "" {
			return text, nil
		}
		lastErr = errors.New("empty response")
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return "", lastErr
}

func extractText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.MIMEType == "application/json" {
				return string(p.InlineData.Data)
			}
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return resp.Text()
}

func retriable(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "unexpected EOF") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "RST_STREAM") ||
		strings.Contains(s, "connection reset")
}
