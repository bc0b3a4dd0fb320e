package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/profai/profai-backend/internal/logging"
)

type scriptedLLM struct {
	responses []string
	calls     int
}

func (s *scriptedLLM) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("no scripted response")
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

func newFakeYouTube(t *testing.T, transcript string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oembed":
			w.Write([]byte(`{"title": "Machine Learning 101", "author_name": "Prof"}`))
		case "/timedtext":
			w.Write([]byte(`<transcript><text>` + transcript + `</text></transcript>`))
		}
	}))
	t.Cleanup(srv.Close)
	c := NewClient()
	c.OEmbedBase = srv.URL + "/oembed"
	c.TimedTextBase = srv.URL + "/timedtext"
	return c
}

func longTranscript() string {
	return strings.Repeat("this lesson teaches supervised learning concepts step by step ", 10)
}

func TestProcessHappyPath(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"is_educational": true, "confidence": 0.9, "reasoning": "lecture"}`,
		`{"flashcards": [{"question": "What is ML?", "answer": "Learning from data.", "category": "ML", "difficulty": "easy"}]}`,
	}}
	p := NewProcessor(newFakeYouTube(t, longTranscript()), llm, logging.NewNop())

	set, err := p.Process(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if set.ID != "set_dQw4w9WgXcQ" {
		t.Fatalf("unexpected set id %q", set.ID)
	}
	if set.TotalCards != 1 || set.Cards[0].Question != "What is ML?" {
		t.Fatalf("unexpected set %+v", set)
	}
	if set.VideoTitle != "Machine Learning 101" {
		t.Fatalf("unexpected video title %q", set.VideoTitle)
	}
}

func TestProcessRejectsNonEducational(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"is_educational": false, "confidence": 0.8, "reasoning": "gaming stream"}`,
	}}
	p := NewProcessor(newFakeYouTube(t, longTranscript()), llm, logging.NewNop())
	_, err := p.Process(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	if !errors.Is(err, ErrNotEducational) {
		t.Fatalf("expected ErrNotEducational, got %v", err)
	}
}

func TestProcessRejectsShortTranscript(t *testing.T) {
	p := NewProcessor(newFakeYouTube(t, "too short"), &scriptedLLM{}, logging.NewNop())
	_, err := p.Process(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestProcessRejectsBadURL(t *testing.T) {
	p := NewProcessor(NewClient(), &scriptedLLM{}, logging.NewNop())
	if _, err := p.Process(context.Background(), "https://example.com/nope", "en"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestKeywordGateFallback(t *testing.T) {
	if !keywordGate("learn this tutorial lesson about concepts") {
		t.Fatal("expected keyword gate to pass educational text")
	}
	if keywordGate("cat video compilation") {
		t.Fatal("expected keyword gate to reject non-educational text")
	}
}
