package devfake

import (
	"context"
	"fmt"

	"github.com/profai/profai-backend/pkg/types"
)

// Client is a canned-response language model for local development, wired
// in when PROFAI_DEV_FAKE is set so the app runs without API keys.
type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Chat(ctx context.Context, system string, history []types.Message, text string) (string, error) {
	return fmt.Sprintf("[dev-fake] You asked: %q. Imagine a thorough, patient explanation here.", text), nil
}

func (c *Client) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return `{"flashcards": [
		{"question": "What does the dev fake mode do?", "answer": "Returns canned responses so the app runs without API keys.", "category": "General", "difficulty": "easy", "tags": ["dev"]}
	],
	"questions": [
		{"id": "q1", "question": "Which mode is active right now?", "options": ["Production", "Dev fake", "Staging", "Unknown"], "correct_answer": 1, "explanation": "Canned responses are served locally.", "difficulty": "easy", "concepts": ["general"]}
	],
	"is_educational": true, "confidence": 0.9, "reasoning": "dev fake always approves"}`, nil
}

func (c *Client) AnalyzeImage(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	return `{"confusion_level": 0.2, "attention_level": 0.8, "indicators": []}`, nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, mime, language string) (string, error) {
	return "[dev-fake] transcribed speech", nil
}

func (c *Client) Close() error { return nil }
