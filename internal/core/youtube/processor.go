package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/profai/profai-backend/internal/core/flashcards"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/pkg/types"
)

// TextGenerator is the slice of the LLM client ingestion needs.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// ErrNotEducational marks videos rejected by the content gate.
var ErrNotEducational = errors.New("video does not appear to contain educational content")

// ErrNoTranscript marks videos whose captions are missing or too short to
// generate study material from.
var ErrNoTranscript = errors.New("video transcript too short or unavailable")

// Processor turns a single YouTube video into a flashcard set.
type Processor struct {
	yt  *Client
	llm TextGenerator
	log *logging.Logger
}

func NewProcessor(yt *Client, llm TextGenerator, log *logging.Logger) *Processor {
	return &Processor{yt: yt, llm: llm, log: log}
}

const gateSystem = "You classify whether video content is educational and suitable for study flashcards."

type gateResult struct {
	IsEducational bool    `json:"is_educational"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
}

// Process fetches video metadata and transcript, gates on educational
// content, and generates a flashcard set.
func (p *Processor) Process(ctx context.Context, rawURL, language string) (types.FlashcardSet, error) {
	videoID, ok := ExtractVideoID(rawURL)
	if !ok {
		return types.FlashcardSet{}, errors.New("invalid YouTube URL format")
	}

	info, err := p.yt.Info(ctx, videoID)
	if err != nil {
		return types.FlashcardSet{}, err
	}
	transcript, err := p.yt.Transcript(ctx, videoID, language)
	if err != nil {
		p.log.Warn("transcript fetch failed", "video_id", videoID, "error", err)
		transcript = ""
	}
	if len(strings.TrimSpace(transcript)) < 100 {
		return types.FlashcardSet{}, ErrNoTranscript
	}

	educational, err := p.isEducational(ctx, info, transcript)
	if err != nil {
		return types.FlashcardSet{}, err
	}
	if !educational {
		return types.FlashcardSet{}, ErrNotEducational
	}

	cards, err := p.generateCards(ctx, info, transcript, language)
	if err != nil {
		return types.FlashcardSet{}, err
	}
	if len(cards) == 0 {
		return types.FlashcardSet{}, errors.New("failed to generate flashcards from content")
	}

	set := flashcards.NewSet(
		"set_"+videoID,
		"Flashcards: "+info.Title,
		"Generated from YouTube video: "+info.Title,
		info.VideoURL,
		info.Title,
		cards,
	)
	p.log.Info("flashcard set generated", "video_id", videoID, "cards", len(cards))
	return set, nil
}

func (p *Processor) isEducational(ctx context.Context, info VideoInfo, transcript string) (bool, error) {
	prompt := fmt.Sprintf(`Analyze this YouTube video for educational content suitable for flashcards.

Video Title: %s
Uploader: %s
Transcript (first 1000 characters): %s

Does it teach concepts, facts, or skills that can be broken into Q&A form?
Respond with ONLY JSON: {"is_educational": true, "confidence": 0.9, "reasoning": "..."}`,
		info.Title, info.Author, truncate(transcript, 1000))

	raw, err := p.llm.GenerateJSON(ctx, gateSystem, prompt)
	if err != nil {
		return false, fmt.Errorf("educational analysis: %w", err)
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		// Keyword fallback when the model misbehaves.
		return keywordGate(info.Title + " " + transcript), nil
	}
	var res gateResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &res); err != nil {
		return keywordGate(info.Title + " " + transcript), nil
	}
	return res.IsEducational, nil
}

var educationalKeywords = []string{
	"learn", "teach", "education", "tutorial", "lesson", "course",
	"study", "academic", "university", "school", "training",
	"explain", "concept", "theory", "practice", "skill",
}

func keywordGate(content string) bool {
	lower := strings.ToLower(content)
	score := 0
	for _, k := range educationalKeywords {
		if strings.Contains(lower, k) {
			score++
		}
	}
	return score >= 3
}

func (p *Processor) generateCards(ctx context.Context, info VideoInfo, transcript, language string) ([]types.Flashcard, error) {
	prompt := fmt.Sprintf(`Create educational flashcards from this YouTube video content.

Video: %s

Content Transcript:
%s

Create 8-12 flashcards covering the main concepts, facts, and learnings.
Respond with ONLY JSON:
{"flashcards": [{"question": "...", "answer": "...", "category": "General", "difficulty": "medium", "tags": ["..."]}]}
Keep answers under 200 characters.`, info.Title, truncate(transcript, 3000))
	if language != "" && !strings.EqualFold(language, "en") {
		prompt += "\nWrite questions and answers in the language with ISO code: " + language + "."
	}

	raw, err := p.llm.GenerateJSON(ctx, gateSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("flashcard generation: %w", err)
	}
	return flashcards.ParseFromResponse(raw, info.Title), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
