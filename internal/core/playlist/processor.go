package playlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/profai/profai-backend/internal/core/flashcards"
	"github.com/profai/profai-backend/internal/core/youtube"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/pkg/types"
)

// ContentGenerator is the slice of the LLM client curriculum building needs.
type ContentGenerator interface {
	Chat(ctx context.Context, system string, history []types.Message, text string) (string, error)
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// CurriculumStore persists curricula between requests.
type CurriculumStore interface {
	Save(cur *types.PlaylistCurriculum) error
	Get(id string) (*types.PlaylistCurriculum, error)
	List() ([]types.CurriculumSummary, error)
	Delete(id string) error
	SetChapterCompleted(curriculumID, chapterID string, completed bool, completedAt string) error
	TouchLastAccessed(id, ts string) error
}

// ErrInvalidPlaylistURL marks URLs no playlist ID could be extracted from.
var ErrInvalidPlaylistURL = errors.New("invalid YouTube playlist URL format")

// maxChapters caps how many playlist videos get turned into chapters.
// Each chapter costs two LLM calls, so long playlists are truncated.
const maxChapters = 10

// Processor turns a YouTube playlist into a structured curriculum with
// per-chapter study notes and flashcards.
type Processor struct {
	yt    *youtube.Client
	llm   ContentGenerator
	store CurriculumStore
	log   *logging.Logger
	now   func() time.Time
}

func NewProcessor(yt *youtube.Client, llm ContentGenerator, store CurriculumStore, log *logging.Logger) *Processor {
	return &Processor{yt: yt, llm: llm, store: store, log: log, now: time.Now}
}

const notesSystem = "You are ProfAI, an AI professor. You write clear, well-structured markdown study notes for video lessons."

const cardsSystem = "You are ProfAI, an AI professor. You create concise study flashcards for video lessons."

// Process builds and stores a curriculum from a playlist URL. Videos that
// fail metadata lookup are skipped rather than failing the whole playlist.
func (p *Processor) Process(ctx context.Context, playlistURL, language string) (*types.PlaylistCurriculum, error) {
	playlistID, ok := youtube.ExtractPlaylistID(playlistURL)
	if !ok {
		return nil, ErrInvalidPlaylistURL
	}

	info, err := p.yt.PlaylistInfo(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve playlist information: %w", err)
	}
	videoIDs, err := p.yt.PlaylistItems(ctx, playlistID, maxChapters)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve playlist videos: %w", err)
	}
	if len(videoIDs) == 0 {
		return nil, errors.New("playlist contains no videos")
	}
	p.log.Info("processing playlist", "playlist_id", playlistID, "videos", len(videoIDs))

	now := p.now().UTC().Format(time.RFC3339)
	cur := &types.PlaylistCurriculum{
		ID:           "curriculum_" + playlistID,
		Title:        info.Title,
		Description:  "Curriculum generated from YouTube playlist: " + info.Title,
		PlaylistURL:  playlistURL,
		Creator:      info.Author,
		CreatedAt:    now,
		LastAccessed: now,
	}

	for i, videoID := range videoIDs {
		ch, err := p.buildChapter(ctx, videoID, language, i+1)
		if err != nil {
			p.log.Warn("skipping playlist video", "video_id", videoID, "error", err)
			continue
		}
		cur.Chapters = append(cur.Chapters, ch)
	}
	if len(cur.Chapters) == 0 {
		return nil, errors.New("no playlist videos could be processed")
	}
	cur.TotalChapters = len(cur.Chapters)

	if err := p.store.Save(cur); err != nil {
		return nil, err
	}
	p.log.Info("curriculum created", "curriculum_id", cur.ID, "chapters", cur.TotalChapters)
	return cur, nil
}

func (p *Processor) buildChapter(ctx context.Context, videoID, language string, order int) (types.Chapter, error) {
	info, err := p.yt.Info(ctx, videoID)
	if err != nil {
		return types.Chapter{}, err
	}
	transcript, err := p.yt.Transcript(ctx, videoID, language)
	if err != nil {
		p.log.Warn("transcript fetch failed", "video_id", videoID, "error", err)
		transcript = ""
	}

	ch := types.Chapter{
		ID:       uuid.NewString(),
		Title:    info.Title,
		VideoURL: info.VideoURL,
		VideoID:  videoID,
		Order:    order,
	}

	// Notes and flashcards fall back to the title when no captions exist,
	// matching the chapter-even-without-transcript behavior elsewhere.
	source := transcript
	if source == "" {
		source = "Title: " + info.Title
	}
	notes, err := p.generateNotes(ctx, info.Title, source)
	if err != nil {
		p.log.Warn("note generation failed", "video_id", videoID, "error", err)
		notes = "Failed to generate notes for this chapter."
	}
	ch.Notes = notes
	ch.Flashcards = p.generateCards(ctx, info.Title, source)
	return ch, nil
}

func (p *Processor) generateNotes(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf(`Create comprehensive study notes for this video chapter titled %q.

Video Content:
%s

Include main concepts, important definitions, step-by-step explanations where
applicable, examples, and a summary of key takeaways. Format the notes in
markdown with clear headers and bullet points. If the content is limited,
build educational context around the topic suggested by the title.`,
		title, truncate(content, 3000))
	return p.llm.Chat(ctx, notesSystem, nil, prompt)
}

func (p *Processor) generateCards(ctx context.Context, title, content string) []types.Flashcard {
	prompt := fmt.Sprintf(`Create 6-10 educational flashcards for this video chapter titled %q.

Video Content:
%s

Cover key concepts, definitions, facts, and applications.
Respond with ONLY JSON:
{"flashcards": [{"question": "...", "answer": "...", "category": "General", "difficulty": "medium", "tags": ["..."]}]}
Keep answers under 200 characters.`, title, truncate(content, 3000))

	raw, err := p.llm.GenerateJSON(ctx, cardsSystem, prompt)
	if err != nil {
		p.log.Warn("chapter flashcard generation failed", "chapter", title, "error", err)
		return nil
	}
	return flashcards.ParseFromResponse(raw, title)
}

// UpdateChapterProgress flips one chapter's completion flag and refreshes
// the curriculum's last-accessed timestamp.
func (p *Processor) UpdateChapterProgress(curriculumID, chapterID string, completed bool) error {
	now := p.now().UTC().Format(time.RFC3339)
	if err := p.store.SetChapterCompleted(curriculumID, chapterID, completed, now); err != nil {
		return err
	}
	return p.store.TouchLastAccessed(curriculumID, now)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
