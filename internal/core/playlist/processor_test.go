package playlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/profai/profai-backend/internal/core/youtube"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/pkg/types"
)

type fakeLLM struct {
	notes string
	cards string
}

func (f *fakeLLM) Chat(ctx context.Context, system string, history []types.Message, text string) (string, error) {
	return f.notes, nil
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return f.cards, nil
}

type memStore struct {
	saved *types.PlaylistCurriculum
}

func (m *memStore) Save(cur *types.PlaylistCurriculum) error        { m.saved = cur; return nil }
func (m *memStore) Get(id string) (*types.PlaylistCurriculum, error) { return m.saved, nil }
func (m *memStore) List() ([]types.CurriculumSummary, error)         { return nil, nil }
func (m *memStore) Delete(id string) error                           { return nil }
func (m *memStore) SetChapterCompleted(curriculumID, chapterID string, completed bool, completedAt string) error {
	for i := range m.saved.Chapters {
		if m.saved.Chapters[i].ID == chapterID {
			m.saved.Chapters[i].Completed = completed
			m.saved.Chapters[i].CompletedAt = completedAt
		}
	}
	return nil
}
func (m *memStore) TouchLastAccessed(id, ts string) error { m.saved.LastAccessed = ts; return nil }

func fakeYouTube(t *testing.T, videoIDs []string) *youtube.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oembed"):
			u := r.URL.Query().Get("url")
			if strings.Contains(u, "playlist") {
				w.Write([]byte(`{"title": "Go Course", "author_name": "ProfAI Channel"}`))
				return
			}
			w.Write([]byte(`{"title": "Lesson Video", "author_name": "ProfAI Channel"}`))
		case strings.HasPrefix(r.URL.Path, "/playlist"):
			var b strings.Builder
			for _, id := range videoIDs {
				// Repeated on purpose, the real page repeats every ID.
				b.WriteString(`"videoId":"` + id + `" "videoId":"` + id + `" `)
			}
			w.Write([]byte(b.String()))
		case strings.HasPrefix(r.URL.Path, "/timedtext"):
			w.Write([]byte(`<transcript><text>Welcome to the lesson about Go interfaces.</text></transcript>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	c := youtube.NewClient()
	c.OEmbedBase = srv.URL + "/oembed"
	c.TimedTextBase = srv.URL + "/timedtext"
	c.PlaylistBase = srv.URL + "/playlist"
	return c
}

func TestProcessBuildsCurriculum(t *testing.T) {
	yt := fakeYouTube(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"})
	llm := &fakeLLM{
		notes: "# Notes\n- key point",
		cards: `{"flashcards": [{"question": "What is an interface?", "answer": "A method set contract"}]}`,
	}
	store := &memStore{}
	p := NewProcessor(yt, llm, store, logging.NewNop())

	cur, err := p.Process(context.Background(), "https://www.youtube.com/playlist?list=PLabc123", "en")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if cur.ID != "curriculum_PLabc123" {
		t.Errorf("curriculum id = %q", cur.ID)
	}
	if cur.Title != "Go Course" || cur.Creator != "ProfAI Channel" {
		t.Errorf("playlist metadata lost: %+v", cur)
	}
	if len(cur.Chapters) != 3 || cur.TotalChapters != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(cur.Chapters))
	}
	ch := cur.Chapters[0]
	if ch.VideoID != "aaaaaaaaaaa" || ch.Order != 1 {
		t.Errorf("chapter ordering wrong: %+v", ch)
	}
	if ch.Notes == "" || len(ch.Flashcards) != 1 {
		t.Errorf("chapter content missing: notes=%q cards=%d", ch.Notes, len(ch.Flashcards))
	}
	if store.saved == nil {
		t.Fatal("curriculum was not persisted")
	}
}

func TestProcessRejectsNonPlaylistURL(t *testing.T) {
	p := NewProcessor(youtube.NewClient(), &fakeLLM{}, &memStore{}, logging.NewNop())
	if _, err := p.Process(context.Background(), "https://www.youtube.com/watch?v=aaaaaaaaaaa", "en"); err == nil {
		t.Fatal("expected error for non-playlist URL")
	}
}

func TestUpdateChapterProgress(t *testing.T) {
	yt := fakeYouTube(t, []string{"aaaaaaaaaaa"})
	store := &memStore{}
	p := NewProcessor(yt, &fakeLLM{cards: "{}"}, store, logging.NewNop())

	cur, err := p.Process(context.Background(), "https://www.youtube.com/playlist?list=PLxyz", "en")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	chID := cur.Chapters[0].ID
	if err := p.UpdateChapterProgress(cur.ID, chID, true); err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if !store.saved.Chapters[0].Completed || store.saved.Chapters[0].CompletedAt == "" {
		t.Errorf("chapter not marked complete: %+v", store.saved.Chapters[0])
	}
	if store.saved.LastAccessed == "" {
		t.Error("last accessed not refreshed")
	}
}
