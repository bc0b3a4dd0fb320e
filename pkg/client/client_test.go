package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/profai/profai-backend/pkg/types"
)

func TestAskRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ask" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req types.AskReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(types.AskResp{Answer: "echo: " + req.Text, AudioPath: "/audio/a.mp3"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Ask(context.Background(), types.AskReq{Text: "hi", PlayAudio: true})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Answer != "echo: hi" || resp.AudioPath != "/audio/a.mp3" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestErrorStatusSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "not_found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FlashcardSet(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err type = %T", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("status = %d", apiErr.Status)
	}
}

func TestVoiceChatSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("audio_file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		file.Close()
		if lang := r.URL.Query().Get("language"); lang != "en" {
			t.Errorf("language = %q", lang)
		}
		json.NewEncoder(w).Encode(types.VoiceChatResp{Transcription: "hello", Response: "hi"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.VoiceChat(context.Background(), []byte("audio-bytes"), "audio/webm", "en")
	if err != nil {
		t.Fatalf("voice chat: %v", err)
	}
	if resp.Transcription != "hello" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestUpdateChapterProgressPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(types.PlaylistCurriculum{ID: "cur1", CompletedChapters: 1})
	}))
	defer srv.Close()

	c := New(srv.URL)
	cur, err := c.UpdateChapterProgress(context.Background(), "cur1", "ch2", true)
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if gotPath != "/playlist/curriculum/cur1/chapter/ch2/progress" {
		t.Errorf("path = %q", gotPath)
	}
	if cur.CompletedChapters != 1 {
		t.Errorf("curriculum = %+v", cur)
	}
}
