// Package client is the Go consumer of the ProfAI REST surface. The
// session, tracker, monitor, and quiz packages are built on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/profai/profai-backend/pkg/types"
)

type Client struct {
	BaseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError carries the HTTP status and the server's error string.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Body)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Ask sends a text question.
func (c *Client) Ask(ctx context.Context, req types.AskReq) (types.AskResp, error) {
	var resp types.AskResp
	err := c.postJSON(ctx, "/ask", req, &resp)
	return resp, err
}

// VoiceChat uploads a recorded audio clip for transcription and reply.
func (c *Client) VoiceChat(ctx context.Context, audio []byte, mime, language string) (types.VoiceChatResp, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("audio_file", "recording")
	if err != nil {
		return types.VoiceChatResp{}, err
	}
	if _, err := part.Write(audio); err != nil {
		return types.VoiceChatResp{}, err
	}
	if err := w.Close(); err != nil {
		return types.VoiceChatResp{}, err
	}
	endpoint := c.BaseURL + "/voice-chat"
	if language != "" {
		endpoint += "?language=" + url.QueryEscape(language)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return types.VoiceChatResp{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	var resp types.VoiceChatResp
	err = c.do(req, &resp)
	return resp, err
}

// Synthesize converts text to speech, returning the audio path.
func (c *Client) Synthesize(ctx context.Context, text, language string) (types.TTSResp, error) {
	var resp types.TTSResp
	err := c.postJSON(ctx, "/tts", types.TTSReq{Text: text, PlayAudio: true, Language: language}, &resp)
	return resp, err
}

// Curriculum fetches the lesson catalog.
func (c *Client) Curriculum(ctx context.Context, learningPath, subject string) (types.CurriculumResp, error) {
	q := url.Values{}
	if learningPath != "" {
		q.Set("learning_path", learningPath)
	}
	if subject != "" {
		q.Set("subject", subject)
	}
	var resp types.CurriculumResp
	err := c.get(ctx, "/curriculum?"+q.Encode(), &resp)
	return resp, err
}

// ProcessVideo ingests a YouTube video into a flashcard set.
func (c *Client) ProcessVideo(ctx context.Context, videoURL, language string) (types.YouTubeProcessResp, error) {
	var resp types.YouTubeProcessResp
	err := c.postJSON(ctx, "/youtube/process", types.YouTubeProcessReq{URL: videoURL, Language: language}, &resp)
	return resp, err
}

// FlashcardSets lists stored set summaries.
func (c *Client) FlashcardSets(ctx context.Context) ([]types.FlashcardSetSummary, error) {
	var resp struct {
		Sets []types.FlashcardSetSummary `json:"sets"`
	}
	err := c.get(ctx, "/flashcards/sets", &resp)
	return resp.Sets, err
}

// FlashcardSet fetches one set with all cards.
func (c *Client) FlashcardSet(ctx context.Context, id string) (types.FlashcardSet, error) {
	var resp types.FlashcardSet
	err := c.get(ctx, "/flashcards/sets/"+url.PathEscape(id), &resp)
	return resp, err
}

// DeleteFlashcardSet removes a set.
func (c *Client) DeleteFlashcardSet(ctx context.Context, id string) error {
	return c.delete(ctx, "/flashcards/sets/"+url.PathEscape(id))
}

// DueFlashcards fetches the cards most in need of review.
func (c *Client) DueFlashcards(ctx context.Context, setID string, limit int) ([]types.Flashcard, error) {
	var resp struct {
		Due []types.Flashcard `json:"due"`
	}
	path := "/flashcards/sets/" + url.PathEscape(setID) + "/due"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	err := c.get(ctx, path, &resp)
	return resp.Due, err
}

// UpdateFlashcardStatus moves a card through the mastery ladder.
func (c *Client) UpdateFlashcardStatus(ctx context.Context, setID, cardID, status string) error {
	path := "/flashcards/sets/" + url.PathEscape(setID) + "/cards/" + url.PathEscape(cardID) + "/status"
	return c.putJSON(ctx, path, types.UpdateCardStatusReq{Status: status}, nil)
}

// ProcessPlaylist builds a curriculum from a playlist URL.
func (c *Client) ProcessPlaylist(ctx context.Context, playlistURL string) (types.PlaylistProcessResp, error) {
	var resp types.PlaylistProcessResp
	err := c.postJSON(ctx, "/playlist/process", types.PlaylistProcessReq{PlaylistURL: playlistURL}, &resp)
	return resp, err
}

// Curricula lists stored curriculum summaries.
func (c *Client) Curricula(ctx context.Context) ([]types.CurriculumSummary, error) {
	var resp struct {
		Curricula []types.CurriculumSummary `json:"curricula"`
	}
	err := c.get(ctx, "/playlist/curricula", &resp)
	return resp.Curricula, err
}

// CurriculumDetail fetches one curriculum with all chapters.
func (c *Client) CurriculumDetail(ctx context.Context, id string) (types.PlaylistCurriculum, error) {
	var resp types.PlaylistCurriculum
	err := c.get(ctx, "/playlist/curriculum/"+url.PathEscape(id), &resp)
	return resp, err
}

// UpdateChapterProgress marks a chapter complete or not and returns the
// refreshed curriculum.
func (c *Client) UpdateChapterProgress(ctx context.Context, curriculumID, chapterID string, completed bool) (types.PlaylistCurriculum, error) {
	path := "/playlist/curriculum/" + url.PathEscape(curriculumID) +
		"/chapter/" + url.PathEscape(chapterID) + "/progress"
	var resp types.PlaylistCurriculum
	err := c.putJSON(ctx, path, types.ChapterProgressReq{Completed: completed}, &resp)
	return resp, err
}

// GenerateQuiz requests a quiz for chapter content.
func (c *Client) GenerateQuiz(ctx context.Context, req types.GenerateQuizReq) (types.GenerateQuizResp, error) {
	var resp types.GenerateQuizResp
	err := c.postJSON(ctx, "/generate-quiz", req, &resp)
	return resp, err
}

// SubmitQuiz grades an answer sheet.
func (c *Client) SubmitQuiz(ctx context.Context, req types.SubmitQuizReq) (types.SubmitQuizResp, error) {
	var resp types.SubmitQuizResp
	err := c.postJSON(ctx, "/submit-quiz", req, &resp)
	return resp, err
}

// DetectConfusion analyzes a frame plus reading context.
func (c *Client) DetectConfusion(ctx context.Context, req types.DetectConfusionReq) (types.DetectConfusionResp, error) {
	var resp types.DetectConfusionResp
	err := c.postJSON(ctx, "/detect-confusion", req, &resp)
	return resp, err
}
