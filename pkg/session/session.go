// Package session maintains an ordered conversation transcript and the
// audio lifecycle of each turn.
package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/profai/profai-backend/pkg/types"
)

// AudioState is the speech lifecycle of a turn. It only ever moves
// forward: pending turns settle as ready or unavailable and never revert.
type AudioState int

const (
	AudioAbsent AudioState = iota
	AudioPending
	AudioReady
	AudioUnavailable
)

func (s AudioState) String() string {
	switch s {
	case AudioPending:
		return "pending"
	case AudioReady:
		return "ready"
	case AudioUnavailable:
		return "unavailable"
	default:
		return "absent"
	}
}

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Turn is one message in the transcript.
type Turn struct {
	RequestID  string
	Role       string
	Content    string
	AudioState AudioState
	AudioRef   string
	Emotion    string
}

// Backend is the slice of the API client the session needs.
type Backend interface {
	Ask(ctx context.Context, req types.AskReq) (types.AskResp, error)
	VoiceChat(ctx context.Context, audio []byte, mime, language string) (types.VoiceChatResp, error)
}

// Options tune a session. Zero values mean text-only English chat with the
// default audio grace period.
type Options struct {
	LearningPath   string
	DeliveryFormat string
	Language       string
	PlayAudio      bool

	// AudioGrace is how long a pending turn waits for an audio reference
	// before settling as unavailable.
	AudioGrace time.Duration
}

const defaultAudioGrace = 2 * time.Second

// Session owns the transcript. Submissions append a user turn right away;
// the AI turn is inserted directly after its own user turn when the
// response arrives, so overlapping submissions cannot interleave replies
// out of send order.
type Session struct {
	backend Backend
	opts    Options

	mu      sync.Mutex
	turns   []Turn
	nextReq int64
	timers  map[string]*time.Timer
	closed  bool

	// OnUpdate, when set before first use, is called after every
	// transcript mutation.
	OnUpdate func()

	wg sync.WaitGroup
}

func New(backend Backend, opts Options) *Session {
	if opts.AudioGrace <= 0 {
		opts.AudioGrace = defaultAudioGrace
	}
	return &Session{
		backend: backend,
		opts:    opts,
		timers:  map[string]*time.Timer{},
	}
}

// Turns returns a snapshot of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// SubmitText appends a user turn and requests a reply in the background.
// It returns the request ID tying the eventual AI turn to this call.
func (s *Session) SubmitText(ctx context.Context, text string) string {
	s.mu.Lock()
	reqID := s.newRequestID()
	history := s.historyLocked()
	s.turns = append(s.turns, Turn{RequestID: reqID, Role: RoleUser, Content: text})
	s.mu.Unlock()
	s.notify()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		resp, err := s.backend.Ask(ctx, types.AskReq{
			Text:                text,
			PlayAudio:           s.opts.PlayAudio,
			LearningPath:        s.opts.LearningPath,
			DeliveryFormat:      s.opts.DeliveryFormat,
			Language:            s.opts.Language,
			ConversationHistory: history,
		})
		if err != nil {
			// The user turn stays; the failure is surfaced by the
			// absence of a reply, matching the no-retry contract.
			return
		}
		s.insertAITurn(reqID, resp.Answer, resp.AudioPath, "")
	}()
	return reqID
}

// SubmitAudio appends a placeholder user turn, uploads the clip, and
// fills in the transcription when it arrives.
func (s *Session) SubmitAudio(ctx context.Context, audio []byte, mime string) string {
	s.mu.Lock()
	reqID := s.newRequestID()
	s.turns = append(s.turns, Turn{RequestID: reqID, Role: RoleUser, Content: "(voice message)"})
	s.mu.Unlock()
	s.notify()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		resp, err := s.backend.VoiceChat(ctx, audio, mime, s.opts.Language)
		if err != nil {
			return
		}
		s.mu.Lock()
		if i := s.indexOfLocked(reqID, RoleUser); i >= 0 && resp.Transcription != "" {
			s.turns[i].Content = resp.Transcription
			s.turns[i].Emotion = resp.DetectedEmotion
		}
		s.mu.Unlock()
		s.notify()
		s.insertAITurn(reqID, resp.Response, resp.AudioURL, resp.DetectedEmotion)
	}()
	return reqID
}

// AttachAudio delivers an audio reference for a pending AI turn, for
// flows that synthesize speech in a separate call. It is a no-op once the
// turn has settled.
func (s *Session) AttachAudio(requestID, audioRef string) {
	s.mu.Lock()
	i := s.indexOfLocked(requestID, RoleAI)
	if i >= 0 && s.turns[i].AudioState == AudioPending {
		s.turns[i].AudioState = AudioReady
		s.turns[i].AudioRef = audioRef
		s.stopTimerLocked(requestID)
	}
	s.mu.Unlock()
	s.notify()
}

// Wait blocks until all in-flight submissions have settled their turns.
// Audio grace timers may still be pending.
func (s *Session) Wait() { s.wg.Wait() }

// Close cancels outstanding audio grace timers so nothing fires after the
// owning view is gone. In-flight submissions still append their turns.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
}

// insertAITurn places the reply directly after its own user turn and
// starts the audio lifecycle.
func (s *Session) insertAITurn(reqID, content, audioRef, emotion string) {
	turn := Turn{RequestID: reqID, Role: RoleAI, Content: content, Emotion: emotion}
	switch {
	case !s.opts.PlayAudio && audioRef == "":
		turn.AudioState = AudioAbsent
	case audioRef != "":
		turn.AudioState = AudioReady
		turn.AudioRef = audioRef
	default:
		turn.AudioState = AudioPending
	}

	s.mu.Lock()
	i := s.indexOfLocked(reqID, RoleUser)
	if i < 0 {
		i = len(s.turns) - 1
	}
	s.turns = append(s.turns, Turn{})
	copy(s.turns[i+2:], s.turns[i+1:])
	s.turns[i+1] = turn

	if turn.AudioState == AudioPending && !s.closed {
		s.timers[reqID] = time.AfterFunc(s.opts.AudioGrace, func() { s.audioTimeout(reqID) })
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) audioTimeout(reqID string) {
	s.mu.Lock()
	i := s.indexOfLocked(reqID, RoleAI)
	if i >= 0 && s.turns[i].AudioState == AudioPending {
		s.turns[i].AudioState = AudioUnavailable
	}
	delete(s.timers, reqID)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) newRequestID() string {
	s.nextReq++
	return "req-" + strconv.FormatInt(s.nextReq, 10)
}

func (s *Session) indexOfLocked(reqID, role string) int {
	for i, t := range s.turns {
		if t.RequestID == reqID && t.Role == role {
			return i
		}
	}
	return -1
}

func (s *Session) stopTimerLocked(reqID string) {
	if t, ok := s.timers[reqID]; ok {
		t.Stop()
		delete(s.timers, reqID)
	}
}

func (s *Session) historyLocked() []types.Message {
	out := make([]types.Message, 0, len(s.turns))
	for _, t := range s.turns {
		role := "user"
		if t.Role == RoleAI {
			role = "assistant"
		}
		out = append(out, types.Message{Role: role, Content: t.Content})
	}
	return out
}

func (s *Session) notify() {
	if s.OnUpdate != nil {
		s.OnUpdate()
	}
}
