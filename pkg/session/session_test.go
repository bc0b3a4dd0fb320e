package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/profai/profai-backend/pkg/types"
)

type fakeBackend struct {
	mu      sync.Mutex
	answers map[string]types.AskResp
	err     error
	release chan struct{} // when set, Ask blocks until closed
	voice   types.VoiceChatResp
}

func (f *fakeBackend) Ask(ctx context.Context, req types.AskReq) (types.AskResp, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return types.AskResp{}, f.err
	}
	if resp, ok := f.answers[req.Text]; ok {
		return resp, nil
	}
	return types.AskResp{Answer: "answer to: " + req.Text}, nil
}

func (f *fakeBackend) VoiceChat(ctx context.Context, audio []byte, mime, language string) (types.VoiceChatResp, error) {
	if f.err != nil {
		return types.VoiceChatResp{}, f.err
	}
	return f.voice, nil
}

func TestSubmitTextAppendsUserThenAITurn(t *testing.T) {
	s := New(&fakeBackend{}, Options{})
	defer s.Close()

	s.SubmitText(context.Background(), "What is machine learning?")
	s.Wait()

	turns := s.Turns()
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Content != "What is machine learning?" {
		t.Errorf("user turn = %+v", turns[0])
	}
	if turns[1].Role != RoleAI || turns[1].Content == "" {
		t.Errorf("ai turn = %+v", turns[1])
	}
}

func TestBackendFailureLeavesOnlyUserTurn(t *testing.T) {
	s := New(&fakeBackend{err: errors.New("network down")}, Options{})
	defer s.Close()

	s.SubmitText(context.Background(), "hello")
	s.Wait()

	turns := s.Turns()
	if len(turns) != 1 || turns[0].Role != RoleUser {
		t.Fatalf("turns = %+v, want single user turn", turns)
	}
}

func TestAudioReadyWhenPathReturned(t *testing.T) {
	b := &fakeBackend{answers: map[string]types.AskResp{
		"q": {Answer: "a", AudioPath: "/audio/x.mp3"},
	}}
	s := New(b, Options{PlayAudio: true})
	defer s.Close()

	s.SubmitText(context.Background(), "q")
	s.Wait()

	turns := s.Turns()
	if turns[1].AudioState != AudioReady || turns[1].AudioRef != "/audio/x.mp3" {
		t.Errorf("ai turn audio = %v %q", turns[1].AudioState, turns[1].AudioRef)
	}
}

func TestAudioUnavailableAfterGrace(t *testing.T) {
	s := New(&fakeBackend{}, Options{PlayAudio: true, AudioGrace: 100 * time.Millisecond})
	defer s.Close()

	s.SubmitText(context.Background(), "q")
	s.Wait()

	if st := s.Turns()[1].AudioState; st != AudioPending {
		t.Fatalf("state right after reply = %v, want pending", st)
	}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Turns()[1].AudioState == AudioUnavailable {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("audio never settled as unavailable")
}

func TestAudioStateMonotonic(t *testing.T) {
	s := New(&fakeBackend{}, Options{PlayAudio: true, AudioGrace: 10 * time.Millisecond})
	defer s.Close()

	reqID := s.SubmitText(context.Background(), "q")
	s.Wait()

	// Let the grace timer settle the turn as unavailable, then try to
	// flip it back with a late audio reference.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && s.Turns()[1].AudioState != AudioUnavailable {
		time.Sleep(5 * time.Millisecond)
	}
	s.AttachAudio(reqID, "/audio/late.mp3")

	if st := s.Turns()[1].AudioState; st != AudioUnavailable {
		t.Errorf("state = %v, late audio must not revert a settled turn", st)
	}
}

func TestAttachAudioBeforeGrace(t *testing.T) {
	s := New(&fakeBackend{}, Options{PlayAudio: true, AudioGrace: time.Hour})
	defer s.Close()

	reqID := s.SubmitText(context.Background(), "q")
	s.Wait()
	s.AttachAudio(reqID, "/audio/ok.mp3")

	turn := s.Turns()[1]
	if turn.AudioState != AudioReady || turn.AudioRef != "/audio/ok.mp3" {
		t.Errorf("turn = %+v", turn)
	}
}

func TestOverlappingRepliesKeepSendOrder(t *testing.T) {
	release := make(chan struct{})
	b := &fakeBackend{release: release}
	s := New(b, Options{})
	defer s.Close()

	// Two submissions in flight at once; both replies arrive afterward.
	s.SubmitText(context.Background(), "first")
	s.SubmitText(context.Background(), "second")
	close(release)
	s.Wait()

	turns := s.Turns()
	if len(turns) != 4 {
		t.Fatalf("got %d turns, want 4", len(turns))
	}
	want := []struct{ role, content string }{
		{RoleUser, "first"},
		{RoleAI, "answer to: first"},
		{RoleUser, "second"},
		{RoleAI, "answer to: second"},
	}
	for i, w := range want {
		if turns[i].Role != w.role || turns[i].Content != w.content {
			t.Errorf("turn %d = %s %q, want %s %q", i, turns[i].Role, turns[i].Content, w.role, w.content)
		}
	}
}

func TestSubmitAudioFillsTranscription(t *testing.T) {
	b := &fakeBackend{voice: types.VoiceChatResp{
		Transcription:   "what is a tensor",
		Response:        "a multidimensional array",
		AudioURL:        "/audio/v.mp3",
		DetectedEmotion: "curious",
	}}
	s := New(b, Options{PlayAudio: true})
	defer s.Close()

	s.SubmitAudio(context.Background(), []byte("blob"), "audio/webm")
	s.Wait()

	turns := s.Turns()
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Content != "what is a tensor" || turns[0].Emotion != "curious" {
		t.Errorf("user turn = %+v", turns[0])
	}
	if turns[1].Content != "a multidimensional array" || turns[1].AudioState != AudioReady {
		t.Errorf("ai turn = %+v", turns[1])
	}
}

func TestCloseCancelsGraceTimers(t *testing.T) {
	s := New(&fakeBackend{}, Options{PlayAudio: true, AudioGrace: 200 * time.Millisecond})

	s.SubmitText(context.Background(), "q")
	s.Wait()
	s.Close()

	time.Sleep(300 * time.Millisecond)
	// The turn stays pending forever: the timer died with the session,
	// so nothing mutates state after teardown.
	if st := s.Turns()[1].AudioState; st != AudioPending {
		t.Errorf("state after close = %v, want pending", st)
	}
}
