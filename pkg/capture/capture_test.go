package capture

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
)

type fakeStream struct {
	mu     sync.Mutex
	chunks [][]byte
	closed bool
}

func (s *fakeStream) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) == 0 {
		return nil, io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type fakeMic struct {
	stream *fakeStream
	err    error
	opens  int
}

func (m *fakeMic) Open(ctx context.Context) (AudioStream, error) {
	m.opens++
	if m.err != nil {
		return nil, m.err
	}
	return m.stream, nil
}

func TestRecorderAssemblesChunks(t *testing.T) {
	mic := &fakeMic{stream: &fakeStream{chunks: [][]byte{[]byte("ab"), []byte("cd"), []byte("e")}}}
	r := NewRecorder(mic)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !r.Recording() {
		t.Error("Recording() = false during capture")
	}
	blob, err := r.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if string(blob) != "abcde" {
		t.Errorf("blob = %q, want %q", blob, "abcde")
	}
	if r.Recording() {
		t.Error("Recording() = true after stop")
	}
	if !mic.stream.closed {
		t.Error("stream not released on stop")
	}
}

func TestRecorderRejectsDoubleStart(t *testing.T) {
	mic := &fakeMic{stream: &fakeStream{}}
	r := NewRecorder(mic)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Start(context.Background()); err == nil {
		t.Error("second start should fail")
	}
	if mic.opens != 1 {
		t.Errorf("device opened %d times, want 1", mic.opens)
	}
	r.Stop()
}

func TestRecorderStopWithoutStart(t *testing.T) {
	r := NewRecorder(&fakeMic{stream: &fakeStream{}})
	if _, err := r.Stop(); err == nil {
		t.Error("stop without start should fail")
	}
}

func TestRecorderPermissionDenied(t *testing.T) {
	r := NewRecorder(&fakeMic{err: ErrPermissionDenied})
	err := r.Start(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if r.Recording() {
		t.Error("recorder must stay idle after denied start")
	}
}

type fakeFrameSource struct {
	frame  string
	err    error
	closed bool
}

func (f *fakeFrameSource) Frame(ctx context.Context) (string, error) { return f.frame, f.err }
func (f *fakeFrameSource) Close() error                              { f.closed = true; return nil }

type fakeCamera struct {
	src *fakeFrameSource
	err error
}

func (c *fakeCamera) Open(ctx context.Context) (FrameSource, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.src, nil
}

func TestWithFrameReleasesOnSuccess(t *testing.T) {
	src := &fakeFrameSource{frame: "data:image/jpeg;base64,xx"}
	cam := &fakeCamera{src: src}
	var got string
	err := WithFrame(context.Background(), cam, func(frame string) error {
		got = frame
		return nil
	})
	if err != nil {
		t.Fatalf("with frame: %v", err)
	}
	if got != src.frame {
		t.Errorf("frame = %q", got)
	}
	if !src.closed {
		t.Error("camera not released on success path")
	}
}

func TestWithFrameReleasesOnError(t *testing.T) {
	src := &fakeFrameSource{frame: "x"}
	cam := &fakeCamera{src: src}
	wantErr := errors.New("boom")
	err := WithFrame(context.Background(), cam, func(string) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	if !src.closed {
		t.Error("camera not released on error path")
	}
}
