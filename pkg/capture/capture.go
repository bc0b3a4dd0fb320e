// Package capture models microphone recording and webcam frame capture as
// scoped resources: acquired on start, released on every exit path.
package capture

import (
	"context"
	"errors"
	"io"
	"sync"
)

// ErrPermissionDenied is returned by device sources when the user refused
// access. Callers treat it differently from transient failures.
var ErrPermissionDenied = errors.New("media device permission denied")

// Microphone opens an audio stream. Implementations wrap a real input
// device; tests use in-memory fakes.
type Microphone interface {
	Open(ctx context.Context) (AudioStream, error)
}

// AudioStream delivers recorded chunks. Read returns io.EOF when the
// stream is closed.
type AudioStream interface {
	Read() ([]byte, error)
	Close() error
}

// Camera opens a frame source.
type Camera interface {
	Open(ctx context.Context) (FrameSource, error)
}

// FrameSource captures single frames, encoded as base64 data URLs.
type FrameSource interface {
	Frame(ctx context.Context) (string, error)
	Close() error
}

// Recorder assembles microphone chunks into one clip. Start acquires the
// device, Stop releases it and returns the assembled audio; the device is
// released on every path out of the start/stop pair.
type Recorder struct {
	mic Microphone

	mu     sync.Mutex
	stream AudioStream
	chunks [][]byte
	done   chan struct{}
}

func NewRecorder(mic Microphone) *Recorder {
	return &Recorder{mic: mic}
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream != nil
}

// Start acquires the microphone and begins collecting chunks.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream != nil {
		return errors.New("recording already in progress")
	}
	stream, err := r.mic.Open(ctx)
	if err != nil {
		return err
	}
	r.stream = stream
	r.chunks = nil
	r.done = make(chan struct{})
	go r.collect(stream, r.done)
	return nil
}

func (r *Recorder) collect(stream AudioStream, done chan struct{}) {
	defer close(done)
	for {
		chunk, err := stream.Read()
		if len(chunk) > 0 {
			r.mu.Lock()
			r.chunks = append(r.chunks, chunk)
			r.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Stop releases the microphone and returns the assembled clip. Calling
// Stop without a recording in progress is an error.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	stream := r.stream
	done := r.done
	r.stream = nil
	r.mu.Unlock()
	if stream == nil {
		return nil, errors.New("no recording in progress")
	}
	closeErr := stream.Close()
	<-done

	r.mu.Lock()
	var size int
	for _, c := range r.chunks {
		size += len(c)
	}
	blob := make([]byte, 0, size)
	for _, c := range r.chunks {
		blob = append(blob, c...)
	}
	r.chunks = nil
	r.mu.Unlock()

	if closeErr != nil && !errors.Is(closeErr, io.EOF) {
		return blob, closeErr
	}
	return blob, nil
}

// WithFrame acquires the camera, captures a single frame, and releases the
// device whether or not fn succeeds.
func WithFrame(ctx context.Context, cam Camera, fn func(frame string) error) error {
	src, err := cam.Open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()
	frame, err := src.Frame(ctx)
	if err != nil {
		return err
	}
	return fn(frame)
}
