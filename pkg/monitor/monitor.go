// Package monitor runs the background confusion sampler: a fixed-interval
// loop that captures a webcam frame plus the current reading context and
// raises transient advisories when the backend reports confusion.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/profai/profai-backend/pkg/capture"
	"github.com/profai/profai-backend/pkg/types"
)

// State is the monitor lifecycle.
type State int

const (
	// Idle means no camera is held and no timer is armed.
	Idle State = iota
	// CameraArmed means the camera is open and samples fire on the interval.
	CameraArmed
	// Sampling means a capture and API call is in progress.
	Sampling
)

func (s State) String() string {
	switch s {
	case CameraArmed:
		return "camera_armed"
	case Sampling:
		return "sampling"
	default:
		return "idle"
	}
}

// Backend is the slice of the API client the monitor needs.
type Backend interface {
	DetectConfusion(ctx context.Context, req types.DetectConfusionReq) (types.DetectConfusionResp, error)
}

// ContextSource reports what the learner is currently reading: the text
// nearest the viewport center and a 0..1 scroll position.
type ContextSource interface {
	CurrentText() (text string, position float64)
}

// ContextFunc adapts a function to ContextSource.
type ContextFunc func() (string, float64)

func (f ContextFunc) CurrentText() (string, float64) { return f() }

// Advisory is the transient prompt raised on detected confusion.
type Advisory struct {
	Suggestions []string
	Explanation string
	Confidence  float64
	RaisedAt    time.Time
}

// Options tune the monitor. Zero values get the production defaults.
type Options struct {
	Interval     time.Duration // sampling period, default 12s
	DismissAfter time.Duration // advisory auto-dismiss delay, default 15s
	Threshold    float64       // confusion level that raises an advisory, default 0.5
	MaxContext   int           // context text length cap, default 500
}

const (
	defaultInterval     = 12 * time.Second
	defaultDismissAfter = 15 * time.Second
	defaultThreshold    = 0.5
	defaultMaxContext   = 500
)

// Monitor owns its camera handle, its sampling timer, and its advisory
// dismiss timer; Stop releases all three on every path.
type Monitor struct {
	backend Backend
	camera  capture.Camera
	reader  ContextSource
	opts    Options

	mu           sync.Mutex
	state        State
	frames       capture.FrameSource
	stop         chan struct{}
	loopDone     chan struct{}
	advisory     *Advisory
	dismissTimer *time.Timer

	// OnAdvisory, when set before Start, is called for every raised
	// advisory.
	OnAdvisory func(Advisory)
}

func New(backend Backend, camera capture.Camera, reader ContextSource, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.DismissAfter <= 0 {
		opts.DismissAfter = defaultDismissAfter
	}
	if opts.Threshold <= 0 {
		opts.Threshold = defaultThreshold
	}
	if opts.MaxContext <= 0 {
		opts.MaxContext = defaultMaxContext
	}
	return &Monitor{backend: backend, camera: camera, reader: reader, opts: opts}
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start opens the camera and arms the sampling loop. On permission denial
// or any open failure the monitor stays Idle, no timer armed, and the
// error is returned for the caller's persistent prompt.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return errors.New("monitor already started")
	}
	frames, err := m.camera.Open(ctx)
	if err != nil {
		return err
	}
	m.frames = frames
	m.state = CameraArmed
	m.stop = make(chan struct{})
	m.loopDone = make(chan struct{})
	go m.loop(ctx, frames, m.stop, m.loopDone)
	return nil
}

// Stop tears the monitor down: sampling timer, camera handle, and any
// visible advisory all go away. Safe to call when already idle.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state == Idle {
		m.mu.Unlock()
		return
	}
	stop := m.stop
	done := m.loopDone
	frames := m.frames
	m.state = Idle
	m.frames = nil
	m.advisory = nil
	if m.dismissTimer != nil {
		m.dismissTimer.Stop()
		m.dismissTimer = nil
	}
	m.mu.Unlock()

	close(stop)
	<-done
	frames.Close()
}

// Advisory returns the currently visible advisory, if any.
func (m *Monitor) Advisory() (Advisory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.advisory == nil {
		return Advisory{}, false
	}
	return *m.advisory, true
}

// Dismiss hides the advisory ahead of its auto-dismiss delay.
func (m *Monitor) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismissLocked()
}

func (m *Monitor) dismissLocked() {
	m.advisory = nil
	if m.dismissTimer != nil {
		m.dismissTimer.Stop()
		m.dismissTimer = nil
	}
}

func (m *Monitor) loop(ctx context.Context, frames capture.FrameSource, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sample(ctx, frames)
		}
	}
}

// sample runs one capture-and-detect cycle. Failures are swallowed; the
// next tick proceeds regardless.
func (m *Monitor) sample(ctx context.Context, frames capture.FrameSource) {
	m.mu.Lock()
	if m.state != CameraArmed {
		m.mu.Unlock()
		return
	}
	m.state = Sampling
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.state == Sampling {
			m.state = CameraArmed
		}
		m.mu.Unlock()
	}()

	frame, err := frames.Frame(ctx)
	if err != nil {
		return
	}
	text, position := m.reader.CurrentText()
	text = truncate(text, m.opts.MaxContext)
	resp, err := m.backend.DetectConfusion(ctx, types.DetectConfusionReq{
		FrameData:       frame,
		ContextText:     text,
		ReadingPosition: position,
	})
	if err != nil {
		return
	}
	if !resp.ConfusionDetected || resp.ConfusionLevel < m.opts.Threshold {
		return
	}
	m.raise(Advisory{
		Suggestions: resp.Suggestions,
		Explanation: resp.ContextualExplanation,
		Confidence:  resp.Confidence,
		RaisedAt:    time.Now(),
	})
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func (m *Monitor) raise(a Advisory) {
	m.mu.Lock()
	if m.state == Idle {
		m.mu.Unlock()
		return
	}
	m.dismissLocked()
	m.advisory = &a
	m.dismissTimer = time.AfterFunc(m.opts.DismissAfter, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.advisory != nil && m.advisory.RaisedAt.Equal(a.RaisedAt) {
			m.dismissLocked()
		}
	})
	cb := m.OnAdvisory
	m.mu.Unlock()
	if cb != nil {
		cb(a)
	}
}
