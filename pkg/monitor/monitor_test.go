package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/profai/profai-backend/pkg/capture"
	"github.com/profai/profai-backend/pkg/types"
)

type fakeFrames struct {
	mu     sync.Mutex
	closed bool
	grabs  int
}

func (f *fakeFrames) Frame(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grabs++
	return "data:image/jpeg;base64,frame", nil
}

func (f *fakeFrames) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type fakeCamera struct {
	frames *fakeFrames
	err    error
}

func (c *fakeCamera) Open(ctx context.Context) (capture.FrameSource, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.frames, nil
}

type fakeBackend struct {
	mu    sync.Mutex
	resp  types.DetectConfusionResp
	err   error
	calls int
	last  types.DetectConfusionReq
}

func (b *fakeBackend) DetectConfusion(ctx context.Context, req types.DetectConfusionReq) (types.DetectConfusionResp, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.last = req
	return b.resp, b.err
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func staticReader(text string) ContextSource {
	return ContextFunc(func() (string, float64) { return text, 0.5 })
}

func fastOpts() Options {
	return Options{Interval: 10 * time.Millisecond, DismissAfter: 40 * time.Millisecond}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPermissionDeniedStaysIdle(t *testing.T) {
	cam := &fakeCamera{err: capture.ErrPermissionDenied}
	b := &fakeBackend{}
	m := New(b, cam, staticReader("text"), fastOpts())

	err := m.Start(context.Background())
	if !errors.Is(err, capture.ErrPermissionDenied) {
		t.Fatalf("err = %v", err)
	}
	if m.State() != Idle {
		t.Errorf("state = %v, want Idle", m.State())
	}
	time.Sleep(50 * time.Millisecond)
	if b.callCount() != 0 {
		t.Error("sampling ran despite denied permission")
	}
}

func TestSamplingRaisesAndAutoDismissesAdvisory(t *testing.T) {
	frames := &fakeFrames{}
	b := &fakeBackend{resp: types.DetectConfusionResp{
		ConfusionDetected: true,
		ConfusionLevel:    0.8,
		Confidence:        0.8,
		Suggestions:       []string{"take a break"},
	}}
	m := New(b, &fakeCamera{frames: frames}, staticReader("dense text"), fastOpts())

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { _, ok := m.Advisory(); return ok }, "advisory never raised")
	a, _ := m.Advisory()
	if len(a.Suggestions) == 0 || a.Confidence != 0.8 {
		t.Errorf("advisory = %+v", a)
	}

	// The fake keeps reporting confusion, so every sample re-raises; the
	// advisory still must vanish within the dismiss window once samples
	// stop clearing the threshold.
	b.mu.Lock()
	b.resp = types.DetectConfusionResp{ConfusionDetected: false}
	b.mu.Unlock()
	waitFor(t, func() bool { _, ok := m.Advisory(); return !ok }, "advisory never auto-dismissed")
}

func TestBelowThresholdRaisesNothing(t *testing.T) {
	b := &fakeBackend{resp: types.DetectConfusionResp{
		ConfusionDetected: true,
		ConfusionLevel:    0.3,
	}}
	m := New(b, &fakeCamera{frames: &fakeFrames{}}, staticReader("text"), fastOpts())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return b.callCount() >= 2 }, "sampler never ran")
	if _, ok := m.Advisory(); ok {
		t.Error("advisory raised below threshold")
	}
}

func TestAPIFailureKeepsSampling(t *testing.T) {
	b := &fakeBackend{err: errors.New("api down")}
	m := New(b, &fakeCamera{frames: &fakeFrames{}}, staticReader("text"), fastOpts())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return b.callCount() >= 3 }, "sampling stopped after failures")
	if m.State() == Idle {
		t.Error("monitor went idle on API failure")
	}
}

func TestStopReleasesCameraAndTimers(t *testing.T) {
	frames := &fakeFrames{}
	b := &fakeBackend{resp: types.DetectConfusionResp{
		ConfusionDetected: true,
		ConfusionLevel:    0.9,
		Suggestions:       []string{"s"},
	}}
	m := New(b, &fakeCamera{frames: frames}, staticReader("text"), fastOpts())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, func() bool { _, ok := m.Advisory(); return ok }, "advisory never raised")

	m.Stop()
	if m.State() != Idle {
		t.Errorf("state after stop = %v", m.State())
	}
	frames.mu.Lock()
	closed := frames.closed
	frames.mu.Unlock()
	if !closed {
		t.Error("camera not released on stop")
	}
	if _, ok := m.Advisory(); ok {
		t.Error("advisory survived teardown")
	}

	calls := b.callCount()
	time.Sleep(50 * time.Millisecond)
	if b.callCount() != calls {
		t.Error("sampling continued after stop")
	}
}

func TestContextTextTruncated(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	b := &fakeBackend{}
	m := New(b, &fakeCamera{frames: &fakeFrames{}}, staticReader(string(long)), fastOpts())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return b.callCount() >= 1 }, "sampler never ran")
	b.mu.Lock()
	got := len(b.last.ContextText)
	b.mu.Unlock()
	if got != defaultMaxContext {
		t.Errorf("context text length = %d, want %d", got, defaultMaxContext)
	}
}

func TestContextTruncationKeepsRunesIntact(t *testing.T) {
	// Three-byte runes do not divide the byte limit evenly, so a byte
	// slice would cut one in half.
	long := strings.Repeat("界", 400)
	b := &fakeBackend{}
	m := New(b, &fakeCamera{frames: &fakeFrames{}}, staticReader(long), fastOpts())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return b.callCount() >= 1 }, "sampler never ran")
	b.mu.Lock()
	got := b.last.ContextText
	b.mu.Unlock()
	if len(got) > defaultMaxContext {
		t.Errorf("context text length = %d, want <= %d", len(got), defaultMaxContext)
	}
	if !utf8.ValidString(got) {
		t.Error("context text is not valid UTF-8")
	}
}
