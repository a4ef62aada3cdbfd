package proofa

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-proofa/internal/capture"
	"github.com/alnah/go-proofa/internal/render"
)

// Mock implementations for testing.

type mockCapturer struct {
	mu       sync.Mutex
	width    int // CSS pixels
	height   int
	err      error
	panicMsg string
	// slow maps a marker found in the page to a capture delay.
	slow map[string]time.Duration
	// ignoreCancel finishes slow captures even after ctx ends.
	ignoreCancel bool
	calls        int
	finished     int
	closed       bool
}

func newMockCapturer() *mockCapturer {
	return &mockCapturer{width: 480, height: 700}
}

func (m *mockCapturer) Capture(ctx context.Context, doc *render.Document) (*capture.Raster, error) {
	m.mu.Lock()
	m.calls++
	w, h, err, panicMsg := m.width, m.height, m.err, m.panicMsg
	var delay time.Duration
	for marker, d := range m.slow {
		if strings.Contains(doc.HTML, marker) {
			delay = d
		}
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.finished++
		m.mu.Unlock()
	}()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if delay > 0 {
		if m.ignoreCancel {
			time.Sleep(delay)
		} else {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return testRaster(w, h), nil
}

func (m *mockCapturer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockCapturer) counts() (calls, finished int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.finished
}

type mockPlatform struct {
	capability Capability
	canShare   bool
	shareErr   error
	openErr    error
	sharePanic bool

	mu     sync.Mutex
	shares []ShareRequest
	opened []string
}

func (m *mockPlatform) Capability() Capability { return m.capability }

func (m *mockPlatform) CanShare([]*ShareableFile) bool { return m.canShare }

func (m *mockPlatform) Share(_ context.Context, req ShareRequest) error {
	if m.sharePanic {
		panic("share sheet crashed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares = append(m.shares, req)
	return m.shareErr
}

func (m *mockPlatform) OpenURL(_ context.Context, u string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, u)
	return m.openErr
}

type mockHistory struct {
	mu      sync.Mutex
	records []HistoryRecord
}

func (m *mockHistory) Save(_ context.Context, rec HistoryRecord) (HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = "rec-" + string(rune('a'+len(m.records)))
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *mockHistory) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// testRaster returns a solid PNG raster of the given CSS size at scale 2.
func testRaster(cssWidth, cssHeight int) *RasterArtifact {
	const scale = 2
	img := image.NewNRGBA(image.Rect(0, 0, cssWidth*scale, cssHeight*scale))
	for y := range cssHeight * scale {
		for x := range cssWidth * scale {
			img.Set(x, y, color.NRGBA{R: 250, G: 250, B: 245, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return &RasterArtifact{
		PNG:       buf.Bytes(),
		Width:     cssWidth * scale,
		Height:    cssHeight * scale,
		Scale:     scale,
		CSSWidth:  float64(cssWidth),
		CSSHeight: float64(cssHeight),
	}
}

func testReceipt(business string) *Receipt {
	return &Receipt{
		BusinessName: business,
		CustomerName: "Tolu Adebayo",
		Description:  "Ankara fabric, 6 yards",
		Amount:       4500,
		Date:         "2026-10-15",
	}
}

var fixedNow = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

// newTestService builds a Service with a mock capture engine that downloads
// into a temp directory.
func newTestService(t *testing.T, c capturer, opts ...Option) (*Service, string) {
	t.Helper()

	dir := t.TempDir()
	base := []Option{
		withCapturer(c),
		WithDownloadDir(dir),
		WithDebounce(0),
		WithClock(func() time.Time { return fixedNow }),
	}
	svc, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc, dir
}

func newTestSession(t *testing.T, svc *Service, p Platform) *Session {
	t.Helper()

	sess, err := svc.NewSession(p)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
