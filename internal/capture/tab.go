package capture

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-proofa/internal/fileutil"
	"github.com/alnah/go-proofa/internal/process"
)

// Rect is a region of the page in CSS pixels, relative to the document.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Tab abstracts the browser tab the engine drives, to enable testing without a browser.
type Tab interface {
	// Load replaces the tab's document with html and waits for the load event.
	Load(ctx context.Context, html string) error
	// Eval runs a JavaScript function with args and returns its string result.
	Eval(ctx context.Context, js string, args ...any) (string, error)
	// Screenshot captures clip at scale device pixels per CSS pixel as PNG.
	Screenshot(ctx context.Context, clip Rect, scale float64) ([]byte, error)
	Close() error
}

// Compile-time interface check
var _ Tab = (*BrowserTab)(nil)

// Default viewport of the headless tab, in CSS pixels.
const (
	DefaultViewportWidth  = 1024
	DefaultViewportHeight = 768
)

// BrowserTab implements Tab with go-rod.
// Rod automatically downloads Chromium on first run if not found.
type BrowserTab struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	viewportWidth  int
	viewportHeight int
}

// NewBrowserTab creates a tab that launches the browser on first use.
func NewBrowserTab() *BrowserTab {
	return &BrowserTab{
		viewportWidth:  DefaultViewportWidth,
		viewportHeight: DefaultViewportHeight,
	}
}

// ensurePage lazily launches the browser and opens the single tab.
func (t *BrowserTab) ensurePage() error {
	if t.page != nil {
		return nil
	}

	if t.browser == nil {
		l := launcher.New()

		// Use pre-installed browser if specified (Docker/containerized environments)
		if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
			l = l.Bin(bin)
		}

		// NoSandbox required for CI and containerized environments
		if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
			l = l.NoSandbox(true)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}

		browser := rod.New().ControlURL(u)
		if err := browser.Connect(); err != nil {
			l.Kill()
			return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}
		t.launcher = l
		t.browser = browser
	}

	page, err := t.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("%w: creating tab: %v", ErrBrowserConnect, err)
	}
	t.page = page
	return nil
}

// Load writes html to a temporary file and navigates the tab to it.
// Images are inlined by the renderer, so the file is removed once loaded.
func (t *BrowserTab) Load(ctx context.Context, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensurePage(); err != nil {
		return err
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer cleanup()

	page := t.page.Context(ctx)
	if err := page.Navigate("file://" + path); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return nil
}

// Eval runs js in the tab. Promises are awaited.
func (t *BrowserTab) Eval(ctx context.Context, js string, args ...any) (string, error) {
	page, err := t.currentPage()
	if err != nil {
		return "", err
	}
	res, err := page.Context(ctx).Eval(js, args...)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Screenshot renders clip with a device scale factor of scale.
func (t *BrowserTab) Screenshot(ctx context.Context, clip Rect, scale float64) ([]byte, error) {
	page, err := t.currentPage()
	if err != nil {
		return nil, err
	}
	page = page.Context(ctx)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             t.viewportWidth,
		Height:            t.viewportHeight,
		DeviceScaleFactor: scale,
	})
	if err != nil {
		return nil, err
	}

	return page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      clip.X,
			Y:      clip.Y,
			Width:  clip.Width,
			Height: clip.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	})
}

func (t *BrowserTab) currentPage() (*rod.Page, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.page == nil {
		return nil, fmt.Errorf("%w: no page loaded", ErrPageLoad)
	}
	return t.page, nil
}

// Close releases browser resources and kills the browser process group.
func (t *BrowserTab) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if t.browser != nil {
		err = t.browser.Close()
		t.browser = nil
		t.page = nil
	}
	if t.launcher != nil {
		process.KillProcessGroup(t.launcher.PID())
		t.launcher.Kill()
		t.launcher = nil
	}
	return err
}
