//go:build integration

package proofa

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 60 * time.Second

func newBrowserService(t *testing.T, opts ...Option) (*Service, string) {
	t.Helper()

	dir := t.TempDir()
	svc, err := New(append([]Option{WithDownloadDir(dir), WithDebounce(0)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc, dir
}

func TestSession_DownloadImage_Integration(t *testing.T) {
	svc, _ := newBrowserService(t)
	sess := newTestSession(t, svc, &mockPlatform{capability: DownloadOnly})

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if err := sess.Update(testReceipt("Ada Fabrics"), TemplateMinimalist); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := sess.Wait(ctx); got != SessionReady {
		t.Fatalf("Wait() = %v, err = %v", got, sess.Err())
	}

	res := sess.ShareToWhatsApp(ctx)
	if res.Outcome != OutcomeDownloaded {
		t.Fatalf("outcome = %v, err = %v", res.Outcome, res.Err)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("downloaded file is not a PNG: %v", err)
	}
	file, _ := sess.Ready()
	assertNear(t, "PNG width", float64(cfg.Width), file.Raster.CSSWidth*file.Raster.Scale)
}

func TestSession_DownloadPDF_Integration(t *testing.T) {
	svc, _ := newBrowserService(t)
	sess := newTestSession(t, svc, nil)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	_ = sess.Update(testReceipt("Ada Fabrics"), TemplateClassic)
	res := sess.DownloadPDF(ctx)
	if res.Outcome != OutcomeDownloaded {
		t.Fatalf("outcome = %v, err = %v", res.Outcome, res.Err)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	dims, err := api.PageDims(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("PageDims() error = %v", err)
	}
	if len(dims) != 1 {
		t.Fatalf("pages = %d, want 1", len(dims))
	}
	assertNear(t, "page width", dims[0].Width, mmToPt(A4WidthMM))

	file, _ := sess.Ready()
	wantHeight := mmToPt(A4WidthMM * float64(file.Raster.Height) / float64(file.Raster.Width))
	assertNear(t, "page height", dims[0].Height, wantHeight)
}
