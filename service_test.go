package proofa

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNew_InvalidAssetPath(t *testing.T) {
	t.Parallel()

	_, err := New(withCapturer(newMockCapturer()), WithAssetPath("/nonexistent/proofa-assets"))
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("New() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WithTimeout(%v) did not panic", d)
				}
			}()
			WithTimeout(d)
		}()
	}
}

func TestService_Render(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newMockCapturer(), WithCurrency("NGN"))

	doc, err := svc.Render(testReceipt("Ada Fabrics"), "")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if doc.Template != DefaultTemplate {
		t.Errorf("Template = %q, want default %q", doc.Template, DefaultTemplate)
	}
	if !strings.Contains(doc.HTML, "₦4,500.00") {
		t.Error("rendered page missing the formatted amount")
	}
	if !strings.Contains(doc.HTML, "15 Oct 2026") {
		t.Error("rendered page missing the document date")
	}

	again, _ := svc.Render(testReceipt("Ada Fabrics"), "")
	if again.HTML != doc.HTML || again.Key != doc.Key {
		t.Error("Render() is not deterministic for identical input")
	}
}

func TestService_RenderErrors(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newMockCapturer())

	bad := testReceipt("")
	tests := []struct {
		name string
		p    Payload
	}{
		{name: "nil payload", p: nil},
		{name: "invalid payload", p: bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := svc.Render(tt.p, TemplateMinimalist); !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Render() error = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestService_Capture(t *testing.T) {
	t.Parallel()

	mc := newMockCapturer()
	svc, _ := newTestService(t, mc)

	raster, err := svc.Capture(context.Background(), testReceipt("Ada Fabrics"), TemplateBold)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if raster.Width != 960 || raster.Height != 1400 {
		t.Errorf("raster = %dx%d, want 960x1400", raster.Width, raster.Height)
	}
}

func TestService_Close(t *testing.T) {
	t.Parallel()

	mc := newMockCapturer()
	svc, err := New(withCapturer(mc))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mc.closed {
		t.Error("Close() did not close the capture engine")
	}
}

func TestService_HistoryOnDownload(t *testing.T) {
	t.Parallel()

	hist := &mockHistory{}
	svc, _ := newTestService(t, newMockCapturer(), WithHistory(hist))
	sess := newTestSession(t, svc, nil)
	_ = sess.Update(testReceipt("Ada Fabrics"), TemplateClassic)

	res := sess.DownloadImage(context.Background())
	if res.Outcome != OutcomeDownloaded {
		t.Fatalf("outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if hist.len() != 1 {
		t.Fatalf("history records = %d, want 1", hist.len())
	}
	rec := hist.records[0]
	if rec.Kind != TypeReceipt || rec.Template != TemplateClassic || rec.FilePath != res.Path {
		t.Errorf("record = %+v", rec)
	}
	p, err := rec.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.(*Receipt).BusinessName != "Ada Fabrics" {
		t.Errorf("decoded payload = %+v", p)
	}
}
