package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pool and sessions
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

const receiptYAML = `type: receipt
template: bold
data:
  businessName: Ada Fabrics
  description: Ankara fabric, 6 yards
  amount: 4500
`

const invoiceJSON = `{"type":"invoice","data":{"businessName":"B","clientName":"C","invoiceNumber":"INV-1","issueDate":"2026-01-01","items":[{"name":"X","quantity":1,"price":100}]}}`

// fakePool hands out fakeExporters and tracks concurrency.
type fakePool struct {
	size       int
	results    map[proofa.Intent]proofa.Result
	updateErr  error
	acquireErr error
	delay      time.Duration

	mu        sync.Mutex
	active    int
	maxActive int
	options   int
	exporters []*fakeExporter
	closed    bool
}

func (p *fakePool) Acquire(ctx context.Context) (Sessions, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active++
	p.maxActive = max(p.maxActive, p.active)
	return p, nil
}

func (p *fakePool) Release(Sessions) {
	p.mu.Lock()
	p.active--
	p.mu.Unlock()
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

func (p *fakePool) NewSession(proofa.Platform) (Exporter, error) {
	e := &fakeExporter{pool: p}
	p.mu.Lock()
	p.exporters = append(p.exporters, e)
	p.mu.Unlock()
	return e, nil
}

// factory returns a PoolFactory that records the size and option count.
func (p *fakePool) factory() PoolFactory {
	return func(n int, opts ...proofa.Option) Pool {
		p.mu.Lock()
		p.size = n
		p.options = len(opts)
		p.mu.Unlock()
		return p
	}
}

// fakeExporter records updates and intents.
type fakeExporter struct {
	pool *fakePool

	mu       sync.Mutex
	payload  proofa.Payload
	template proofa.TemplateName
	intents  []proofa.Intent
	closed   bool
}

func (e *fakeExporter) Update(p proofa.Payload, t proofa.TemplateName) error {
	if e.pool.updateErr != nil {
		return e.pool.updateErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payload, e.template = p, t
	return nil
}

func (e *fakeExporter) run(intent proofa.Intent) proofa.Result {
	time.Sleep(e.pool.delay)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.intents = append(e.intents, intent)

	res, ok := e.pool.results[intent]
	if !ok {
		res = proofa.Result{Outcome: proofa.OutcomeDownloaded, Path: "/downloads/Proofa-receipt-1.png"}
	}
	res.Intent = intent
	res.Type = e.payload.Kind()
	return res
}

func (e *fakeExporter) DownloadImage(context.Context) proofa.Result {
	return e.run(proofa.IntentDownloadImage)
}

func (e *fakeExporter) DownloadPDF(context.Context) proofa.Result {
	return e.run(proofa.IntentDownloadPDF)
}

func (e *fakeExporter) ShareGeneric(context.Context) proofa.Result {
	return e.run(proofa.IntentShareGeneric)
}

func (e *fakeExporter) ShareToWhatsApp(context.Context) proofa.Result {
	return e.run(proofa.IntentShareWhatsApp)
}

func (e *fakeExporter) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an environment with history disabled, downloads in a
// temp directory and pool creation routed to pool.
func newTestEnv(t *testing.T, pool *fakePool) *testEnv {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.History.Enabled = false
	cfg.Output.DownloadDir = t.TempDir()

	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Config: cfg,
	}
	if pool != nil {
		te.NewPool = pool.factory()
	}
	return te
}

// writeDoc writes a document file in a temp directory and returns its path.
func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
