// Package render turns document payloads into standalone HTML pages.
//
// Each page holds the document inside a preview wrapper scaled with a CSS
// transform, the way it is shown on screen. The document root carries the
// capture target id; the capture engine rasterizes that element at its
// natural size, ignoring the wrapper.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"sync"
	"time"

	"github.com/alnah/go-proofa/internal/assets"
	"github.com/alnah/go-proofa/internal/document"
)

// DefaultTargetID is the id of the element the capture engine rasterizes.
const DefaultTargetID = "document-preview"

// DefaultPreviewScale shrinks the on-screen preview to fit a phone viewport.
const DefaultPreviewScale = 0.8

// TemplateSetLoader loads the assets of one document template.
type TemplateSetLoader interface {
	LoadTemplateSet(name string) (*assets.TemplateSet, error)
}

// Options control formatting. Zero values select defaults.
type Options struct {
	Currency     string    // ISO 4217 (default "NGN")
	DateFormat   string    // dateutil token format or preset
	Now          time.Time // resolves "auto" dates (default time.Now())
	PreviewScale float64   // CSS scale of the preview wrapper
	TargetID     string    // id of the capture target
}

func (o Options) withDefaults() Options {
	if o.TargetID == "" {
		o.TargetID = DefaultTargetID
	}
	if o.PreviewScale <= 0 {
		o.PreviewScale = DefaultPreviewScale
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Document is a rendered page ready for capture.
type Document struct {
	HTML     string
	TargetID string
	Kind     document.Kind
	Template document.Template
	Key      document.Key
}

// Renderer renders payloads with parsed templates cached per template name.
// Safe for concurrent use.
type Renderer struct {
	loader TemplateSetLoader
	md     *markdown

	mu     sync.Mutex
	parsed map[document.Template]*parsedSet
}

type parsedSet struct {
	tmpl  *template.Template
	style template.CSS
}

// New creates a Renderer backed by loader.
func New(loader TemplateSetLoader) *Renderer {
	return &Renderer{
		loader: loader,
		md:     newMarkdown(),
		parsed: make(map[document.Template]*parsedSet),
	}
}

// Render produces the page for p in template t. Identical inputs (including
// Options.Now) produce identical output.
func (r *Renderer) Render(p document.Payload, t document.Template, opts Options) (*Document, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", document.ErrInvalidPayload)
	}
	opts = opts.withDefaults()

	money, err := NewMoney(opts.Currency)
	if err != nil {
		return nil, err
	}
	key, err := document.KeyOf(p, t)
	if err != nil {
		return nil, err
	}
	set, err := r.load(t)
	if err != nil {
		return nil, err
	}

	b := &viewBuilder{
		money:      money,
		md:         r.md,
		dateFormat: opts.DateFormat,
		now:        opts.Now,
		targetID:   opts.TargetID,
		key:        key,
	}
	v, err := b.build(p)
	if err != nil {
		return nil, err
	}

	page := pageView{
		Title:        v.Title + " - " + v.BusinessName,
		Style:        set.style,
		PreviewStyle: previewStyle(opts.PreviewScale),
		Doc:          v,
	}
	var buf bytes.Buffer
	if err := set.tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	out := buf.String()
	if err := checkTarget(out, opts.TargetID); err != nil {
		return nil, err
	}

	return &Document{
		HTML:     out,
		TargetID: opts.TargetID,
		Kind:     p.Kind(),
		Template: t,
		Key:      key,
	}, nil
}

func (r *Renderer) load(t document.Template) (*parsedSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.parsed[t]; ok {
		return set, nil
	}

	ts, err := r.loader.LoadTemplateSet(string(t))
	if err != nil {
		return nil, err
	}

	tmpl := template.New(assets.PageTemplateName)
	for _, src := range []string{ts.Page, ts.Partials, ts.Document} {
		if _, err := tmpl.Parse(src); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplate, t, err)
		}
	}

	// #nosec G203 -- stylesheets come from embedded or operator-provided assets
	set := &parsedSet{tmpl: tmpl, style: template.CSS(ts.Style)}
	r.parsed[t] = set
	return set, nil
}

func previewStyle(scale float64) template.CSS {
	s := strconv.FormatFloat(scale, 'f', -1, 64)
	// #nosec G203 -- numeric value only
	return template.CSS("transform: scale(" + s + "); transform-origin: top center;")
}
