package proofa

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-proofa/internal/fileutil"
)

// SessionState is where a session's pre-bake stands.
type SessionState int

const (
	// SessionIdle has no document yet.
	SessionIdle SessionState = iota
	// SessionBaking is waiting out the debounce or capturing.
	SessionBaking
	// SessionReady holds a file for the current document.
	SessionReady
	// SessionFailed means the last bake or render failed. Taps build again.
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionBaking:
		return "baking"
	case SessionReady:
		return "ready"
	case SessionFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Share texts.
const (
	whatsAppText = "Here is your %s 🧾\n_Sent via %s · proofa.app_"
	genericText  = "Here is your %s from %s 🧾"
	shareTitle   = "%s %s"
)

// Session is one editing context. Each Update schedules a background bake
// so the file is ready when the user taps share. Only the latest edit's
// bake may publish a file.
//
// Entry points (ShareToWhatsApp, ShareGeneric, DownloadImage, DownloadPDF)
// never return errors or panic; the outcome is in the Result.
type Session struct {
	svc        *Service
	platform   Platform
	capability Capability
	logger     zerolog.Logger
	dir        string // staged files, removed on Close
	flight     singleflight.Group

	flightMu  sync.Mutex
	flights   map[SessionKey]*captureFlight
	flightSeq uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	gen      uint64
	payload  Payload
	template TemplateName
	doc      *RenderedDocument
	state    SessionState
	ready    *ShareableFile
	lastErr  error
	done     chan struct{}      // open while baking
	stopBake context.CancelFunc // cancels the pending bake
}

// NewSession starts a session delivering to platform. The platform's
// capability is probed once here. A nil platform is download-only.
func (s *Service) NewSession(platform Platform) (*Session, error) {
	dir, err := os.MkdirTemp("", "proofa-session-*")
	if err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	capability := ProbeCapability(platform)

	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		svc:        s,
		platform:   platform,
		capability: capability,
		logger:     s.logger.With().Str("component", "session").Logger(),
		dir:        dir,
		flights:    make(map[SessionKey]*captureFlight),
		ctx:        ctx,
		cancel:     cancel,
	}
	sess.logger.Debug().Stringer("capability", capability).Msg("session started")
	return sess, nil
}

// Capability is the platform capability probed when the session started.
func (s *Session) Capability() Capability {
	return s.capability
}

// State returns the current state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready returns the file for the current document if it is built.
func (s *Session) Ready() (*ShareableFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready, s.ready != nil
}

// Err returns why the session is in SessionFailed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Wait blocks until the session stops baking or ctx ends, and returns the
// state it settled in.
func (s *Session) Wait(ctx context.Context) SessionState {
	for {
		s.mu.Lock()
		state, done := s.state, s.done
		s.mu.Unlock()
		if done == nil {
			return state
		}
		select {
		case <-done:
		case <-ctx.Done():
			return s.State()
		}
	}
}

// Update sets the document being edited. An unchanged payload and template
// keep the current bake. Anything else cancels it, drops the current file
// and schedules a new bake after the debounce delay.
// Returns an error if the payload does not render; the session is then
// failed until the next valid Update.
func (s *Session) Update(p Payload, t TemplateName) error {
	if t == "" {
		t = DefaultTemplate
	}
	doc, renderErr := s.svc.Render(p, t)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if renderErr == nil && s.doc != nil && s.doc.Key == doc.Key &&
		(s.state == SessionBaking || s.state == SessionReady) {
		return nil
	}

	s.supersedeLocked()
	s.payload, s.template = p, t

	if renderErr != nil {
		s.doc = nil
		s.state = SessionFailed
		s.lastErr = renderErr
		return renderErr
	}

	s.doc = doc
	s.state = SessionBaking
	s.lastErr = nil
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(s.ctx)
	s.done, s.stopBake = done, cancel

	s.logger.Debug().Str("key", doc.Key.Short()).Uint64("gen", s.gen).Msg("bake scheduled")
	go s.bake(ctx, doc, done)
	return nil
}

// supersedeLocked invalidates the current bake and file. s.mu must be held.
func (s *Session) supersedeLocked() {
	s.gen++
	if s.stopBake != nil {
		s.stopBake()
		s.stopBake = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.ready != nil {
		s.discard(s.ready)
		s.ready = nil
	}
}

func (s *Session) bake(ctx context.Context, doc *RenderedDocument, done chan struct{}) {
	timer := time.NewTimer(s.svc.cfg.debounce)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	file, err := s.build(ctx, doc, true)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Superseded, closed or already served by a reactive build. A file for
	// the current document may still be adopted by whoever shared its capture.
	if s.done != done {
		if file != nil && file != s.ready && (s.doc == nil || file.Key != s.doc.Key) {
			s.discard(file)
		}
		return
	}
	close(done)
	s.done = nil
	s.stopBake = nil

	if err != nil {
		s.state = SessionFailed
		s.lastErr = err
		s.logger.Warn().Err(err).Str("key", doc.Key.Short()).Msg("bake failed")
		return
	}
	s.ready = file
	s.state = SessionReady
	s.logger.Debug().Str("key", doc.Key.Short()).Str("file", file.Name).Msg("bake ready")
}

// captureFlight is one shared capture of a document. Its context belongs to
// the flight, not to any caller, and is canceled once every waiter has left.
type captureFlight struct {
	id      uint64
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// joinFlight registers a waiter on the capture of key, starting a new flight
// if none is running.
func (s *Session) joinFlight(key SessionKey) *captureFlight {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	fl, ok := s.flights[key]
	if !ok {
		s.flightSeq++
		ctx, cancel := context.WithCancel(s.ctx)
		fl = &captureFlight{id: s.flightSeq, ctx: ctx, cancel: cancel}
		s.flights[key] = fl
	}
	fl.waiters++
	return fl
}

// leaveFlight drops a waiter; the last one out cancels the capture.
func (s *Session) leaveFlight(key SessionKey, fl *captureFlight) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	fl.waiters--
	if fl.waiters > 0 {
		return
	}
	fl.cancel()
	if s.flights[key] == fl {
		delete(s.flights, key)
	}
}

// build captures doc and stages the PNG in the session directory.
// Concurrent builds of the same document share one capture, which keeps
// running while any of them still waits. ctx only bounds this caller's wait.
func (s *Session) build(ctx context.Context, doc *RenderedDocument, preBaked bool) (*ShareableFile, error) {
	fl := s.joinFlight(doc.Key)
	defer s.leaveFlight(doc.Key, fl)

	flightKey := string(doc.Key) + "#" + strconv.FormatUint(fl.id, 10)
	ch := s.flight.DoChan(flightKey, func() (any, error) {
		return s.stage(fl.ctx, doc, preBaked)
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*ShareableFile), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// stage runs one capture and writes the PNG into the session directory.
func (s *Session) stage(ctx context.Context, doc *RenderedDocument, preBaked bool) (file *ShareableFile, err error) {
	// DoChan runs fn on its own goroutine, where a panic would kill the process.
	defer func() {
		if r := recover(); r != nil {
			file, err = nil, fmt.Errorf("%w: panic: %v", ErrCapture, r)
		}
	}()

	raster, err := s.svc.capturer.Capture(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := s.svc.builder.Filename(doc.Kind, "png")
	path, err := fileutil.WriteFileAtomic(s.dir, name, raster.PNG)
	if err != nil {
		return nil, fmt.Errorf("%w: staging %s: %v", ErrBuild, name, err)
	}
	return &ShareableFile{
		Name:      name,
		Path:      path,
		Raster:    raster,
		Key:       doc.Key,
		Type:      doc.Kind,
		CreatedAt: s.svc.cfg.now(),
		PreBaked:  preBaked,
	}, nil
}

// file returns the file for the current document: the ready one, the one
// an in-flight bake produces within the bake wait, or a fresh build.
func (s *Session) file(ctx context.Context) (*ShareableFile, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.ready != nil {
		f := s.ready
		s.mu.Unlock()
		return f, nil
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		timer := time.NewTimer(s.svc.cfg.bakeWait)
		select {
		case <-done:
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
		timer.Stop()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.ready != nil {
		f := s.ready
		s.mu.Unlock()
		return f, nil
	}
	doc, gen, lastErr := s.doc, s.gen, s.lastErr
	s.mu.Unlock()

	if doc == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrNoDocument
	}

	file, err := s.build(ctx, doc, false)
	if err != nil {
		return nil, err
	}
	s.adopt(gen, file)
	return file, nil
}

// adopt publishes a reactively built file if no edit happened meanwhile.
// A pending bake for the same document is no longer needed.
func (s *Session) adopt(gen uint64, file *ShareableFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.gen != gen || s.ready != nil {
		return
	}
	if s.stopBake != nil {
		s.stopBake()
		s.stopBake = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.ready = file
	s.state = SessionReady
	s.lastErr = nil
}

// discard removes a staged file that will not be delivered.
func (s *Session) discard(f *ShareableFile) {
	if f == nil || f.Path == "" {
		return
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Debug().Err(err).Str("path", f.Path).Msg("removing staged file")
	}
}

// Close cancels any bake and removes staged files. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.supersedeLocked()
	s.closed = true
	s.state = SessionIdle
	s.doc = nil
	s.mu.Unlock()

	s.cancel()
	return os.RemoveAll(s.dir)
}

// ShareToWhatsApp shares the document with the platform share sheet, or
// downloads it and opens a WhatsApp chat to attach it manually.
func (s *Session) ShareToWhatsApp(ctx context.Context) Result {
	return s.share(ctx, IntentShareWhatsApp)
}

// ShareGeneric shares the document with the platform share sheet, or
// downloads it and offers a text share.
func (s *Session) ShareGeneric(ctx context.Context) Result {
	return s.share(ctx, IntentShareGeneric)
}

// DownloadImage saves the document as a PNG in the download directory.
func (s *Session) DownloadImage(ctx context.Context) (res Result) {
	res = s.begin(IntentDownloadImage)
	defer s.recoverResult(&res)

	file, err := s.file(ctx)
	if err != nil {
		return s.fail(res, err)
	}
	return s.download(ctx, res, file)
}

// DownloadPDF saves the document as a PDF in the download directory. A
// ready raster is reused; otherwise the document is captured now.
func (s *Session) DownloadPDF(ctx context.Context) (res Result) {
	res = s.begin(IntentDownloadPDF)
	defer s.recoverResult(&res)

	file, err := s.file(ctx)
	if err != nil {
		return s.fail(res, err)
	}
	b := s.svc.builder
	path, err := b.SavePDF(ctx, file.Raster, file.Type, b.Filename(file.Type, "pdf"))
	if err != nil {
		return s.fail(res, err)
	}
	res.Outcome = OutcomeDownloaded
	res.Path = path
	s.record(ctx, path)
	return res
}

func (s *Session) share(ctx context.Context, intent Intent) (res Result) {
	res = s.begin(intent)
	defer s.recoverResult(&res)

	file, err := s.file(ctx)
	if err != nil {
		return s.fail(res, err)
	}
	res.Type = file.Type

	req := s.shareRequest(intent, file)
	if canShareFiles(s.platform, s.capability, req.Files) {
		err := s.platformShare(ctx, req)
		switch {
		case err == nil:
			res.Outcome = OutcomeShared
			s.record(ctx, "")
			return res
		case errors.Is(err, ErrShareAborted):
			res.Outcome = OutcomeAborted
			return res
		case ctx.Err() != nil:
			return s.fail(res, ctx.Err())
		default:
			s.logger.Warn().Err(err).Str("intent", string(intent)).Msg("share failed, downloading instead")
		}
	}

	res = s.download(ctx, res, file)
	if res.Outcome != OutcomeDownloaded {
		return res
	}
	res.DeepLink = s.followUp(ctx, intent, req)
	return res
}

func (s *Session) download(ctx context.Context, res Result, file *ShareableFile) Result {
	path, err := s.svc.builder.ToDownloadableImage(ctx, file.Raster, file.Name)
	if err != nil {
		return s.fail(res, err)
	}
	res.Type = file.Type
	res.Outcome = OutcomeDownloaded
	res.Path = path
	s.record(ctx, path)
	return res
}

// followUp runs after a download fallback. WhatsApp opens a chat with the
// message prefilled. Generic shares open the configured share URL, or share
// the text alone on platforms that can. Returns the link opened, if any.
// Failures here never change the outcome: the file is already saved.
func (s *Session) followUp(ctx context.Context, intent Intent, req ShareRequest) string {
	if s.platform == nil {
		return ""
	}

	var link string
	switch {
	case intent == IntentShareWhatsApp:
		link = withText(s.svc.cfg.whatsAppURL, req.Text)
	case s.svc.cfg.genericURL != "":
		link = withText(s.svc.cfg.genericURL, req.Text)
	case s.capability == NativeTextShareOnly:
		err := s.platformShare(ctx, ShareRequest{Title: req.Title, Text: req.Text})
		if err != nil && !errors.Is(err, ErrShareAborted) {
			s.logger.Warn().Err(err).Msg("text share failed")
		}
		return ""
	default:
		return ""
	}

	if err := s.platform.OpenURL(ctx, link); err != nil {
		s.logger.Warn().Err(err).Str("url", link).Msg("opening share link")
		return ""
	}
	return link
}

// platformShare calls the platform share sheet. A panic there is a share
// failure like any other.
func (s *Session) platformShare(ctx context.Context, req ShareRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("share sheet panic: %v", r)
		}
	}()
	return s.platform.Share(ctx, req)
}

func (s *Session) shareRequest(intent Intent, file *ShareableFile) ShareRequest {
	brand := s.svc.cfg.brand
	kind := string(file.Type)

	text := fmt.Sprintf(genericText, kind, brand)
	switch {
	case s.svc.cfg.message != "":
		text = s.svc.cfg.message
	case intent == IntentShareWhatsApp:
		text = fmt.Sprintf(whatsAppText, kind, brand)
	}
	return ShareRequest{
		Files: []*ShareableFile{file},
		Title: fmt.Sprintf(shareTitle, brand, kind),
		Text:  text,
	}
}

func withText(base, text string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?text=" + url.QueryEscape(text)
	}
	q := u.Query()
	q.Set("text", text)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Session) begin(intent Intent) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Intent: intent}
	if s.payload != nil {
		res.Type = s.payload.Kind()
	}
	return res
}

func (s *Session) fail(res Result, err error) Result {
	res.Outcome = OutcomeError
	res.Err = err
	s.logger.Error().Err(err).Str("intent", string(res.Intent)).Msg("export failed")
	return res
}

func (s *Session) recoverResult(res *Result) {
	if r := recover(); r != nil {
		*res = s.fail(*res, fmt.Errorf("%w: panic: %v", ErrBuild, r))
	}
}

func (s *Session) record(ctx context.Context, path string) {
	s.mu.Lock()
	p, t := s.payload, s.template
	s.mu.Unlock()
	s.svc.record(ctx, p, t, path)
}
