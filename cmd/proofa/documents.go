package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/hints"
)

// ErrReadDocument wraps failures to read a document file.
var ErrReadDocument = errors.New("failed to read document")

// formatIntents maps --format values to intents.
var formatIntents = map[string]proofa.Intent{
	"png":      proofa.IntentDownloadImage,
	"image":    proofa.IntentDownloadImage,
	"pdf":      proofa.IntentDownloadPDF,
	"share":    proofa.IntentShareGeneric,
	"whatsapp": proofa.IntentShareWhatsApp,
}

// DocumentResult holds the outcome of exporting one document file.
type DocumentResult struct {
	Path     string
	Results  []proofa.Result
	Err      error // set when the document could not be loaded or exported
	Duration time.Duration
}

// failure returns the first error of r, or nil.
func (r DocumentResult) failure() error {
	if r.Err != nil {
		return r.Err
	}
	for _, res := range r.Results {
		if res.Outcome == proofa.OutcomeError {
			return res.Err
		}
	}
	return nil
}

// runIntent handles image, pdf, share and whatsapp: one document, one intent.
func runIntent(ctx context.Context, name string, intent proofa.Intent, args []string, env *Environment) error {
	flags, positional, err := parseIntentFlags(name, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return usageError("%s needs exactly one document file, got %d", name, len(positional))
	}

	a, err := newApp(ctx, flags, 1, env)
	if err != nil {
		return err
	}
	defer a.Close()

	r := a.exportDocument(ctx, positional[0], []proofa.Intent{intent})
	if r.Err != nil {
		return r.Err
	}
	res := r.Results[0]
	a.printResult(res, r.Duration)
	if res.Outcome == proofa.OutcomeError {
		return res.Err
	}
	return nil
}

// runExport exports several documents in several formats, in parallel.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return usageError("export needs at least one document file")
	}
	intents, err := parseFormats(flags.formats)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = loadEnvConfig().Workers
	}
	size := min(proofa.ResolvePoolSize(workers), len(positional))

	a, err := newApp(ctx, &flags.intentFlags, size, env)
	if err != nil {
		return err
	}
	defer a.Close()

	results := a.exportAll(ctx, positional, intents)
	return a.printSummary(results)
}

// parseFormats converts --format values to intents, dropping duplicates.
func parseFormats(formats []string) ([]proofa.Intent, error) {
	var intents []proofa.Intent
	seen := make(map[proofa.Intent]bool)
	for _, f := range formats {
		intent, ok := formatIntents[strings.ToLower(strings.TrimSpace(f))]
		if !ok {
			return nil, usageError("unknown format %q (must be png, pdf, share, or whatsapp)", f)
		}
		if !seen[intent] {
			seen[intent] = true
			intents = append(intents, intent)
		}
	}
	if len(intents) == 0 {
		return nil, usageError("no format given")
	}
	return intents, nil
}

// exportAll processes files concurrently, at most pool.Size() at a time.
// Results keep the order of paths.
func (a *app) exportAll(ctx context.Context, paths []string, intents []proofa.Intent) []DocumentResult {
	results := make([]DocumentResult, len(paths))

	var g errgroup.Group
	g.SetLimit(a.pool.Size())
	for i, path := range paths {
		g.Go(func() error {
			results[i] = a.exportDocument(ctx, path, intents)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// exportDocument loads one document file and runs each intent on it in a
// single session, so every intent reuses the same capture.
func (a *app) exportDocument(ctx context.Context, path string, intents []proofa.Intent) (r DocumentResult) {
	start := a.env.Now()
	r.Path = path
	defer func() { r.Duration = a.env.Now().Sub(start) }()

	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided document path
	if err != nil {
		r.Err = fmt.Errorf("%w: %w", ErrReadDocument, err)
		return r
	}
	doc, err := proofa.DecodeEnvelope(data)
	if err != nil {
		r.Err = fmt.Errorf("%s: %w", path, err)
		return r
	}

	sessions, err := a.pool.Acquire(ctx)
	if err != nil {
		r.Err = err
		return r
	}
	defer a.pool.Release(sessions)

	sess, err := sessions.NewSession(a.platform)
	if err != nil {
		r.Err = err
		return r
	}
	defer func() {
		if err := sess.Close(); err != nil {
			a.logger.Warn().Err(err).Str("document", path).Msg("closing session")
		}
	}()

	if err := sess.Update(doc.Payload, a.templateFor(doc.Template)); err != nil {
		r.Err = fmt.Errorf("%s: %w", path, err)
		return r
	}

	for _, intent := range intents {
		res := runSessionIntent(ctx, sess, intent)
		a.logger.Debug().
			Str("document", path).
			Str("intent", string(intent)).
			Str("outcome", string(res.Outcome)).
			Msg("export finished")
		r.Results = append(r.Results, res)
	}
	return r
}

// runSessionIntent dispatches intent to the matching session entry point.
func runSessionIntent(ctx context.Context, sess Exporter, intent proofa.Intent) proofa.Result {
	switch intent {
	case proofa.IntentDownloadPDF:
		return sess.DownloadPDF(ctx)
	case proofa.IntentShareGeneric:
		return sess.ShareGeneric(ctx)
	case proofa.IntentShareWhatsApp:
		return sess.ShareToWhatsApp(ctx)
	default:
		return sess.DownloadImage(ctx)
	}
}

// printResult outputs the message of one intent. Errors go to stderr.
func (a *app) printResult(res proofa.Result, d time.Duration) {
	msg := proofa.ResultMessage(res)

	switch res.Outcome {
	case proofa.OutcomeError:
		fmt.Fprintln(a.env.Stderr, msg)
		return
	case proofa.OutcomeAborted:
		a.logger.Debug().Str("intent", string(res.Intent)).Msg("share dismissed")
		return
	}
	if a.quiet {
		return
	}

	w := a.env.Stdout
	fmt.Fprintln(w, msg)
	if res.Path != "" {
		if a.verbose {
			fmt.Fprintf(w, "  saved: %s (%s, %v)\n", res.Path, fileSize(res.Path), d.Round(time.Millisecond))
		} else {
			fmt.Fprintf(w, "  saved: %s\n", res.Path)
		}
	}
	if res.DeepLink != "" {
		fmt.Fprintf(w, "  opened: %s\n", res.DeepLink)
	}
	if a.shareFellBack(res) {
		fmt.Fprintln(w, strings.TrimPrefix(hints.ForShareCommand(), "\n"))
	}
}

// shareFellBack reports whether a share ended as a download because no
// share command is configured.
func (a *app) shareFellBack(res proofa.Result) bool {
	isShare := res.Intent == proofa.IntentShareGeneric || res.Intent == proofa.IntentShareWhatsApp
	return isShare && res.Outcome == proofa.OutcomeDownloaded && a.cfg.Share.Command == ""
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed documents.
func countResults(results []DocumentResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.failure() != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printSummary outputs every document's results and returns the first
// failure, annotated with the failure count.
func (a *app) printSummary(results []DocumentResult) error {
	summary := countResults(results)
	var first error

	for _, r := range results {
		if err := r.failure(); err != nil && first == nil {
			first = err
		}
		if r.Err != nil {
			fmt.Fprintf(a.env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}
		if !a.quiet {
			fmt.Fprintf(a.env.Stdout, "%s\n", r.Path)
		}
		for _, res := range r.Results {
			if res.Outcome == proofa.OutcomeError {
				fmt.Fprintf(a.env.Stderr, "FAILED %s (%s): %v\n", r.Path, res.Intent, res.Err)
				continue
			}
			a.printResult(res, r.Duration)
		}
	}

	if !a.quiet && len(results) > 1 {
		fmt.Fprintf(a.env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	if first != nil {
		return fmt.Errorf("%d of %d documents failed: %w", summary.Failed, len(results), first)
	}
	return nil
}

// fileSize returns the size of path for display, or "?".
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size())) // #nosec G115 -- sizes are never negative
}
