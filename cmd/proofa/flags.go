package main

import (
	"errors"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds how documents are printed.
type documentFlags struct {
	template   string
	brand      string
	currency   string
	dateFormat string
}

// outputFlags holds where and how artifacts are saved.
type outputFlags struct {
	dir       string
	paginate  bool
	noHistory bool
}

// captureFlags holds browser capture flags.
type captureFlags struct {
	timeout   string
	scale     float64
	assetPath string
}

// shareFlags holds share backend flags.
type shareFlags struct {
	command string
	message string
}

// intentFlags holds all flags for the single-document commands.
type intentFlags struct {
	common   commonFlags
	document documentFlags
	output   outputFlags
	capture  captureFlags
	share    shareFlags
}

// exportFlags holds the flags of the export command.
type exportFlags struct {
	intentFlags
	formats []string
	workers int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addDocumentFlags adds document appearance flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "template: minimalist, bold, classic")
	fs.StringVar(&f.brand, "brand", "", "file name prefix (default: Proofa)")
	fs.StringVar(&f.currency, "currency", "", "ISO 4217 currency code (default: NGN)")
	fs.StringVar(&f.dateFormat, "date-format", "", "date format, e.g. \"D MMM YYYY\" or iso")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "out", "o", "", "download directory")
	fs.BoolVar(&f.paginate, "paginate", false, "slice long PDFs into A4 pages")
	fs.BoolVar(&f.noHistory, "no-history", false, "do not record the export in history")
}

// addCaptureFlags adds capture flags to a FlagSet.
func addCaptureFlags(fs *flag.FlagSet, f *captureFlags) {
	fs.StringVar(&f.timeout, "timeout", "", "capture timeout (e.g., 30s, 2m)")
	fs.Float64Var(&f.scale, "scale", 0, "supersampling factor (2-4)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template and style directory")
}

// addShareFlags adds share backend flags to a FlagSet.
func addShareFlags(fs *flag.FlagSet, f *shareFlags) {
	fs.StringVar(&f.command, "share-command", "", "native share command, e.g. \"kdeconnect-cli --share {file}\"")
	fs.StringVar(&f.message, "message", "", "text sent with shares and deep links")
}

// addIntentFlags registers every flag of the single-document commands.
func addIntentFlags(fs *flag.FlagSet, f *intentFlags) {
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addOutputFlags(fs, &f.output)
	addCaptureFlags(fs, &f.capture)
	addShareFlags(fs, &f.share)
}

// parseIntentFlags parses the flags of image, pdf, share and whatsapp.
func parseIntentFlags(name string, args []string) (*intentFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &intentFlags{}
	addIntentFlags(fs, f)

	fs.Usage = func() { printIntentUsage(os.Stderr, name) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &exportFlags{}
	addIntentFlags(fs, &f.intentFlags)
	fs.StringSliceVarP(&f.formats, "format", "f", []string{"png"}, "formats: png, pdf, share, whatsapp")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")

	fs.Usage = func() { printExportUsage(os.Stderr) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parse runs fs.Parse and marks failures as usage errors. --help passes
// through as flag.ErrHelp; pflag has already printed the usage.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return usageError("%s: %v", fs.Name(), err)
}
