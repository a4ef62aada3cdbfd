package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: proofa <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  image      Save a document as a PNG image")
	fmt.Fprintln(w, "  pdf        Save a document as a PDF")
	fmt.Fprintln(w, "  share      Share a document image")
	fmt.Fprintln(w, "  whatsapp   Share a document image to WhatsApp")
	fmt.Fprintln(w, "  export     Export several documents in several formats")
	fmt.Fprintln(w, "  history    List, show or delete exported documents")
	fmt.Fprintln(w, "  config     Create or inspect the config file")
	fmt.Fprintln(w, "  doctor     Check the system is ready to export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'proofa help <command>' for details on a specific command.")
}

// intentSummaries describes the single-document commands.
var intentSummaries = map[string]string{
	"image":    "Save the document as a PNG image in the download directory.",
	"pdf":      "Save the document as a PDF built from its image.",
	"share":    "Hand the document image to the share command. Without one, the\nimage is downloaded and the share link, if configured, is opened.",
	"whatsapp": "Share the document image to WhatsApp. Without a share command, the\nimage is downloaded and a WhatsApp chat link is opened.",
}

// printDocumentFlags prints the flags shared by document commands.
func printDocumentFlags(w io.Writer) {
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -t, --template <s>        Template: minimalist, bold, classic")
	fmt.Fprintln(w, "      --brand <s>           File name prefix (default: Proofa)")
	fmt.Fprintln(w, "      --currency <s>        ISO 4217 currency code (default: NGN)")
	fmt.Fprintln(w, "      --date-format <s>     Date format: tokens YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, short")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --out <dir>           Download directory (default: ~/Downloads)")
	fmt.Fprintln(w, "      --paginate            Slice long PDFs into A4 pages")
	fmt.Fprintln(w, "      --no-history          Do not record the export in history")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "      --timeout <d>         Capture timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --scale <f>           Supersampling factor (2-4)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom template and style directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sharing:")
	fmt.Fprintln(w, "      --share-command <s>   Share command; {file}, {title}, {text} are replaced")
	fmt.Fprintln(w, "      --message <s>         Text sent with shares and deep links")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printIntentUsage prints usage for image, pdf, share and whatsapp.
func printIntentUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: proofa %s <document> [flags]\n", name)
	fmt.Fprintln(w)
	fmt.Fprintln(w, intentSummaries[name])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  document  YAML or JSON file with type, template and data")
	fmt.Fprintln(w)
	printDocumentFlags(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: proofa export <document>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export several documents in parallel. Each document is captured once")
	fmt.Fprintln(w, "and reused for every format.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -f, --format <list>       Formats: png, pdf, share, whatsapp (default: png)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w)
	printDocumentFlags(w)
}

// printHistoryUsage prints usage for the history command.
func printHistoryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: proofa history <list|show|delete> [id] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manage the documents recorded on export (newest 20 are kept).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  list          List exported documents, newest first (--json for JSON)")
	fmt.Fprintln(w, "  show <id>     Print a document file, ready to export again")
	fmt.Fprintln(w, "  delete <id>   Delete a record")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: proofa config <init|show|path|assets> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  init [path]   Write the default config (--force to overwrite)")
	fmt.Fprintln(w, "  show          Print the effective config")
	fmt.Fprintln(w, "  path          Print where config files are looked up")
	fmt.Fprintln(w, "  assets <dir>  Copy the built-in templates for editing (--force to overwrite)")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: proofa doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the share command and the download directory.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "image", "pdf", "share", "whatsapp":
		printIntentUsage(env.Stdout, args[0])
	case "export":
		printExportUsage(env.Stdout)
	case "history":
		printHistoryUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: proofa version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: proofa help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
