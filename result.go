package proofa

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Intent is a user action on the export surface.
type Intent string

const (
	IntentDownloadImage Intent = "download-image"
	IntentDownloadPDF   Intent = "download-pdf"
	IntentShareGeneric  Intent = "share"
	IntentShareWhatsApp Intent = "whatsapp"
)

// Outcome is the terminal state of an intent.
type Outcome string

const (
	OutcomeShared     Outcome = "shared"
	OutcomeDownloaded Outcome = "downloaded"
	OutcomeAborted    Outcome = "aborted"
	OutcomeError      Outcome = "error"
)

// Result reports how an intent ended. Entry points never return errors or
// panic; failures end as OutcomeError with Err set.
type Result struct {
	Intent  Intent
	Outcome Outcome
	Type    DocumentType
	// Path of the downloaded file, for OutcomeDownloaded.
	Path string
	// DeepLink opened after a download fallback, if any.
	DeepLink string
	Err      error
}

// ResultMessage returns the notification shown for r. Each outcome has its
// own wording; an aborted share has none.
func ResultMessage(r Result) string {
	name := displayName(r.Type)

	switch r.Outcome {
	case OutcomeShared:
		return name + " shared!"
	case OutcomeDownloaded:
		if r.DeepLink != "" {
			return name + " downloaded. Attach the image in the chat that just opened."
		}
		if r.Intent == IntentDownloadPDF {
			return name + " PDF saved & downloaded!"
		}
		return name + " saved & downloaded!"
	case OutcomeAborted:
		return ""
	default:
		return "Could not export your " + strings.ToLower(name) + ". Please try again."
	}
}

func displayName(t DocumentType) string {
	if t == "" {
		return "Document"
	}
	return cases.Title(language.English).String(string(t))
}
