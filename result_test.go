package proofa

import (
	"errors"
	"testing"
)

func TestResultMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    Result
		want string
	}{
		{
			name: "shared",
			r:    Result{Intent: IntentShareWhatsApp, Outcome: OutcomeShared, Type: TypeReceipt},
			want: "Receipt shared!",
		},
		{
			name: "downloaded image",
			r:    Result{Intent: IntentDownloadImage, Outcome: OutcomeDownloaded, Type: TypeInvoice},
			want: "Invoice saved & downloaded!",
		},
		{
			name: "downloaded PDF",
			r:    Result{Intent: IntentDownloadPDF, Outcome: OutcomeDownloaded, Type: TypeOrder},
			want: "Order PDF saved & downloaded!",
		},
		{
			name: "downloaded with deep link",
			r:    Result{Intent: IntentShareWhatsApp, Outcome: OutcomeDownloaded, Type: TypeReceipt, DeepLink: "https://wa.me/?text=x"},
			want: "Receipt downloaded. Attach the image in the chat that just opened.",
		},
		{
			name: "aborted is silent",
			r:    Result{Intent: IntentShareGeneric, Outcome: OutcomeAborted, Type: TypeReceipt},
			want: "",
		},
		{
			name: "error",
			r:    Result{Intent: IntentShareGeneric, Outcome: OutcomeError, Type: TypeInvoice, Err: errors.New("boom")},
			want: "Could not export your invoice. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResultMessage(tt.r); got != tt.want {
				t.Errorf("ResultMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultMessage_Distinct(t *testing.T) {
	t.Parallel()

	seen := make(map[string]Outcome)
	for _, o := range []Outcome{OutcomeShared, OutcomeDownloaded, OutcomeError} {
		msg := ResultMessage(Result{Outcome: o, Type: TypeReceipt})
		if msg == "" {
			t.Errorf("outcome %v has no message", o)
		}
		if prev, ok := seen[msg]; ok {
			t.Errorf("outcomes %v and %v share message %q", prev, o, msg)
		}
		seen[msg] = o
	}
}
