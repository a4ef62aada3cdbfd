package proofa

import "context"

// Capability is what a platform can do with a finished file.
type Capability int

const (
	// DownloadOnly platforms can only save files.
	DownloadOnly Capability = iota
	// NativeTextShareOnly platforms share text but not files.
	NativeTextShareOnly
	// NativeFileShare platforms hand files to a share sheet.
	NativeFileShare
)

func (c Capability) String() string {
	switch c {
	case NativeFileShare:
		return "native-file-share"
	case NativeTextShareOnly:
		return "native-text-share"
	default:
		return "download-only"
	}
}

// ShareRequest is what a platform's share sheet receives.
type ShareRequest struct {
	Files []*ShareableFile
	Title string
	Text  string
}

// Platform is the OS surface the dispatcher delivers to.
type Platform interface {
	// Capability reports the share primitive the platform exposes.
	Capability() Capability
	// CanShare confirms the platform accepts these exact files.
	CanShare(files []*ShareableFile) bool
	// Share opens the share sheet and blocks until it closes.
	// Returns ErrShareAborted when the user dismisses it.
	Share(ctx context.Context, req ShareRequest) error
	// OpenURL opens a deep link in the default handler.
	OpenURL(ctx context.Context, url string) error
}

// ProbeCapability asks p what it can do. A nil or misbehaving platform is
// DownloadOnly.
func ProbeCapability(p Platform) (c Capability) {
	if p == nil {
		return DownloadOnly
	}
	defer func() {
		if recover() != nil {
			c = DownloadOnly
		}
	}()

	switch c = p.Capability(); c {
	case NativeFileShare, NativeTextShareOnly:
		return c
	default:
		return DownloadOnly
	}
}

// canShareFiles reports whether files may go to p's share sheet. Existence
// of the primitive is not enough: p must accept the actual files.
func canShareFiles(p Platform, c Capability, files []*ShareableFile) (ok bool) {
	if p == nil || c != NativeFileShare || len(files) == 0 {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return p.CanShare(files)
}
