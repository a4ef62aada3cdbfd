package proofa

import (
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-proofa/internal/capture"
	"github.com/alnah/go-proofa/internal/document"
	"github.com/alnah/go-proofa/internal/render"
)

// Document model, defined in internal/document and re-exported here.
type (
	DocumentType   = document.Kind
	TemplateName   = document.Template
	Payload        = document.Payload
	Receipt        = document.Receipt
	Invoice        = document.Invoice
	Order          = document.Order
	LineItem       = document.LineItem
	BankDetails    = document.BankDetails
	DeliveryInfo   = document.DeliveryInfo
	PaymentStatus  = document.PaymentStatus
	PaymentMethod  = document.PaymentMethod
	DeliveryStatus = document.DeliveryStatus
	Envelope       = document.Envelope

	// SessionKey identifies one edit state: a payload and a template.
	SessionKey = document.Key

	// RasterArtifact is a captured PNG with its pixel size and scale factor.
	RasterArtifact = capture.Raster

	// RenderedDocument is a rendered page ready for capture.
	RenderedDocument = render.Document
)

// Document types.
const (
	TypeReceipt = document.KindReceipt
	TypeInvoice = document.KindInvoice
	TypeOrder   = document.KindOrder
)

// Templates.
const (
	TemplateMinimalist = document.TemplateMinimalist
	TemplateBold       = document.TemplateBold
	TemplateClassic    = document.TemplateClassic
	DefaultTemplate    = document.DefaultTemplate
)

// DefaultBrand prefixes file names and share titles.
const DefaultBrand = "Proofa"

// ImageSource is anything that yields PNG bytes: a *RasterArtifact or a DataURL.
type ImageSource interface {
	PNGBytes() ([]byte, error)
}

// DataURL is a base64 PNG data URL.
type DataURL string

// PNGBytes decodes the data URL.
func (u DataURL) PNGBytes() ([]byte, error) {
	return capture.DecodeDataURL(string(u))
}

// ShareableFile is a named PNG staged on disk, ready to hand to a share sheet.
type ShareableFile struct {
	Name      string // download name, <brand>-<doctype>-<unixms>.png
	Path      string // staged copy on disk
	Raster    *RasterArtifact
	Key       SessionKey
	Type      DocumentType
	CreatedAt time.Time
	// PreBaked is true when the file was built before the user asked for it.
	PreBaked bool
}

// ParseDocumentType parses "receipt", "invoice" or "order".
func ParseDocumentType(s string) (DocumentType, error) {
	return document.ParseKind(s)
}

// ParseTemplateName parses "minimalist", "bold" or "classic".
func ParseTemplateName(s string) (TemplateName, error) {
	return document.ParseTemplate(s)
}

// DecodeEnvelope parses a YAML or JSON document file: type, template and payload.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	return document.DecodeEnvelope(data)
}

// filename returns <brand>-<doctype>-<unixms>.<ext>.
func filename(brand string, kind DocumentType, at time.Time, ext string) string {
	if brand = strings.TrimSpace(brand); brand == "" {
		brand = DefaultBrand
	}
	return brand + "-" + string(kind) + "-" + strconv.FormatInt(at.UnixMilli(), 10) + "." + ext
}
