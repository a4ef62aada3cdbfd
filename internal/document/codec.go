package document

import (
	"encoding/json"
	"fmt"

	"github.com/alnah/go-proofa/internal/yamlutil"
)

// Envelope is the on-disk form of a document: its kind, the template it is
// rendered with, and the payload itself.
//
//	type: receipt
//	template: bold
//	data:
//	  businessName: Proofa Coffee Bar
//	  amount: 4500
type Envelope struct {
	Type     Kind     `json:"type"`
	Template Template `json:"template,omitempty"`
	Payload  Payload  `json:"-"`
}

type envelopeHeader struct {
	Type     string `json:"type"`
	Template string `json:"template,omitempty"`
}

type envelopeBody[T any] struct {
	Type     string `json:"type"`
	Template string `json:"template,omitempty"`
	Data     T      `json:"data"`
}

// New returns an empty payload of the given kind.
func New(k Kind) (Payload, error) {
	switch k {
	case KindReceipt:
		return &Receipt{}, nil
	case KindInvoice:
		return &Invoice{}, nil
	case KindOrder:
		return &Order{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
}

// DecodeEnvelope parses a YAML or JSON document envelope and validates the payload.
// Template is left empty when the envelope does not name one.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var head envelopeHeader
	if err := yamlutil.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	kind, err := ParseKind(head.Type)
	if err != nil {
		return nil, err
	}
	var tmpl Template
	if head.Template != "" {
		if tmpl, err = ParseTemplate(head.Template); err != nil {
			return nil, err
		}
	}

	var payload Payload
	switch kind {
	case KindReceipt:
		payload, err = decodeBody[Receipt](data)
	case KindInvoice:
		payload, err = decodeBody[Invoice](data)
	case KindOrder:
		payload, err = decodeBody[Order](data)
	}
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &Envelope{Type: kind, Template: tmpl, Payload: payload}, nil
}

func decodeBody[T any](data []byte) (*T, error) {
	var body envelopeBody[T]
	if err := yamlutil.UnmarshalStrict(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &body.Data, nil
}

// EncodeJSON returns the payload's JSON form, as stored in history.
func EncodeJSON(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

// DecodeJSON parses a payload of the given kind from its JSON form.
func DecodeJSON(k Kind, data []byte) (Payload, error) {
	p, err := New(k)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return p, nil
}

// Marshal encodes an envelope as YAML.
func (e *Envelope) Marshal() ([]byte, error) {
	var body any
	switch p := e.Payload.(type) {
	case *Receipt:
		body = envelopeBody[*Receipt]{Type: string(e.Type), Template: string(e.Template), Data: p}
	case *Invoice:
		body = envelopeBody[*Invoice]{Type: string(e.Type), Template: string(e.Template), Data: p}
	case *Order:
		body = envelopeBody[*Order]{Type: string(e.Type), Template: string(e.Template), Data: p}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, e.Payload)
	}
	return yamlutil.Marshal(body)
}
