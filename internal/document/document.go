// Package document defines the receipt, invoice and order payloads that
// proofa renders, together with their totals and session identity.
package document

import (
	"fmt"
	"strings"
)

// Kind identifies the document type.
type Kind string

// Document kinds.
const (
	KindReceipt Kind = "receipt"
	KindInvoice Kind = "invoice"
	KindOrder   Kind = "order"
)

// Template identifies one of the visual templates.
type Template string

// Templates.
const (
	TemplateMinimalist Template = "minimalist"
	TemplateBold       Template = "bold"
	TemplateClassic    Template = "classic"

	DefaultTemplate = TemplateMinimalist
)

// PaymentStatus of a receipt.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusDeposit PaymentStatus = "Deposit"
	StatusDue     PaymentStatus = "Due"
)

// DeliveryStatus of an order.
type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "Pending"
	DeliveryProcessing DeliveryStatus = "Processing"
	DeliveryDelivered  DeliveryStatus = "Delivered"
)

// PaymentMethod of a receipt.
type PaymentMethod string

const (
	MethodTransfer PaymentMethod = "Transfer"
	MethodCash     PaymentMethod = "Cash"
	MethodPOS      PaymentMethod = "POS"
	MethodCard     PaymentMethod = "Card"
)

// DefaultVATRate is applied to invoices that do not set a rate.
const DefaultVATRate = 7.5

// DefaultStoreName is printed on orders without a business name.
const DefaultStoreName = "Proofa Store"

// LineItem is one row of an invoice or order.
type LineItem struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Amount returns quantity × price.
func (l LineItem) Amount() float64 {
	return l.Quantity * l.Price
}

// BankDetails are printed when Enabled.
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	Enabled       bool   `json:"enabled"`
}

// DeliveryInfo adds a delivery line and cost when Enabled.
type DeliveryInfo struct {
	Location string  `json:"location"`
	Cost     float64 `json:"cost"`
	Enabled  bool    `json:"enabled"`
}

// Extras are the optional blocks shared by every document kind.
type Extras struct {
	LogoURL      string
	Bank         *BankDetails
	Delivery     *DeliveryInfo
	Terms        string
	SignatureURL string
}

// DeliveryCost returns the delivery cost, or 0 when delivery is off.
func (e Extras) DeliveryCost() float64 {
	if e.Delivery == nil || !e.Delivery.Enabled {
		return 0
	}
	return e.Delivery.Cost
}

// Payload is the discriminated union of Receipt, Invoice and Order.
type Payload interface {
	Kind() Kind
	Validate() error
	Totals() Totals
	Extras() Extras
}

// Receipt acknowledges a single payment.
type Receipt struct {
	BusinessName  string        `json:"businessName"`
	CustomerName  string        `json:"customerName,omitempty"`
	CustomerPhone string        `json:"customerPhone,omitempty"`
	Description   string        `json:"description"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Date          string        `json:"date"`
	Reference     string        `json:"reference,omitempty"`
	LogoURL       string        `json:"logoUrl,omitempty"`
	BankDetails   *BankDetails  `json:"bankDetails,omitempty"`
	DeliveryInfo  *DeliveryInfo `json:"deliveryInfo,omitempty"`
	Terms         string        `json:"terms,omitempty"`
	SignatureURL  string        `json:"signatureUrl,omitempty"`
}

// Invoice bills a client for line items, with optional VAT.
type Invoice struct {
	BusinessName    string        `json:"businessName"`
	BusinessAddress string        `json:"businessAddress,omitempty"`
	ClientName      string        `json:"clientName"`
	ClientPhone     string        `json:"clientPhone,omitempty"`
	InvoiceNumber   string        `json:"invoiceNumber"`
	IssueDate       string        `json:"issueDate"`
	DueDate         string        `json:"dueDate,omitempty"`
	Items           []LineItem    `json:"items"`
	Notes           string        `json:"notes,omitempty"`
	IncludeVAT      *bool         `json:"includeVat,omitempty"` // nil = true
	VATRate         *float64      `json:"vatRate,omitempty"`    // nil = DefaultVATRate
	LogoURL         string        `json:"logoUrl,omitempty"`
	BankDetails     *BankDetails  `json:"bankDetails,omitempty"`
	DeliveryInfo    *DeliveryInfo `json:"deliveryInfo,omitempty"`
	Terms           string        `json:"terms,omitempty"`
	SignatureURL    string        `json:"signatureUrl,omitempty"`
}

// Order summarizes items bought by a customer.
type Order struct {
	BusinessName   string         `json:"businessName,omitempty"`
	CustomerName   string         `json:"customerName"`
	CustomerPhone  string         `json:"customerPhone,omitempty"`
	Items          []LineItem     `json:"items"`
	TotalAmount    float64        `json:"totalAmount"` // 0 = sum of items
	DeliveryStatus DeliveryStatus `json:"deliveryStatus"`
	Date           string         `json:"date,omitempty"`
	LogoURL        string         `json:"logoUrl,omitempty"`
	BankDetails    *BankDetails   `json:"bankDetails,omitempty"`
	DeliveryInfo   *DeliveryInfo  `json:"deliveryInfo,omitempty"`
	Terms          string         `json:"terms,omitempty"`
}

// Kind implements Payload.
func (*Receipt) Kind() Kind { return KindReceipt }

// Kind implements Payload.
func (*Invoice) Kind() Kind { return KindInvoice }

// Kind implements Payload.
func (*Order) Kind() Kind { return KindOrder }

// Extras implements Payload.
func (r *Receipt) Extras() Extras {
	return Extras{LogoURL: r.LogoURL, Bank: r.BankDetails, Delivery: r.DeliveryInfo, Terms: r.Terms, SignatureURL: r.SignatureURL}
}

// Extras implements Payload.
func (i *Invoice) Extras() Extras {
	return Extras{LogoURL: i.LogoURL, Bank: i.BankDetails, Delivery: i.DeliveryInfo, Terms: i.Terms, SignatureURL: i.SignatureURL}
}

// Extras implements Payload.
func (o *Order) Extras() Extras {
	return Extras{LogoURL: o.LogoURL, Bank: o.BankDetails, Delivery: o.DeliveryInfo, Terms: o.Terms}
}

// VAT returns whether VAT applies and its rate in percent.
func (i *Invoice) VAT() (bool, float64) {
	include := i.IncludeVAT == nil || *i.IncludeVAT
	rate := DefaultVATRate
	if i.VATRate != nil {
		rate = *i.VATRate
	}
	return include, rate
}

// ParseKind converts a string to a Kind (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindReceipt, KindInvoice, KindOrder:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q (must be receipt, invoice, or order)", ErrUnknownKind, s)
}

// ParseTemplate converts a string to a Template. Empty means DefaultTemplate.
func ParseTemplate(s string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return DefaultTemplate, nil
	case TemplateMinimalist, TemplateBold, TemplateClassic:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q (must be minimalist, bold, or classic)", ErrUnknownTemplate, s)
}

// Title returns the heading printed on the document.
func Title(k Kind) string {
	switch k {
	case KindInvoice:
		return "Invoice"
	case KindOrder:
		return "Order Summary"
	default:
		return "Payment Receipt"
	}
}
