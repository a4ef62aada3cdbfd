package render

import (
	"encoding/binary"
	"encoding/hex"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-proofa/internal/dateutil"
	"github.com/alnah/go-proofa/internal/document"
)

// watermarkText is tiled across every document.
const watermarkText = "PROOFA"

const (
	watermarkRows = 8
	watermarkCols = 6
)

// view is the data every document template executes against.
type view struct {
	TargetID string
	Title    string
	Ref      string

	BusinessName    string
	BusinessAddress string
	LogoURL         template.URL
	LogoInitial     string
	FromLabel       string
	ToLabel         string
	CustomerName    string
	CustomerPhone   string
	Date            string
	DueDate         string

	Lines    []lineView
	Delivery *deliveryView

	ShowVAT  bool
	VATRate  string
	Subtotal string
	VAT      string
	Total    string

	Notes        template.HTML
	Terms        template.HTML
	Bank         *document.BankDetails
	SignatureURL template.URL
	Status       string

	WatermarkRows [][]string
}

type lineView struct {
	Name   string
	Detail string
	Amount string
}

type deliveryView struct {
	Location string
	Cost     string
}

// pageView is the data the page shell executes against.
type pageView struct {
	Title        string
	Style        template.CSS
	PreviewStyle template.CSS
	Doc          *view
}

// viewBuilder turns a payload into a view. It holds the per-render formatters.
type viewBuilder struct {
	money      *Money
	md         *markdown
	dateFormat string
	now        time.Time
	targetID   string
	key        document.Key
}

func (b *viewBuilder) build(p document.Payload) (*view, error) {
	extras := p.Extras()
	totals := p.Totals()

	v := &view{
		TargetID:      b.targetID,
		Title:         document.Title(p.Kind()),
		FromLabel:     "Billed By",
		ToLabel:       "Billed To",
		Subtotal:      b.money.Format(totals.Subtotal),
		VAT:           b.money.Format(totals.VAT),
		VATRate:       strconv.FormatFloat(totals.VATRate, 'f', -1, 64),
		ShowVAT:       totals.ShowVAT,
		Total:         b.money.Format(totals.Total),
		WatermarkRows: watermark(),
	}

	var err error
	switch d := p.(type) {
	case *document.Receipt:
		err = b.receipt(v, d)
	case *document.Invoice:
		err = b.invoice(v, d)
	case *document.Order:
		err = b.order(v, d)
	}
	if err != nil {
		return nil, err
	}

	if extras.Delivery != nil && extras.Delivery.Enabled {
		v.Delivery = &deliveryView{Location: extras.Delivery.Location, Cost: b.money.Format(extras.Delivery.Cost)}
	}
	if extras.Bank != nil && extras.Bank.Enabled {
		v.Bank = extras.Bank
	}
	if v.Terms, err = b.md.toHTML(extras.Terms); err != nil {
		return nil, err
	}
	if v.LogoURL, err = inlineImage(extras.LogoURL); err != nil {
		return nil, err
	}
	if v.SignatureURL, err = inlineImage(extras.SignatureURL); err != nil {
		return nil, err
	}
	v.LogoInitial = initial(v.BusinessName)
	return v, nil
}

func (b *viewBuilder) receipt(v *view, r *document.Receipt) error {
	v.Ref = "Ref: " + r.Reference
	if r.Reference == "" {
		v.Ref = "Ref: " + b.derivedRef()
	}
	v.BusinessName = r.BusinessName
	v.FromLabel = "From"
	v.ToLabel = "Customer"
	v.CustomerName = orDefault(r.CustomerName, "Customer")
	v.CustomerPhone = r.CustomerPhone

	desc := orDefault(r.Description, "Payment for services")
	status := string(orDefault(r.Status, document.StatusPaid))
	detail := status
	if r.PaymentMethod != "" {
		detail += " · " + string(r.PaymentMethod)
	}
	v.Lines = []lineView{{Name: desc, Detail: detail, Amount: b.money.Format(r.Amount)}}
	v.Status = status

	var err error
	v.Date, err = dateutil.FormatDocumentDate(r.Date, b.dateFormat, b.now)
	return err
}

func (b *viewBuilder) invoice(v *view, i *document.Invoice) error {
	v.Ref = "#" + i.InvoiceNumber
	v.BusinessName = i.BusinessName
	v.BusinessAddress = i.BusinessAddress
	v.CustomerName = i.ClientName
	v.CustomerPhone = i.ClientPhone
	v.Lines = b.items(i.Items)

	var err error
	if v.Date, err = dateutil.FormatDocumentDate(i.IssueDate, b.dateFormat, b.now); err != nil {
		return err
	}
	if strings.TrimSpace(i.DueDate) != "" {
		if v.DueDate, err = dateutil.FormatDocumentDate(i.DueDate, b.dateFormat, b.now); err != nil {
			return err
		}
	}
	v.Notes, err = b.md.toHTML(i.Notes)
	return err
}

func (b *viewBuilder) order(v *view, o *document.Order) error {
	v.Ref = "Order Ref"
	v.BusinessName = orDefault(o.BusinessName, document.DefaultStoreName)
	v.CustomerName = o.CustomerName
	v.CustomerPhone = o.CustomerPhone
	v.Lines = b.items(o.Items)
	v.Status = string(orDefault(o.DeliveryStatus, document.DeliveryPending))

	var err error
	v.Date, err = dateutil.FormatDocumentDate(orDefault(o.Date, "auto"), b.dateFormat, b.now)
	return err
}

func (b *viewBuilder) items(items []document.LineItem) []lineView {
	lines := make([]lineView, 0, len(items))
	for _, item := range items {
		lines = append(lines, lineView{
			Name:   orDefault(item.Name, "Unnamed Item"),
			Detail: strconv.FormatFloat(item.Quantity, 'f', -1, 64) + " × " + b.money.Format(item.Price),
			Amount: b.money.Format(item.Amount()),
		})
	}
	return lines
}

// derivedRef is a stable five-digit reference taken from the session key,
// so identical receipts always print the same reference.
func (b *viewBuilder) derivedRef() string {
	raw, err := hex.DecodeString(string(b.key))
	if err != nil || len(raw) < 4 {
		return "00000"
	}
	n := binary.BigEndian.Uint32(raw[:4]) % 100000
	return strconv.FormatUint(uint64(n)+100000, 10)[1:]
}

func watermark() [][]string {
	rows := make([][]string, watermarkRows)
	for i := range rows {
		row := make([]string, watermarkCols)
		for j := range row {
			row[j] = watermarkText
		}
		rows[i] = row
	}
	return rows
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "P"
}

func orDefault[T ~string](v, def T) T {
	if strings.TrimSpace(string(v)) == "" {
		return def
	}
	return v
}
