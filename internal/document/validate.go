package document

import (
	"fmt"
	"strings"
)

// maxTextLength bounds free-form fields.
const maxTextLength = 2000

// accountNumberLength is the length of a NUBAN account number.
const accountNumberLength = 10

// Validate implements Payload.
func (r *Receipt) Validate() error {
	if strings.TrimSpace(r.BusinessName) == "" {
		return invalid("businessName", "business name is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return invalid("description", "tell us what this receipt is for")
	}
	if r.Amount <= 0 {
		return invalid("amount", "amount must be greater than 0")
	}
	switch r.Status {
	case "", StatusPaid, StatusDeposit, StatusDue:
	default:
		return invalid("status", fmt.Sprintf("unknown payment status %q", r.Status))
	}
	switch r.PaymentMethod {
	case "", MethodTransfer, MethodCash, MethodPOS, MethodCard:
	default:
		return invalid("paymentMethod", fmt.Sprintf("unknown payment method %q", r.PaymentMethod))
	}
	return validateExtras(r.Extras())
}

// Validate implements Payload.
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.BusinessName) == "" {
		return invalid("businessName", "required")
	}
	if strings.TrimSpace(i.ClientName) == "" {
		return invalid("clientName", "required")
	}
	if err := validateItems(i.Items); err != nil {
		return err
	}
	if _, rate := i.VAT(); rate < 0 || rate > 100 {
		return invalid("vatRate", fmt.Sprintf("must be between 0 and 100, got %g", rate))
	}
	if len(i.Notes) > maxTextLength {
		return invalid("notes", "too long")
	}
	return validateExtras(i.Extras())
}

// Validate implements Payload.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return invalid("customerName", "required")
	}
	if err := validateItems(o.Items); err != nil {
		return err
	}
	if o.TotalAmount < 0 {
		return invalid("totalAmount", "must not be negative")
	}
	switch o.DeliveryStatus {
	case "", DeliveryPending, DeliveryProcessing, DeliveryDelivered:
	default:
		return invalid("deliveryStatus", fmt.Sprintf("unknown delivery status %q", o.DeliveryStatus))
	}
	return validateExtras(o.Extras())
}

func validateItems(items []LineItem) error {
	if len(items) == 0 {
		return invalid("items", "add at least one item")
	}
	for n, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return invalid(fmt.Sprintf("items[%d].name", n), "fill all item names")
		}
		if item.Quantity < 0 || item.Price < 0 {
			return invalid(fmt.Sprintf("items[%d]", n), "quantity and price must not be negative")
		}
	}
	return nil
}

func validateExtras(e Extras) error {
	if len(e.Terms) > maxTextLength {
		return invalid("terms", "too long")
	}
	if e.Bank != nil && e.Bank.Enabled {
		if strings.TrimSpace(e.Bank.BankName) == "" {
			return invalid("bankDetails.bankName", "required")
		}
		if strings.TrimSpace(e.Bank.AccountName) == "" {
			return invalid("bankDetails.accountName", "required")
		}
		if !isDigits(e.Bank.AccountNumber, accountNumberLength) {
			return invalid("bankDetails.accountNumber", fmt.Sprintf("must be %d digits", accountNumberLength))
		}
	}
	if e.Delivery != nil && e.Delivery.Enabled && e.Delivery.Cost < 0 {
		return invalid("deliveryInfo.cost", "must not be negative")
	}
	return nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidPayload, field, msg)
}
