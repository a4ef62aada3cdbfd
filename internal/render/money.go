package render

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// symbols maps ISO 4217 codes to the symbol printed before amounts.
// Codes not listed print as "CODE ".
var symbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"GHS": "GH₵",
	"KES": "KSh",
	"ZAR": "R",
}

// Money formats amounts in one currency: symbol, thousands separators
// and exactly two decimals ("₦4,500.00").
type Money struct {
	code    string
	symbol  string
	printer *message.Printer
}

// NewMoney validates the ISO 4217 code and returns its formatter.
func NewMoney(code string) (*Money, error) {
	if code == "" {
		code = "NGN"
	}
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	iso := unit.String()
	symbol, ok := symbols[iso]
	if !ok {
		symbol = iso + " "
	}
	return &Money{
		code:    iso,
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Code returns the ISO 4217 code.
func (m *Money) Code() string { return m.code }

// Format renders v rounded to the nearest cent.
func (m *Money) Format(v float64) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	sign := ""
	if v < 0 && cents > 0 {
		sign = "-"
	}
	return sign + m.symbol + m.printer.Sprintf("%d", cents/100) + fmt.Sprintf(".%02d", cents%100)
}
