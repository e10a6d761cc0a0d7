package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an exact amount in one currency. The platform transmits amounts
// as decimal strings, which decimal.Decimal decodes without loss.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// Format renders the amount for display, e.g. "$19.90".
func (m Money) Format() string {
	return FormatPrice(m.Amount, m.CurrencyCode)
}

// Times returns the amount multiplied by n in the same currency.
func (m Money) Times(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), CurrencyCode: m.CurrencyCode}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

const defaultCurrency = "USD"

// FormatPrice renders an amount the way an en-US shopper expects: the CLDR
// currency symbol, thousands grouping and the currency's standard number of
// minor digits. Currencies without an en-US symbol render as "CHF 99.00".
// An empty code means USD. Codes that are not ISO 4217 render as "CODE 12.34".
//
//	FormatPrice(decimal.RequireFromString("19.9"), "USD") // "$19.90"
//	FormatPrice(decimal.NewFromInt(1500), "JPY")          // "¥1,500"
func FormatPrice(amount decimal.Decimal, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		code = defaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + amount.StringFixed(2)
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	digits := groupThousands(rounded.StringFixed(int32(scale)))

	symbol := currencySymbol(unit)
	if symbol == unit.String() {
		return sign + code + " " + digits
	}
	return sign + symbol + digits
}

// currencySymbol returns the CLDR en-US symbol for unit, or its ISO code
// when the locale has none.
func currencySymbol(unit currency.Unit) string {
	return message.NewPrinter(language.AmericanEnglish).Sprint(currency.Symbol(unit))
}

// groupThousands inserts commas into the integer part of a plain decimal string.
func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
