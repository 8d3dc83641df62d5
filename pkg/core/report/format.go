// Package report renders a dashboard page as a Markdown document and
// formats its numbers for display.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// NotAvailable is shown for undefined statistics.
const NotAvailable = "n/a"

// FormatAmount formats a statement cell in its reporting currency. Cells that
// are not numbers ("None", dates, labels) are returned unchanged; numbers in
// an unknown currency keep their digits.
func FormatAmount(raw, currency string) string {
	raw = strings.TrimSpace(raw)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}

	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return amount.String()
	}
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}

// FormatPercent formats v (already in percent) with two decimals.
func FormatPercent(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatFloat formats v with prec decimals.
func FormatFloat(v float64, prec int) string {
	if !finite(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
