// Package view renders subscriptions and summaries for the terminal.
package view

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"subtrackr/internal/core"
)

// HumanDateLayout is how renewal dates are shown to the user.
const HumanDateLayout = "Jan 2, 2006"

// Formatter prints amounts with locale-aware separators behind a currency symbol.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

func NewFormatter(tag language.Tag, symbol string) Formatter {
	return Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// Money formats amount with two decimals, e.g. "$15.99" or "€15,99".
func (f Formatter) Money(amount float64) string {
	return f.symbol + f.printer.Sprintf("%.2f", core.RoundCents(amount))
}

// DaysLabel describes how far away a renewal is.
func DaysLabel(days int) string {
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "1 day"
	case days == -1:
		return "1 day overdue"
	case days < 0:
		return strconv.Itoa(-days) + " days overdue"
	default:
		return strconv.Itoa(days) + " days"
	}
}

// FormatDate renders a stored renewal date as "Jan 2, 2006". Unparseable input is returned unchanged.
func FormatDate(s string) string {
	t, err := core.ParseRenewalDate(s)
	if err != nil {
		return s
	}
	return t.Format(HumanDateLayout)
}
