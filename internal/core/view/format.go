package view

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is appended to every displayed amount.
const Currency = "جنيه"

const dateLayout = "2006-01-02"

var printer = message.NewPrinter(language.English)

// FormatNumber groups thousands and keeps two decimals only for fractional values.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// FormatPrice renders an amount with the currency label.
func FormatPrice(v float64) string {
	return FormatNumber(v) + " " + Currency
}

// FormatDate renders t as a calendar date, or an empty string for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
