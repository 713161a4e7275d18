package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as "Rp 20.000". Negative amounts keep
// their sign in front of the currency symbol.
func FormatRupiah(amount int64) string {
	if amount < 0 {
		return "-" + rupiahPrinter.Sprintf("Rp %d", -amount)
	}
	return rupiahPrinter.Sprintf("Rp %d", amount)
}
