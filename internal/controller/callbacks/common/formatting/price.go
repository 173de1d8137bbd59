package formatting

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice formats whole rupees with thousands separators, e.g. ₹1,800
func FormatPrice(rupees int) string {
	if rupees < 0 {
		return "-₹" + printer.Sprintf("%d", -rupees)
	}
	return "₹" + printer.Sprintf("%d", rupees)
}

// FormatSigned prefixes credits with a plus, for ledger lines
func FormatSigned(rupees int) string {
	if rupees > 0 {
		return "+" + FormatPrice(rupees)
	}
	return FormatPrice(rupees)
}
