package shared

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var grouping = message.NewPrinter(language.AmericanEnglish)

// FormatMoney renders minor units with the currency symbol and thousands
// grouping, e.g. FormatMoney("MXN", 123450) == "$1,234.50".
func FormatMoney(currency string, cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	amount := grouping.Sprintf("%d", cents/100) + fmt.Sprintf(".%02d", cents%100)

	code := strings.ToUpper(strings.TrimSpace(currency))
	switch code {
	case "MXN", "USD", "":
		return sign + "$" + amount
	case "EUR":
		return sign + "€" + amount
	case "TRY":
		return sign + "₺" + amount
	default:
		return sign + amount + " " + code
	}
}
