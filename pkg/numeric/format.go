package numeric

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money formatea un importe con separadores del locale español y dos
// decimales: 12345.5 → "$12.345,50".
func Money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return "$" + message.NewPrinter(language.Spanish).Sprintf("%.2f", f)
}

// Integer formatea un entero con separador de miles del locale español.
func Integer(n int) string {
	return message.NewPrinter(language.Spanish).Sprintf("%d", n)
}
