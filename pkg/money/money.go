// Package money formatea montos para exportaciones, PDF y etiquetas de la UI.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount devuelve el monto con separador de miles y 2 decimales, ej. "1,234.50".
func Amount(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Format antepone el símbolo de moneda, ej. "Rs. 1,234.50".
func Format(symbol string, d decimal.Decimal) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Amount(d)
	}
	return symbol + " " + Amount(d)
}
