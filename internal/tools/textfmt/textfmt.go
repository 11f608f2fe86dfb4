// Package textfmt formats numbers and line blocks for tool output.
package textfmt

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amounts use comma grouping and a dot decimal separator regardless of the UI language.
var printer = message.NewPrinter(language.English)

// Currency renders an amount as "$1,234.56".
func Currency(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

// Lines joins output lines with newlines.
func Lines(lines ...string) string {
	return strings.Join(lines, "\n")
}

// Bullet formats one list item of tool output.
func Bullet(label, value string) string {
	return " - " + label + ": " + value
}
