package stars

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatMoney renders an amount as PokerStars money text, e.g. $1,234.50.
// Cents come from rounding the fractional part only; a rounded-up 100 cents
// carries into the dollar part.
func FormatMoney(v decimal.Decimal) string {
	abs := v.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Shift(2).Round(0)
	if cents.GreaterThanOrEqual(hundred) {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = cents.Sub(hundred)
	}

	out := fmt.Sprintf("$%s.%02d", humanize.BigComma(whole.BigInt()), cents.IntPart())
	if v.IsNegative() {
		return "-" + out
	}
	return out
}

// FormatCard normalizes a card code to rank upper-case and suit lower-case
// (th -> Th). Codes shorter than two characters are returned unchanged.
func FormatCard(card string) string {
	runes := []rune(card)
	if len(runes) < 2 {
		return card
	}
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1]))
}

// FormatCards normalizes and space-joins a run of cards.
func FormatCards(cards []string) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = FormatCard(c)
	}
	return strings.Join(out, " ")
}
