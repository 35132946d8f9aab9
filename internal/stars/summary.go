package stars

import (
	"fmt"
	"strings"

	"github.com/lox/ohh2stars/internal/ohh"
)

const (
	summaryHeader = "*** SUMMARY ***"
	emptySummary  = summaryHeader + "\nTotal pot $0.00 | Rake $0.00"
)

// summary renders the closing block. Only the first pot is reported; side
// pots are not broken out.
func summary(h *ohh.HandRecord) string {
	if len(h.Pots) == 0 {
		return emptySummary
	}
	pot := h.Pots[0]

	lines := []string{
		summaryHeader,
		fmt.Sprintf("Total pot %s | Rake %s", FormatMoney(pot.Amount), FormatMoney(pot.Rake)),
	}

	if board := communityCards(h); len(board) > 0 {
		lines = append(lines, fmt.Sprintf("Board [%s]", FormatCards(board)))
	}

	for _, w := range pot.PlayerWins {
		lines = append(lines, fmt.Sprintf("Seat %d: %s collected (%s)",
			playerSeat(h, w.PlayerID),
			playerName(h, w.PlayerID),
			FormatMoney(w.WinAmount),
		))
	}

	return strings.Join(lines, "\n")
}

// communityCards collects the flop, turn and river cards in round order.
func communityCards(h *ohh.HandRecord) []string {
	var board []string
	for _, r := range h.Rounds {
		switch r.Street {
		case ohh.StreetFlop, ohh.StreetTurn, ohh.StreetRiver:
			board = append(board, r.Cards...)
		}
	}
	return board
}
