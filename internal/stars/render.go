// Package stars renders decoded OHH hands in the PokerStars hand-history
// text grammar.
package stars

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/ohh2stars/internal/ohh"
)

// ClientName is the site name written into every hand header.
const ClientName = "PokerStars"

const (
	unknownName = "Unknown"
	unknownSeat = 0
)

// Renderer turns hand records into PokerStars text. It holds no per-hand
// state and is safe for concurrent use.
type Renderer struct {
	logger zerolog.Logger
}

// NewRenderer creates a renderer reporting diagnostics to logger.
func NewRenderer(logger zerolog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render renders a hand with logging disabled.
func Render(hand ohh.HandRecord) string {
	return NewRenderer(zerolog.Nop()).Render(hand)
}

// Render produces the full text block for one hand. It never fails: missing
// references degrade to placeholder names and seats.
func (r *Renderer) Render(hand ohh.HandRecord) string {
	lines := []string{
		headerLine(&hand),
		tableLine(&hand),
	}
	lines = append(lines, seatLines(&hand)...)

	board := make([]string, 0, 5)
	for _, round := range hand.Rounds {
		board = append(board, round.Cards...)
		lines = append(lines, r.renderRound(&hand, round, board)...)
	}

	lines = append(lines, summary(&hand))

	r.logger.Debug().
		Str("game_number", hand.GameNumber).
		Int("rounds", len(hand.Rounds)).
		Int("lines", len(lines)).
		Msg("rendered hand")
	return strings.Join(lines, "\n")
}

func headerLine(h *ohh.HandRecord) string {
	return fmt.Sprintf("%s Hand #%s: Hold'em No Limit (%s/%s %s) - %s UTC",
		ClientName,
		h.GameNumber,
		FormatMoney(h.SmallBlindAmount),
		FormatMoney(h.BigBlindAmount),
		h.CurrencyOrDefault(),
		headerTimestamp(h.StartDateUTC),
	)
}

// headerTimestamp drops any fractional seconds and swaps the ISO-8601 date
// separator for a space: 2023-12-05T02:50:49.886Z -> 2023-12-05 02:50:49.
func headerTimestamp(start string) string {
	ts, _, _ := strings.Cut(start, ".")
	return strings.ReplaceAll(ts, "T", " ")
}

func tableLine(h *ohh.HandRecord) string {
	return fmt.Sprintf("Table '%s' %d-max Seat #%d is the button", h.TableName, h.TableSize, h.DealerSeat)
}

func seatLines(h *ohh.HandRecord) []string {
	players := append([]ohh.Player(nil), h.Players...)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Seat < players[j].Seat
	})

	lines := make([]string, 0, len(players))
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("Seat %d: %s (%s in chips)", p.Seat, p.Name, FormatMoney(p.StartingStack)))
	}
	return lines
}

func playerName(h *ohh.HandRecord, id ohh.PlayerID) string {
	if p, ok := h.PlayerByID(id); ok {
		return p.Name
	}
	return unknownName
}

func playerSeat(h *ohh.HandRecord, id ohh.PlayerID) int {
	if p, ok := h.PlayerByID(id); ok {
		return p.Seat
	}
	return unknownSeat
}
