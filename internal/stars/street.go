package stars

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lox/ohh2stars/internal/ohh"
)

const allInSuffix = " and is all-in"

// betEntry records, for one Bet or Raise, the amount standing before it, the
// new amount, and whether an earlier Bet/Raise had already happened on the
// street.
type betEntry struct {
	prior       decimal.Decimal
	amount      decimal.Decimal
	hadPriorBet bool
}

// betTracker is scoped to a single street and discarded afterwards.
type betTracker struct {
	lastBet decimal.Decimal
	hasBet  bool
	entries map[int]betEntry
}

func newBetTracker() *betTracker {
	return &betTracker{entries: make(map[int]betEntry)}
}

// observe updates the tracker with an action as it is scanned. Blind and ante
// posts move the running amount without becoming a raise baseline entry.
func (t *betTracker) observe(a ohh.Action) {
	if !a.Amount.Valid {
		return
	}
	amount := a.Amount.Decimal
	switch a.Kind {
	case ohh.ActionPostSB, ohh.ActionPostBB, ohh.ActionPostAnte:
		t.lastBet = amount
	case ohh.ActionBet, ohh.ActionRaise:
		t.entries[a.Number] = betEntry{prior: t.lastBet, amount: amount, hadPriorBet: t.hasBet}
		t.lastBet = amount
		t.hasBet = true
	}
}

func (t *betTracker) lookup(actionNumber int) (betEntry, bool) {
	e, ok := t.entries[actionNumber]
	return e, ok
}

func (r *Renderer) renderRound(h *ohh.HandRecord, round ohh.Round, board []string) []string {
	tracker := newBetTracker()
	var blinds, deals, other []string

	for _, a := range round.Actions {
		tracker.observe(a)

		line, ok := actionLine(h, a, tracker)
		if !ok {
			continue
		}
		switch a.Kind {
		case ohh.ActionPostSB, ohh.ActionPostBB, ohh.ActionPostAnte:
			blinds = append(blinds, line)
		case ohh.ActionDealtCards:
			deals = append(deals, line)
		default:
			other = append(other, line)
		}
	}

	header := streetHeader(round.Street, round.Cards, board)
	lines := make([]string, 0, len(blinds)+len(deals)+len(other)+1)
	if round.Street == ohh.StreetPreflop {
		lines = append(lines, blinds...)
		lines = appendHeader(lines, header)
	} else {
		lines = appendHeader(lines, header)
		lines = append(lines, blinds...)
	}
	lines = append(lines, deals...)
	lines = append(lines, other...)

	if header == "" && round.Street != "" {
		r.logger.Debug().Str("game_number", h.GameNumber).Str("street", round.Street).Msg("no header for street")
	}
	return lines
}

func appendHeader(lines []string, header string) []string {
	if header == "" {
		return lines
	}
	return append(lines, header)
}

// streetHeader returns the marker line for a street. board holds every card
// revealed up to and including this street; cards holds this street's cards.
func streetHeader(street string, cards, board []string) string {
	switch street {
	case ohh.StreetPreflop:
		return "*** HOLE CARDS ***"
	case ohh.StreetFlop:
		return fmt.Sprintf("*** FLOP *** [%s]", FormatCards(cards))
	case ohh.StreetTurn:
		if len(board) >= 4 {
			return fmt.Sprintf("*** TURN *** [%s] [%s]", FormatCards(board[:3]), FormatCard(board[3]))
		}
		return fmt.Sprintf("*** TURN *** [%s]", FormatCards(cards))
	case ohh.StreetRiver:
		if len(board) >= 5 {
			return fmt.Sprintf("*** RIVER *** [%s] [%s]", FormatCards(board[:4]), FormatCard(board[4]))
		}
		return fmt.Sprintf("*** RIVER *** [%s]", FormatCards(cards))
	case ohh.StreetShowdown:
		return "*** SHOW DOWN ***"
	default:
		return ""
	}
}

// actionLine renders one action. Actions without an actor, and kinds the
// grammar has no line for, report false.
func actionLine(h *ohh.HandRecord, a ohh.Action, tracker *betTracker) (string, bool) {
	if a.PlayerID == nil {
		return "", false
	}
	pid := *a.PlayerID
	name := playerName(h, pid)
	amount := a.Amount.Decimal
	allIn := ""
	if a.AllIn() {
		allIn = allInSuffix
	}

	switch a.Kind {
	case ohh.ActionPostSB:
		return fmt.Sprintf("%s: posts small blind %s", name, FormatMoney(amount)), true
	case ohh.ActionPostBB:
		return fmt.Sprintf("%s: posts big blind %s", name, FormatMoney(amount)), true
	case ohh.ActionPostAnte:
		return fmt.Sprintf("%s: posts the ante %s", name, FormatMoney(amount)), true
	case ohh.ActionDealtCards:
		if h.HeroPlayerID != nil && *h.HeroPlayerID != pid {
			return "", false
		}
		if len(a.Cards) < 2 {
			return "", false
		}
		return fmt.Sprintf("Dealt to %s [%s %s]", name, FormatCard(a.Cards[0]), FormatCard(a.Cards[1])), true
	case ohh.ActionFold:
		return name + ": folds", true
	case ohh.ActionCheck:
		return name + ": checks", true
	case ohh.ActionCall:
		return fmt.Sprintf("%s: calls %s%s", name, FormatMoney(amount), allIn), true
	case ohh.ActionBet:
		if e, ok := tracker.lookup(a.Number); ok && e.hadPriorBet && e.prior.IsPositive() {
			return raiseLine(name, amount, e.prior, allIn), true
		}
		return betLine(name, amount, allIn), true
	case ohh.ActionRaise:
		// An opening action labelled Raise has no baseline and reads as a bet.
		if e, ok := tracker.lookup(a.Number); ok && e.prior.IsPositive() {
			return raiseLine(name, amount, e.prior, allIn), true
		}
		return betLine(name, amount, allIn), true
	case ohh.ActionShowsCards:
		if len(a.Cards) >= 2 {
			return fmt.Sprintf("%s: shows [%s %s]", name, FormatCard(a.Cards[0]), FormatCard(a.Cards[1])), true
		}
		return name + ": shows", true
	case ohh.ActionMuck:
		return name + ": mucks hand", true
	default:
		return "", false
	}
}

func betLine(name string, amount decimal.Decimal, allIn string) string {
	return fmt.Sprintf("%s: bets %s%s", name, FormatMoney(amount), allIn)
}

func raiseLine(name string, amount, prior decimal.Decimal, allIn string) string {
	return fmt.Sprintf("%s: raises %s to %s%s", name, FormatMoney(amount.Sub(prior)), FormatMoney(amount), allIn)
}
