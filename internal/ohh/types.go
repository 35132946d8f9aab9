// Package ohh decodes Open Hand History (OHH) JSON documents into typed hand
// records.
package ohh

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const defaultGameNumber = "unknown"

// Street identifiers used by OHH rounds.
const (
	StreetPreflop  = "Preflop"
	StreetFlop     = "Flop"
	StreetTurn     = "Turn"
	StreetRiver    = "River"
	StreetShowdown = "Showdown"
)

// Action kinds the renderer understands. Anything else is carried through
// decoding untouched and skipped at render time.
const (
	ActionPostSB     = "Post SB"
	ActionPostBB     = "Post BB"
	ActionPostAnte   = "Post Ante"
	ActionDealtCards = "Dealt Cards"
	ActionFold       = "Fold"
	ActionCheck      = "Check"
	ActionCall       = "Call"
	ActionBet        = "Bet"
	ActionRaise      = "Raise"
	ActionShowsCards = "Shows Cards"
	ActionMuck       = "Muck"
)

// PlayerID is the normalized identity of a player. OHH producers emit ids as
// either JSON integers or strings; both decode to the same PlayerID.
type PlayerID string

// UnmarshalJSON accepts an integer or a string.
func (id *PlayerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("ohh: empty player id")
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("ohh: player id: %w", err)
		}
		*id = PlayerID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		if u, uerr := strconv.ParseUint(string(data), 10, 64); uerr == nil {
			*id = PlayerID(strconv.FormatUint(u, 10))
			return nil
		}
		return fmt.Errorf("ohh: player id must be a string or integer, got %s", data)
	}
	*id = PlayerID(strconv.FormatInt(n, 10))
	return nil
}

// HandRecord is one decoded hand.
type HandRecord struct {
	SpecVersion      *string         `json:"spec_version,omitempty"`
	GameNumber       string          `json:"game_number"`
	GameType         *string         `json:"game_type,omitempty"`
	BetLimit         *BetLimit       `json:"bet_limit,omitempty"`
	SmallBlindAmount decimal.Decimal `json:"small_blind_amount"`
	BigBlindAmount   decimal.Decimal `json:"big_blind_amount"`
	Currency         *string         `json:"currency,omitempty"`
	StartDateUTC     string          `json:"start_date_utc"`
	TableName        string          `json:"table_name"`
	TableSize        int             `json:"table_size"`
	TableHandle      *string         `json:"table_handle,omitempty"`
	DealerSeat       int             `json:"dealer_seat"`
	HeroPlayerID     *PlayerID       `json:"hero_player_id,omitempty"`
	SiteName         *string         `json:"site_name,omitempty"`
	NetworkName      *string         `json:"network_name,omitempty"`
	Players          []Player        `json:"players"`
	Rounds           []Round         `json:"rounds"`
	Pots             []Pot           `json:"pots"`
}

// UnmarshalJSON applies the game number default.
func (h *HandRecord) UnmarshalJSON(data []byte) error {
	type plain HandRecord
	raw := plain{GameNumber: defaultGameNumber}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = HandRecord(raw)
	return nil
}

// BetLimit describes the betting structure. Rendering always assumes
// No-Limit Hold'em.
type BetLimit struct {
	BetType *string `json:"bet_type,omitempty"`
}

// Player is a seated participant.
type Player struct {
	ID            PlayerID            `json:"id"`
	Seat          int                 `json:"seat"`
	Name          string              `json:"name"`
	Display       *string             `json:"display,omitempty"`
	StartingStack decimal.Decimal     `json:"starting_stack"`
	Bounty        decimal.NullDecimal `json:"player_bounty"`
}

// Round is one street. Cards holds only the cards revealed on this street.
type Round struct {
	ID      int      `json:"id"`
	Street  string   `json:"street"`
	Cards   []string `json:"cards"`
	Actions []Action `json:"actions"`
}

// Action is a single event within a round.
type Action struct {
	Number   int                 `json:"action_number"`
	PlayerID *PlayerID           `json:"player_id,omitempty"`
	Kind     string              `json:"action"`
	Amount   decimal.NullDecimal `json:"amount"`
	IsAllIn  *bool               `json:"is_allin,omitempty"`
	Cards    []string            `json:"cards,omitempty"`
}

// AllIn reports whether the action is flagged all-in.
func (a Action) AllIn() bool {
	return a.IsAllIn != nil && *a.IsAllIn
}

// Pot is an awarded pot.
type Pot struct {
	Number     int                 `json:"number"`
	Amount     decimal.Decimal     `json:"amount"`
	Rake       decimal.Decimal     `json:"rake"`
	Jackpot    decimal.NullDecimal `json:"jackpot"`
	PlayerWins []PlayerWin         `json:"player_wins"`
}

// PlayerWin is one winner's share of a pot.
type PlayerWin struct {
	PlayerID        PlayerID            `json:"player_id"`
	WinAmount       decimal.Decimal     `json:"win_amount"`
	ContributedRake decimal.NullDecimal `json:"contributed_rake"`
}

// PlayerByID returns the player with the given id.
func (h *HandRecord) PlayerByID(id PlayerID) (Player, bool) {
	for _, p := range h.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// CurrencyOrDefault returns the hand currency, USD when absent.
func (h *HandRecord) CurrencyOrDefault() string {
	if h.Currency == nil {
		return "USD"
	}
	return *h.Currency
}
