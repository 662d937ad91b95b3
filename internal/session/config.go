package session

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/pokertools/tablewatch/internal/deck"
	"github.com/pokertools/tablewatch/internal/game"
)

// Script is a full session script: the table settings, the seats and
// the hands to replay, in order.
type Script struct {
	Session Settings     `hcl:"session,block"`
	Seats   []SeatConfig `hcl:"seat,block"`
	Hands   []HandConfig `hcl:"hand,block"`
}

// Settings contains session-level configuration.
type Settings struct {
	Room   string `hcl:"room,optional"`
	TickMS int    `hcl:"tick_ms,optional"`
	BuyIn  int    `hcl:"buy_in,optional"`
}

// SeatConfig seats one player for the whole session.
type SeatConfig struct {
	Name   string `hcl:"name,label"`
	Number int    `hcl:"number"`
	Stack  int    `hcl:"stack"`
}

// HandConfig replays one hand: positions, stakes, the hero's hole
// cards and the per-street events.
type HandConfig struct {
	Dealer     int            `hcl:"dealer"`
	SmallBlind int            `hcl:"small_blind"`
	BigBlind   int            `hcl:"big_blind"`
	Hero       []string       `hcl:"hero"`
	Streets    []StreetConfig `hcl:"street,block"`
	Reveals    []RevealConfig `hcl:"reveal,block"`
}

// StreetConfig lists the community cards revealed for the street and
// the actions taken on it.
type StreetConfig struct {
	Name    string         `hcl:"name,label"`
	Cards   []string       `hcl:"cards,optional"`
	Actions []ActionConfig `hcl:"action,block"`
}

// ActionConfig is one recognized action. Amount is the chips added for
// a bet or the street target for a raise; Elapsed is the decision time
// in seconds when known.
type ActionConfig struct {
	Kind    string `hcl:"kind"`
	Seat    int    `hcl:"seat"`
	Amount  int    `hcl:"amount,optional"`
	Elapsed int    `hcl:"elapsed,optional"`
}

// RevealConfig discloses a villain's hole cards ahead of showdown.
type RevealConfig struct {
	Seat  int      `hcl:"seat"`
	Cards []string `hcl:"cards"`
}

// LoadScript loads and validates a session script from an HCL file.
func LoadScript(filename string) (*Script, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(filename, src)
}

// ParseScript parses and validates an HCL session script.
func ParseScript(filename string, src []byte) (*Script, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var script Script
	diags = gohcl.DecodeBody(file.Body, nil, &script)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if script.Session.Room == "" {
		script.Session.Room = "table"
	}

	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

var streetCardCounts = map[string]int{
	game.PreFlop.String(): 0,
	game.Flop.String():    3,
	game.Turn.String():    1,
	game.River.String():   1,
}

// Validate checks the script for structural mistakes before any hand
// is replayed.
func (s *Script) Validate() error {
	if s.Session.TickMS < 0 {
		return fmt.Errorf("tick_ms must not be negative")
	}
	if len(s.Seats) < 2 {
		return fmt.Errorf("at least two seats must be configured")
	}

	seats := make(map[int]bool, len(s.Seats))
	names := make(map[string]bool, len(s.Seats))
	for _, seat := range s.Seats {
		if seat.Number < 1 {
			return fmt.Errorf("seat %s: number must be positive", seat.Name)
		}
		if seats[seat.Number] {
			return fmt.Errorf("seat %s: duplicate number %d", seat.Name, seat.Number)
		}
		if names[seat.Name] {
			return fmt.Errorf("seat %s: duplicate name", seat.Name)
		}
		if seat.Stack < 0 {
			return fmt.Errorf("seat %s: stack must not be negative", seat.Name)
		}
		seats[seat.Number] = true
		names[seat.Name] = true
	}

	for i, hand := range s.Hands {
		if err := validateHand(hand, seats); err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
	}
	return nil
}

func validateHand(hand HandConfig, seats map[int]bool) error {
	if !seats[hand.Dealer] {
		return fmt.Errorf("unknown dealer seat %d", hand.Dealer)
	}
	if hand.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if hand.BigBlind <= hand.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if len(hand.Hero) != 2 {
		return fmt.Errorf("hero needs exactly two cards, got %d", len(hand.Hero))
	}
	if _, err := deck.ParseAll(hand.Hero...); err != nil {
		return fmt.Errorf("hero cards: %w", err)
	}

	for _, street := range hand.Streets {
		want, ok := streetCardCounts[street.Name]
		if !ok {
			return fmt.Errorf("unknown street %q", street.Name)
		}
		if len(street.Cards) != want {
			return fmt.Errorf("street %s needs %d cards, got %d", street.Name, want, len(street.Cards))
		}
		if _, err := deck.ParseAll(street.Cards...); err != nil {
			return fmt.Errorf("street %s cards: %w", street.Name, err)
		}
		for _, action := range street.Actions {
			if _, err := parseActionKind(action.Kind); err != nil {
				return fmt.Errorf("street %s: %w", street.Name, err)
			}
			if !seats[action.Seat] {
				return fmt.Errorf("street %s: unknown seat %d", street.Name, action.Seat)
			}
			if action.Elapsed < 0 {
				return fmt.Errorf("street %s: elapsed must not be negative", street.Name)
			}
		}
	}

	for _, reveal := range hand.Reveals {
		if !seats[reveal.Seat] {
			return fmt.Errorf("reveal: unknown seat %d", reveal.Seat)
		}
		if len(reveal.Cards) != 2 {
			return fmt.Errorf("reveal for seat %d needs exactly two cards", reveal.Seat)
		}
		if _, err := deck.ParseAll(reveal.Cards...); err != nil {
			return fmt.Errorf("reveal for seat %d: %w", reveal.Seat, err)
		}
	}
	return nil
}

func parseActionKind(kind string) (game.ActionKind, error) {
	switch kind {
	case "check":
		return game.ActionCheck, nil
	case "bet":
		return game.ActionBet, nil
	case "raise":
		return game.ActionRaise, nil
	case "call":
		return game.ActionCall, nil
	case "fold":
		return game.ActionFold, nil
	default:
		return 0, fmt.Errorf("unknown action kind %q", kind)
	}
}
