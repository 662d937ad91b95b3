package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/pokertools/tablewatch/internal/deck"
	"github.com/pokertools/tablewatch/internal/game"
)

// EventKind identifies a recognized table occurrence.
type EventKind int

const (
	EventAction EventKind = iota
	EventFlop
	EventTurn
	EventRiver
	EventReveal
	EventShowdown
)

// Event is one well-typed occurrence recognized at the table: a
// betting action, community cards, a hole-card reveal or the showdown
// itself. Recognition internals live upstream; the session only
// consumes events.
type Event struct {
	Kind    EventKind
	Seat    int
	Action  game.ActionKind
	Amount  int
	Elapsed time.Duration
	Cards   []deck.Card
}

// Sink receives a round snapshot after every applied event.
type Sink interface {
	Publish(snap game.Snapshot)
}

// Session replays scripted hands through a game, publishing a snapshot
// to every sink after each event. Events are paced at the script's
// tick rate; a zero tick replays as fast as possible.
type Session struct {
	script *Script
	game   *game.Game
	logger *log.Logger
	clock  quartz.Clock
	tick   time.Duration
	sinks  []Sink
	last   time.Time
}

// New builds a session from a validated script.
func New(script *Script, logger *log.Logger, clock quartz.Clock, sinks ...Sink) (*Session, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	seats := append([]SeatConfig(nil), script.Seats...)
	sort.Slice(seats, func(i, j int) bool { return seats[i].Number < seats[j].Number })
	players := make([]*game.Player, 0, len(seats))
	for _, seat := range seats {
		players = append(players, game.NewPlayer(seat.Name, seat.Number, seat.Stack))
	}

	g, err := game.NewGame(players...)
	if err != nil {
		return nil, err
	}
	g.SetBuyIn(script.Session.BuyIn)

	return &Session{
		script: script,
		game:   g,
		logger: logger.WithPrefix("session").With("room", script.Session.Room),
		clock:  clock,
		tick:   time.Duration(script.Session.TickMS) * time.Millisecond,
		sinks:  sinks,
		last:   clock.Now(),
	}, nil
}

// Game returns the underlying game.
func (s *Session) Game() *game.Game { return s.game }

// Run replays every scripted hand in order. It returns the first
// error from an event that the round rejects, or the context error if
// cancelled while pacing.
func (s *Session) Run(ctx context.Context) error {
	for i, hand := range s.script.Hands {
		if err := s.playHand(ctx, hand); err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Session) playHand(ctx context.Context, hand HandConfig) error {
	heroCards, err := deck.ParseAll(hand.Hero...)
	if err != nil {
		return err
	}
	heroHand, err := deck.NewHand(heroCards[0], heroCards[1])
	if err != nil {
		return err
	}

	round, err := s.game.StartRound(
		game.Blinds{Small: hand.SmallBlind, Big: hand.BigBlind},
		heroHand,
		hand.Dealer,
	)
	if err != nil {
		return err
	}
	s.logger.Info("hand started",
		"round", round.ID(),
		"dealer", hand.Dealer,
		"small", hand.SmallBlind,
		"big", hand.BigBlind)
	s.publish(round.Snapshot())

	events, err := handEvents(hand)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if round.Settled() {
			break
		}
		if err := s.pace(ctx); err != nil {
			return err
		}
		if err := s.Handle(ev); err != nil {
			return err
		}
	}

	snap := round.Snapshot()
	s.logger.Info("hand complete", "pot", snap.Pot, "won", snap.Won)
	return nil
}

// Handle applies one event to the current round and publishes the
// resulting snapshot.
func (s *Session) Handle(ev Event) error {
	round := s.game.CurrentRound()
	if round == nil {
		return fmt.Errorf("no round in progress")
	}

	var err error
	switch ev.Kind {
	case EventAction:
		elapsed := ev.Elapsed
		if elapsed == 0 {
			elapsed = s.clock.Since(s.last)
		}
		err = round.Apply(game.Action{
			Kind:    ev.Action,
			Seat:    ev.Seat,
			Amount:  ev.Amount,
			Elapsed: elapsed,
		})

	case EventFlop:
		if len(ev.Cards) != 3 {
			return fmt.Errorf("flop needs three cards, got %d", len(ev.Cards))
		}
		err = round.SetFlop([3]deck.Card{ev.Cards[0], ev.Cards[1], ev.Cards[2]})

	case EventTurn:
		if len(ev.Cards) != 1 {
			return fmt.Errorf("turn needs one card, got %d", len(ev.Cards))
		}
		err = round.SetTurn(ev.Cards[0])

	case EventRiver:
		if len(ev.Cards) != 1 {
			return fmt.Errorf("river needs one card, got %d", len(ev.Cards))
		}
		err = round.SetRiver(ev.Cards[0])

	case EventReveal:
		if len(ev.Cards) != 2 {
			return fmt.Errorf("reveal needs two cards, got %d", len(ev.Cards))
		}
		var hand deck.Hand
		hand, err = deck.NewHand(ev.Cards[0], ev.Cards[1])
		if err == nil {
			err = round.SetPlayerHand(hand, ev.Seat)
		}

	case EventShowdown:
		err = round.Showdown()

	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	if err != nil {
		return err
	}

	s.last = s.clock.Now()
	s.logger.Debug("event applied", "kind", ev.Kind, "seat", ev.Seat, "street", round.CurrentStreet())
	s.publish(round.Snapshot())
	return nil
}

// handEvents flattens a hand config into the event sequence to replay:
// streets in script order, then reveals, then the showdown. Fold-outs
// settle the round early and the tail is never reached.
func handEvents(hand HandConfig) ([]Event, error) {
	var events []Event
	for _, street := range hand.Streets {
		cards, err := deck.ParseAll(street.Cards...)
		if err != nil {
			return nil, err
		}
		switch street.Name {
		case game.Flop.String():
			events = append(events, Event{Kind: EventFlop, Cards: cards})
		case game.Turn.String():
			events = append(events, Event{Kind: EventTurn, Cards: cards})
		case game.River.String():
			events = append(events, Event{Kind: EventRiver, Cards: cards})
		}
		for _, action := range street.Actions {
			kind, err := parseActionKind(action.Kind)
			if err != nil {
				return nil, err
			}
			events = append(events, Event{
				Kind:    EventAction,
				Seat:    action.Seat,
				Action:  kind,
				Amount:  action.Amount,
				Elapsed: time.Duration(action.Elapsed) * time.Second,
			})
		}
	}
	for _, reveal := range hand.Reveals {
		cards, err := deck.ParseAll(reveal.Cards...)
		if err != nil {
			return nil, err
		}
		events = append(events, Event{Kind: EventReveal, Seat: reveal.Seat, Cards: cards})
	}
	events = append(events, Event{Kind: EventShowdown})
	return events, nil
}

// pace waits one tick between events, honoring cancellation.
func (s *Session) pace(ctx context.Context) error {
	if s.tick <= 0 {
		return ctx.Err()
	}
	timer := s.clock.NewTimer(s.tick)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) publish(snap game.Snapshot) {
	for _, sink := range s.sinks {
		sink.Publish(snap)
	}
}
