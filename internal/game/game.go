package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pokertools/tablewatch/internal/deck"
)

// Game tracks consecutive rounds at one table: the buy-in, the shared
// seats, eliminations between rounds and the eventual winner.
type Game struct {
	id      string
	buyIn   int
	players []*Player
	rounds  []*Round
	current *Round
}

// NewGame seats the players for a fresh game.
func NewGame(players ...*Player) (*Game, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: a game needs at least two seats", ErrIllegalAction)
	}
	return &Game{id: uuid.NewString(), players: players}, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// SetBuyIn records the tournament buy-in.
func (g *Game) SetBuyIn(buyIn int) { g.buyIn = buyIn }

// BuyIn returns the tournament buy-in.
func (g *Game) BuyIn() int { return g.buyIn }

// Players returns the seats in table order.
func (g *Game) Players() []*Player { return g.players }

// Rounds returns every round started so far, oldest first.
func (g *Game) Rounds() []*Round { return g.rounds }

// CurrentRound returns the round in progress, or nil between rounds.
func (g *Game) CurrentRound() *Round { return g.current }

// StartRound opens the next hand. The previous round must be settled;
// seats that finished it broke are eliminated before the new blinds are
// posted.
func (g *Game) StartRound(blinds Blinds, heroHand deck.Hand, button int) (*Round, error) {
	if g.current != nil && !g.current.Settled() {
		return nil, fmt.Errorf("%w: previous round still running", ErrIllegalAction)
	}
	g.eliminateBroke()
	round, err := NewRound(blinds, g.players, heroHand, button)
	if err != nil {
		return nil, err
	}
	g.rounds = append(g.rounds, round)
	g.current = round
	return round, nil
}

// Winner returns the last seat standing once all others are eliminated.
func (g *Game) Winner() (*Player, bool) {
	g.eliminateBroke()
	var winner *Player
	for _, p := range g.players {
		if p.Eliminated {
			continue
		}
		if winner != nil {
			return nil, false
		}
		winner = p
	}
	return winner, winner != nil
}

// Over reports whether the game has a winner.
func (g *Game) Over() bool {
	_, over := g.Winner()
	return over
}

func (g *Game) eliminateBroke() {
	if g.current != nil && !g.current.Settled() {
		return
	}
	for _, p := range g.players {
		if !p.Eliminated && p.Stack == 0 {
			p.Bust()
		}
	}
}

// PlayerView serializes one seat at game level.
type PlayerView struct {
	Name       string `json:"name"`
	Number     int    `json:"number"`
	Stack      int    `json:"stack"`
	Eliminated bool   `json:"eliminated"`
}

// GameSnapshot is the serializable view of a whole game.
type GameSnapshot struct {
	ID      string       `json:"id"`
	BuyIn   int          `json:"buy_in"`
	Players []PlayerView `json:"players"`
	Rounds  []Snapshot   `json:"rounds"`
	Winner  string       `json:"winner,omitempty"`
}

// Snapshot builds the serializable view of the game.
func (g *Game) Snapshot() GameSnapshot {
	players := make([]PlayerView, 0, len(g.players))
	for _, p := range g.players {
		players = append(players, PlayerView{
			Name:       p.ID(),
			Number:     p.Number,
			Stack:      p.Stack,
			Eliminated: p.Eliminated,
		})
	}
	rounds := make([]Snapshot, 0, len(g.rounds))
	for _, r := range g.rounds {
		rounds = append(rounds, r.Snapshot())
	}
	snap := GameSnapshot{ID: g.id, BuyIn: g.buyIn, Players: players, Rounds: rounds}
	if winner, ok := g.Winner(); ok {
		snap.Winner = winner.ID()
	}
	return snap
}
