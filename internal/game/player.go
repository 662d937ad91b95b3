package game

import "strings"

// Player is one seat at the table. The round mutates the stack while
// adjudicating actions and settling pots; callers keep the pointer and
// see the result.
type Player struct {
	Name       string
	Number     int
	Stack      int
	Eliminated bool
}

// NewPlayer creates a seated player with a starting stack.
func NewPlayer(name string, number, stack int) *Player {
	return &Player{Name: name, Number: number, Stack: stack}
}

// ID returns the player's serialization identifier, the name with
// spaces flattened to underscores.
func (p *Player) ID() string {
	return strings.ReplaceAll(p.Name, " ", "_")
}

// IsHero returns true for the observed seat, always seat 1.
func (p *Player) IsHero() bool {
	return p.Number == 1
}

// Bust marks the player eliminated once their stack is gone.
func (p *Player) Bust() {
	p.Eliminated = true
}
