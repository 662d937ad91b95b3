package deck

import "fmt"

// Hand is a player's two hole cards.
type Hand struct {
	First  Card
	Second Card
}

// NewHand creates a hole-card pair from two distinct cards.
func NewHand(first, second Card) (Hand, error) {
	if first == second {
		return Hand{}, fmt.Errorf("duplicate card %s in hand", first)
	}
	return Hand{First: first, Second: second}, nil
}

// ParseHand builds a hand from two short codes.
func ParseHand(first, second string) (Hand, error) {
	a, err := Parse(first)
	if err != nil {
		return Hand{}, err
	}
	b, err := Parse(second)
	if err != nil {
		return Hand{}, err
	}
	return NewHand(a, b)
}

// Cards returns both cards, first then second.
func (h Hand) Cards() []Card {
	return []Card{h.First, h.Second}
}

// Suited returns true when both cards share a suit.
func (h Hand) Suited() bool {
	return h.First.Suit == h.Second.Suit
}

// Pair returns true when both cards share a rank.
func (h Hand) Pair() bool {
	return h.First.Rank == h.Second.Rank
}

// Broadway returns true when both cards are ten or higher.
func (h Hand) Broadway() bool {
	return h.First.IsBroadway() && h.Second.IsBroadway()
}

// Connected returns true for adjacent ranks, counting ace-two.
func (h Hand) Connected() bool {
	hi, lo := h.First.Rank, h.Second.Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == Ace && lo == Two {
		return true
	}
	return hi-lo == 1
}

// String returns the short form of the hand (e.g. "AH KH").
func (h Hand) String() string {
	return h.First.Short() + " " + h.Second.Short()
}
