package game

import (
	"fmt"

	"github.com/pokertools/tablewatch/internal/deck"
)

// Texture is the set of board-only properties recomputed after every
// street. GutShots counts the five-rank windows one card short of a
// straight, and is zero once the board itself holds a straight.
type Texture struct {
	Pair             bool
	TwoPair          bool
	Trips            bool
	Straight         bool
	PossibleStraight bool
	GutShots         int
	Flush            bool
	PossibleFlush    bool
	FlushDraw        bool
	FullHouse        bool
	Quads            bool
	StraightFlush    bool
}

// Board holds the community cards. Cards arrive append-only in three
// stages (flop, turn, river), so the length is always 0, 3, 4 or 5.
// Frequency tables and texture flags are recomputed on every append.
type Board struct {
	cards []deck.Card
	ranks [15]int
	suits [4]int
	tex   Texture
}

// NewBoard creates a board from zero, three, four or five cards.
func NewBoard(cards ...deck.Card) (*Board, error) {
	switch len(cards) {
	case 0, 3, 4, 5:
	default:
		return nil, fmt.Errorf("%w: board cannot hold %d cards", ErrBoardSequence, len(cards))
	}
	b := &Board{cards: append([]deck.Card(nil), cards...)}
	b.recompute()
	return b, nil
}

// Cards returns the community cards in reveal order.
func (b *Board) Cards() []deck.Card {
	return append([]deck.Card(nil), b.cards...)
}

// Texture returns the current board properties.
func (b *Board) Texture() Texture {
	return b.tex
}

// SetFlop reveals the first three cards on an empty board.
func (b *Board) SetFlop(cards [3]deck.Card) error {
	if len(b.cards) != 0 {
		return fmt.Errorf("%w: flop on a board of %d cards", ErrBoardSequence, len(b.cards))
	}
	b.cards = append(b.cards, cards[0], cards[1], cards[2])
	b.recompute()
	return nil
}

// SetTurn reveals the fourth card.
func (b *Board) SetTurn(card deck.Card) error {
	if len(b.cards) != 3 {
		return fmt.Errorf("%w: turn on a board of %d cards", ErrBoardSequence, len(b.cards))
	}
	b.cards = append(b.cards, card)
	b.recompute()
	return nil
}

// SetRiver reveals the fifth card.
func (b *Board) SetRiver(card deck.Card) error {
	if len(b.cards) != 4 {
		return fmt.Errorf("%w: river on a board of %d cards", ErrBoardSequence, len(b.cards))
	}
	b.cards = append(b.cards, card)
	b.recompute()
	return nil
}

// Evaluate classifies the hand combined with the board.
func (b *Board) Evaluate(hand deck.Hand) (Strength, error) {
	if len(b.cards) < 3 {
		return Strength{}, fmt.Errorf("%w: evaluation needs a flop", ErrBoardSequence)
	}
	return evaluateCards(append(b.Cards(), hand.First, hand.Second)), nil
}

// CompareHands orders two hole-card hands against this board: positive
// when the first wins, negative when the second wins, zero on a tie.
func (b *Board) CompareHands(h1, h2 deck.Hand) (int, error) {
	s1, err := b.Evaluate(h1)
	if err != nil {
		return 0, err
	}
	s2, err := b.Evaluate(h2)
	if err != nil {
		return 0, err
	}
	return CompareStrength(s1, s2), nil
}

func (b *Board) recompute() {
	b.ranks = rankFrequencies(b.cards)
	b.suits = suitFrequencies(b.cards)

	pairs, trips, quads := 0, false, false
	for r := deck.Two; r <= deck.Ace; r++ {
		switch b.ranks[r] {
		case 2:
			pairs++
		case 3:
			trips = true
		case 4:
			quads = true
		}
	}

	suited2, suited3 := false, false
	for s := range b.suits {
		switch {
		case b.suits[s] >= 3:
			suited3 = true
		case b.suits[s] == 2:
			suited2 = true
		}
	}

	_, hasStraight := highestStraight(b.ranks)

	flush := false
	straightFlush := false
	for s := deck.Spade; s <= deck.Club; s++ {
		if b.suits[s] < 5 {
			continue
		}
		flush = true
		if _, ok := highestStraight(rankFrequencies(cardsOfSuit(b.cards, s))); ok {
			straightFlush = true
		}
	}

	b.tex = Texture{
		Pair:             pairs >= 1 || trips || quads,
		TwoPair:          pairs >= 2 || (pairs >= 1 && trips),
		Trips:            trips,
		Straight:         hasStraight,
		PossibleStraight: b.countStraightWindows(3) > 0,
		GutShots:         0,
		Flush:            flush,
		PossibleFlush:    suited3,
		FlushDraw:        suited2 && !suited3,
		FullHouse:        trips && pairs >= 1,
		Quads:            quads,
		StraightFlush:    straightFlush,
	}
	if !hasStraight {
		b.tex.GutShots = b.countStraightWindows(4)
	}
}

// countStraightWindows counts five-rank windows holding exactly want
// distinct board ranks when want is 4, or at least want otherwise.
func (b *Board) countStraightWindows(want int) int {
	count := 0
	for start := 1; start <= 10; start++ {
		present := 0
		for i := start; i < start+5; i++ {
			if b.ranks[i] > 0 {
				present++
			}
		}
		if want == 4 {
			if present == 4 {
				count++
			}
		} else if present >= want {
			count++
		}
	}
	return count
}
