package deck

import "math/rand"

// Deck is an ordered stack of the 52 standard cards. Live rounds take
// their cards from table recognition, so the deck is only used where a
// full enumeration or a synthetic deal is needed.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a full deck in canonical order, drawing randomness
// from the given source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: All(), rng: rng}
	return d
}

// All returns the 52 cards in canonical order.
func All() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spade; suit <= Club; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle randomizes the order of the remaining cards.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals up to n cards.
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := d.Deal()
		if !ok {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Remaining returns the number of cards left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
