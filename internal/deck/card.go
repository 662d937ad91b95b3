package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spade Suit = iota
	Heart
	Diamond
	Club
)

// String returns the display name of a suit
func (s Suit) String() string {
	switch s {
	case Spade:
		return "Spade"
	case Heart:
		return "Heart"
	case Diamond:
		return "Diamond"
	case Club:
		return "Club"
	default:
		return "?"
	}
}

// Short returns the single-letter code of a suit
func (s Suit) Short() string {
	switch s {
	case Spade:
		return "S"
	case Heart:
		return "H"
	case Diamond:
		return "D"
	case Club:
		return "C"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Heart or Diamond)
func (s Suit) IsRed() bool {
	return s == Heart || s == Diamond
}

// Rank represents a card rank, ace high
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the display name of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "Two"
	case Three:
		return "Three"
	case Four:
		return "Four"
	case Five:
		return "Five"
	case Six:
		return "Six"
	case Seven:
		return "Seven"
	case Eight:
		return "Eight"
	case Nine:
		return "Nine"
	case Ten:
		return "Ten"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case Ace:
		return "Ace"
	default:
		return "?"
	}
}

// Short returns the single-character code of a rank
func (r Rank) Short() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Short returns the two-character code of a card (e.g. "AH")
func (c Card) Short() string {
	return c.Rank.Short() + c.Suit.Short()
}

// Name returns the display name of a card (e.g. "Ace of Heart")
func (c Card) Name() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// String returns the short code of a card
func (c Card) String() string {
	return c.Short()
}

// IsBroadway returns true for ten through ace
func (c Card) IsBroadway() bool {
	return c.Rank >= Ten
}

var ranksByCode = map[byte]Rank{
	'2': Two, '3': Three, '4': Four, '5': Five, '6': Six, '7': Seven,
	'8': Eight, '9': Nine, 'T': Ten, 'J': Jack, 'Q': Queen, 'K': King, 'A': Ace,
}

var suitsByCode = map[byte]Suit{
	'S': Spade, 'H': Heart, 'D': Diamond, 'C': Club,
}

// Parse builds a card from its two-character code (e.g. "KD").
// It fails on anything it does not recognize.
func Parse(short string) (Card, error) {
	if len(short) != 2 {
		return Card{}, fmt.Errorf("unknown card %q", short)
	}
	rank, ok := ranksByCode[short[0]]
	if !ok {
		return Card{}, fmt.Errorf("unknown card %q", short)
	}
	suit, ok := suitsByCode[short[1]]
	if !ok {
		return Card{}, fmt.Errorf("unknown card %q", short)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MustParse is Parse for trusted literals, panicking on error.
func MustParse(short string) Card {
	c, err := Parse(short)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseAll parses a list of short codes in order.
func ParseAll(shorts ...string) ([]Card, error) {
	cards := make([]Card, 0, len(shorts))
	for _, s := range shorts {
		c, err := Parse(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
