package game

import (
	"sort"

	"github.com/pokertools/tablewatch/internal/deck"
)

// HandRank is the category of a poker hand, weakest first.
type HandRank int

const (
	HighCard HandRank = iota
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
)

// String returns the display name of a hand category
func (r HandRank) String() string {
	switch r {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case Trips:
		return "Trips"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case Quads:
		return "Quads"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "?"
	}
}

// Strength is an adjudicated hand: its category and the five cards that
// define it, most significant first. Suits never matter for comparison,
// only the ordered ranks do.
type Strength struct {
	Rank HandRank
	Best [5]deck.Card
}

// CompareStrength orders two strengths: positive when a wins, negative
// when b wins, zero on an exact rank-for-rank tie.
func CompareStrength(a, b Strength) int {
	if a.Rank != b.Rank {
		if a.Rank > b.Rank {
			return 1
		}
		return -1
	}
	for i := 0; i < 5; i++ {
		if a.Best[i].Rank != b.Best[i].Rank {
			if a.Best[i].Rank > b.Best[i].Rank {
				return 1
			}
			return -1
		}
	}
	return 0
}

// rankFrequencies counts cards per rank. Index 14 is the ace; index 1
// mirrors it so low-straight windows can be scanned uniformly.
func rankFrequencies(cards []deck.Card) [15]int {
	var freq [15]int
	for _, c := range cards {
		freq[c.Rank]++
		if c.Rank == deck.Ace {
			freq[1]++
		}
	}
	return freq
}

// suitFrequencies counts cards per suit.
func suitFrequencies(cards []deck.Card) [4]int {
	var freq [4]int
	for _, c := range cards {
		freq[c.Suit]++
	}
	return freq
}

// evaluateCards classifies five to seven cards and extracts the
// defining five-card combination.
func evaluateCards(cards []deck.Card) Strength {
	ranks := rankFrequencies(cards)
	suits := suitFrequencies(cards)

	for s := deck.Spade; s <= deck.Club; s++ {
		if suits[s] < 5 {
			continue
		}
		suited := cardsOfSuit(cards, s)
		if high, ok := highestStraight(rankFrequencies(suited)); ok {
			return Strength{Rank: StraightFlush, Best: toBest(straightCombo(suited, high))}
		}
	}

	if quad := highestRankWithCount(ranks, 4); quad != 0 {
		combo := append(cardsOfRank(cards, quad), kickers(cards, 1, quad)...)
		return Strength{Rank: Quads, Best: toBest(combo)}
	}

	trip := highestRankWithCount(ranks, 3)
	if trip != 0 {
		var under deck.Rank
		for r := deck.Ace; r >= deck.Two; r-- {
			if r != trip && ranks[r] >= 2 {
				under = r
				break
			}
		}
		if under != 0 {
			combo := append(cardsOfRank(cards, trip), cardsOfRank(cards, under)[:2]...)
			return Strength{Rank: FullHouse, Best: toBest(combo)}
		}
	}

	for s := deck.Spade; s <= deck.Club; s++ {
		if suits[s] >= 5 {
			suited := cardsOfSuit(cards, s)
			sortByRankDesc(suited)
			return Strength{Rank: Flush, Best: toBest(suited[:5])}
		}
	}

	if high, ok := highestStraight(ranks); ok {
		return Strength{Rank: Straight, Best: toBest(straightCombo(cards, high))}
	}

	if trip != 0 {
		combo := append(cardsOfRank(cards, trip), kickers(cards, 2, trip)...)
		return Strength{Rank: Trips, Best: toBest(combo)}
	}

	var pairs []deck.Rank
	for r := deck.Ace; r >= deck.Two; r-- {
		if ranks[r] == 2 {
			pairs = append(pairs, r)
		}
	}
	switch {
	case len(pairs) >= 2:
		combo := append(cardsOfRank(cards, pairs[0]), cardsOfRank(cards, pairs[1])...)
		combo = append(combo, kickers(cards, 1, pairs[0], pairs[1])...)
		return Strength{Rank: TwoPair, Best: toBest(combo)}
	case len(pairs) == 1:
		combo := append(cardsOfRank(cards, pairs[0]), kickers(cards, 3, pairs[0])...)
		return Strength{Rank: Pair, Best: toBest(combo)}
	}

	return Strength{Rank: HighCard, Best: toBest(kickers(cards, 5))}
}

// highestStraight scans for the best fully-present five-rank window.
// Index 1 stands in for the ace, so a returned high of 5 is the wheel.
func highestStraight(freq [15]int) (int, bool) {
	for high := 14; high >= 5; high-- {
		run := true
		for i := high - 4; i <= high; i++ {
			if freq[i] == 0 {
				run = false
				break
			}
		}
		if run {
			return high, true
		}
	}
	return 0, false
}

// straightCombo picks one card per rank of the straight topped at high,
// descending. The wheel ends on the ace.
func straightCombo(cards []deck.Card, high int) []deck.Card {
	combo := make([]deck.Card, 0, 5)
	for i := high; i > high-5; i-- {
		rank := deck.Rank(i)
		if i == 1 {
			rank = deck.Ace
		}
		for _, c := range cards {
			if c.Rank == rank {
				combo = append(combo, c)
				break
			}
		}
	}
	return combo
}

func highestRankWithCount(freq [15]int, count int) deck.Rank {
	for r := deck.Ace; r >= deck.Two; r-- {
		if freq[r] == count {
			return r
		}
	}
	return 0
}

func cardsOfSuit(cards []deck.Card, suit deck.Suit) []deck.Card {
	var out []deck.Card
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func cardsOfRank(cards []deck.Card, rank deck.Rank) []deck.Card {
	var out []deck.Card
	for _, c := range cards {
		if c.Rank == rank {
			out = append(out, c)
		}
	}
	return out
}

// kickers returns the n highest cards whose ranks are not excluded.
func kickers(cards []deck.Card, n int, exclude ...deck.Rank) []deck.Card {
	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sortByRankDesc(sorted)

	out := make([]deck.Card, 0, n)
	for _, c := range sorted {
		skip := false
		for _, x := range exclude {
			if c.Rank == x {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

func sortByRankDesc(cards []deck.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Rank > cards[j].Rank
	})
}

func toBest(combo []deck.Card) [5]deck.Card {
	var best [5]deck.Card
	copy(best[:], combo)
	return best
}
