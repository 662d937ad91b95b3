package game

import (
	"time"

	"github.com/pokertools/tablewatch/internal/deck"
)

// CardView is the serialized form of a card inside a round snapshot.
type CardView struct {
	ShortName string `json:"shortName"`
	Rank      string `json:"rank"`
	Suit      string `json:"suit"`
}

// ActionView is one serialized action log entry. Amount appears only
// for actions that moved chips.
type ActionView struct {
	Action      string `json:"action"`
	Player      string `json:"player"`
	ElapsedTime int    `json:"elapsed_time"`
	Amount      int    `json:"amount,omitempty"`
}

// BlindsView serializes the stakes.
type BlindsView struct {
	Small int `json:"small"`
	Big   int `json:"big"`
}

// PositionsView serializes the forced positions by player identifier.
type PositionsView struct {
	Dealer     string `json:"dealer"`
	SmallBlind string `json:"small_blind"`
	BigBlind   string `json:"big_blind"`
}

// StackView serializes one seat's stack and net result for the round.
type StackView struct {
	Player  string `json:"player"`
	Stack   int    `json:"stack"`
	Balance int    `json:"balance"`
}

// Snapshot is the full serializable view of a round. Taking it twice
// without an intervening action yields identical output.
type Snapshot struct {
	Actions   map[string][]ActionView `json:"actions"`
	Board     []CardView              `json:"board"`
	Hands     map[string][]CardView   `json:"hands"`
	Pot       int                     `json:"pot"`
	Blinds    BlindsView              `json:"blinds"`
	Won       bool                    `json:"won"`
	Positions PositionsView           `json:"positions"`
	Ranking   [][]string              `json:"ranking"`
	Stacks    []StackView             `json:"stacks"`
}

func cardView(c deck.Card) CardView {
	return CardView{ShortName: c.Short(), Rank: c.Rank.String(), Suit: c.Suit.String()}
}

// Snapshot builds the serializable view of the round as it stands.
func (r *Round) Snapshot() Snapshot {
	actions := make(map[string][]ActionView, 4)
	for street := PreFlop; street <= River; street++ {
		views := make([]ActionView, 0, len(r.records[street]))
		for _, rec := range r.records[street] {
			views = append(views, ActionView{
				Action:      rec.Kind.String(),
				Player:      r.seats[rec.Seat].ID(),
				ElapsedTime: int(rec.Elapsed / time.Second),
				Amount:      rec.Amount,
			})
		}
		actions[street.String()] = views
	}

	boardCards := r.board.Cards()
	board := make([]CardView, 0, len(boardCards))
	for _, c := range boardCards {
		board = append(board, cardView(c))
	}

	hands := make(map[string][]CardView, len(r.order))
	for _, seat := range r.order {
		views := make([]CardView, 0, 2)
		if hand, ok := r.holes[seat]; ok {
			views = append(views, cardView(hand.First), cardView(hand.Second))
		}
		hands[r.seats[seat].ID()] = views
	}

	ranking := make([][]string, 0, len(r.ranking))
	for _, tier := range r.ranking {
		ids := make([]string, 0, len(tier))
		for _, seat := range tier {
			ids = append(ids, r.seats[seat].ID())
		}
		ranking = append(ranking, ids)
	}

	stacks := make([]StackView, 0, len(r.order))
	for _, seat := range r.order {
		p := r.seats[seat]
		stacks = append(stacks, StackView{
			Player:  p.ID(),
			Stack:   p.Stack,
			Balance: p.Stack - r.startStacks[seat],
		})
	}

	return Snapshot{
		Actions: actions,
		Board:   board,
		Hands:   hands,
		Pot:     r.Pot(),
		Blinds:  BlindsView{Small: r.blinds.Small, Big: r.blinds.Big},
		Won:     r.Won(),
		Positions: PositionsView{
			Dealer:     r.seats[r.button].ID(),
			SmallBlind: r.seats[r.sbSeat].ID(),
			BigBlind:   r.seats[r.bbSeat].ID(),
		},
		Ranking: ranking,
		Stacks:  stacks,
	}
}

// BoardCardView is the detailed serialized form of a community card.
type BoardCardView struct {
	ShortName string `json:"shortName"`
	FullName  string `json:"fullName"`
	Rank      string `json:"rank"`
	Suit      string `json:"suit"`
}

// TextureView serializes the board properties under their historical
// wire names.
type TextureView struct {
	Paire            bool `json:"paire"`
	DoublePaire      bool `json:"doublePaire"`
	Trips            bool `json:"trips"`
	Straight         bool `json:"straight"`
	PossibleStraight bool `json:"possibleStraight"`
	GutShots         int  `json:"gutShots"`
	Flush            bool `json:"flush"`
	PossibleFlush    bool `json:"possibleFlush"`
	FlushDraw        bool `json:"flushDraw"`
	Full             bool `json:"full"`
	Quads            bool `json:"quads"`
	StraightFlush    bool `json:"straightFlush"`
}

// BoardSnapshot is the serializable view of the community cards and
// their texture.
type BoardSnapshot struct {
	Cards      []BoardCardView `json:"cards"`
	Properties TextureView     `json:"properties"`
}

// Snapshot builds the serializable view of the board.
func (b *Board) Snapshot() BoardSnapshot {
	cards := make([]BoardCardView, 0, len(b.cards))
	for _, c := range b.cards {
		cards = append(cards, BoardCardView{
			ShortName: c.Short(),
			FullName:  c.Name(),
			Rank:      c.Rank.String(),
			Suit:      c.Suit.String(),
		})
	}
	tex := b.tex
	return BoardSnapshot{
		Cards: cards,
		Properties: TextureView{
			Paire:            tex.Pair,
			DoublePaire:      tex.TwoPair,
			Trips:            tex.Trips,
			Straight:         tex.Straight,
			PossibleStraight: tex.PossibleStraight,
			GutShots:         tex.GutShots,
			Flush:            tex.Flush,
			PossibleFlush:    tex.PossibleFlush,
			FlushDraw:        tex.FlushDraw,
			Full:             tex.FullHouse,
			Quads:            tex.Quads,
			StraightFlush:    tex.StraightFlush,
		},
	}
}
