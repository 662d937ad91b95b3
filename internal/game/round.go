package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pokertools/tablewatch/internal/deck"
)

// Blinds are the forced stakes posted before any action.
type Blinds struct {
	Small int
	Big   int
}

// Street is one of the four betting phases.
type Street int

const (
	PreFlop Street = iota
	Flop
	Turn
	River
)

// String returns the serialized street name
func (s Street) String() string {
	switch s {
	case PreFlop:
		return "pre_flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "?"
	}
}

// ActionKind identifies a betting action.
type ActionKind int

const (
	ActionCheck ActionKind = iota
	ActionBet
	ActionRaise
	ActionCall
	ActionFold
)

// String returns the serialized action name
func (k ActionKind) String() string {
	switch k {
	case ActionCheck:
		return "Check"
	case ActionBet:
		return "Bet"
	case ActionRaise:
		return "Raise"
	case ActionCall:
		return "Call"
	case ActionFold:
		return "Fold"
	default:
		return "?"
	}
}

// HasAmount reports whether the action carries chips into the pot.
func (k ActionKind) HasAmount() bool {
	return k == ActionBet || k == ActionRaise || k == ActionCall
}

// Action is a betting decision submitted to the round. Amount is the
// chips added for a bet, or the absolute street target for a raise.
// Elapsed is the decision time measured by the caller, zero if unknown.
type Action struct {
	Kind    ActionKind
	Seat    int
	Amount  int
	Elapsed time.Duration
}

// Record is one adjudicated log entry. Amount holds the chips actually
// paid, which for a raise is the increment, not the target.
type Record struct {
	Kind    ActionKind
	Seat    int
	Amount  int
	Elapsed time.Duration
}

// Round runs a single hand: blinds, four betting streets with strict
// turn order, pot accounting, showdown and finishing order. The button
// acts first on every street and action wraps in ascending seat order,
// skipping folded, eliminated and all-in seats.
type Round struct {
	id      string
	blinds  Blinds
	players []*Player
	seats   map[int]*Player
	order   []int
	button  int
	sbSeat  int
	bbSeat  int

	board *Board
	holes map[int]deck.Hand

	street      Street
	bettingOpen bool
	settled     bool

	records [4][]Record

	startStacks map[int]int
	streetPaid  map[int]int
	totalPaid   map[int]int
	streetBet   int
	aggressor   int
	toAct       []int

	folded    map[int]bool
	allIn     map[int]bool
	foldOrder []int

	ranking [][]int
}

// NewRound posts the blinds and opens pre-flop betting. The hero's hole
// cards are the only ones known up front; players are shared with the
// caller and their stacks are mutated in place. With exactly two active
// seats the button posts the small blind.
func NewRound(blinds Blinds, players []*Player, heroHand deck.Hand, button int) (*Round, error) {
	board, _ := NewBoard()
	r := &Round{
		id:          uuid.NewString(),
		blinds:      blinds,
		players:     players,
		seats:       make(map[int]*Player, len(players)),
		button:      button,
		board:       board,
		holes:       make(map[int]deck.Hand),
		startStacks: make(map[int]int, len(players)),
		streetPaid:  make(map[int]int, len(players)),
		totalPaid:   make(map[int]int, len(players)),
		folded:      make(map[int]bool),
		allIn:       make(map[int]bool),
	}
	for _, p := range players {
		if _, dup := r.seats[p.Number]; dup {
			return nil, fmt.Errorf("%w: duplicate seat %d", ErrUnknownSeat, p.Number)
		}
		r.seats[p.Number] = p
		r.order = append(r.order, p.Number)
		r.startStacks[p.Number] = p.Stack
	}
	sort.Ints(r.order)

	if _, ok := r.seats[button]; !ok {
		return nil, fmt.Errorf("%w: button seat %d", ErrUnknownSeat, button)
	}
	actives := r.activeSeats()
	if len(actives) < 2 {
		return nil, fmt.Errorf("%w: need at least two active seats", ErrIllegalAction)
	}
	if r.seats[button].Eliminated {
		return nil, fmt.Errorf("%w: button seat %d is eliminated", ErrIllegalAction, button)
	}

	if hero, ok := r.seats[1]; ok && !hero.Eliminated {
		r.holes[1] = heroHand
	}

	if len(actives) == 2 {
		r.sbSeat = button
		r.bbSeat = r.nextActive(button)
	} else {
		r.sbSeat = r.nextActive(button)
		r.bbSeat = r.nextActive(r.sbSeat)
	}
	r.pay(r.sbSeat, min(blinds.Small, r.seats[r.sbSeat].Stack))
	r.pay(r.bbSeat, min(blinds.Big, r.seats[r.bbSeat].Stack))

	r.street = PreFlop
	r.streetBet = blinds.Big
	r.openBetting()
	return r, nil
}

// ID returns the round identifier.
func (r *Round) ID() string { return r.id }

// Board returns the community cards seen so far.
func (r *Round) Board() *Board { return r.board }

// CurrentStreet returns the street being played.
func (r *Round) CurrentStreet() Street { return r.street }

// Settled reports whether the pot has been awarded.
func (r *Round) Settled() bool { return r.settled }

// Pot returns the sum of every contribution made so far, blinds
// included.
func (r *Round) Pot() int {
	pot := 0
	for _, paid := range r.totalPaid {
		pot += paid
	}
	return pot
}

// PlayerStack returns the current stack of a seat.
func (r *Round) PlayerStack(seat int) (int, error) {
	p, ok := r.seats[seat]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSeat, seat)
	}
	return p.Stack, nil
}

// ToAct returns the seat due to act, or false when betting is closed.
func (r *Round) ToAct() (int, bool) {
	if r.settled || !r.bettingOpen || len(r.toAct) == 0 {
		return 0, false
	}
	return r.toAct[0], true
}

// Check submits a check with no elapsed time.
func (r *Round) Check(seat int) error {
	return r.Apply(Action{Kind: ActionCheck, Seat: seat})
}

// Bet submits a bet of amount chips on top of the seat's street
// contribution.
func (r *Round) Bet(seat, amount int) error {
	return r.Apply(Action{Kind: ActionBet, Seat: seat, Amount: amount})
}

// RaiseTo raises the seat's street contribution to target.
func (r *Round) RaiseTo(seat, target int) error {
	return r.Apply(Action{Kind: ActionRaise, Seat: seat, Amount: target})
}

// Call submits a call of the running bet.
func (r *Round) Call(seat int) error {
	return r.Apply(Action{Kind: ActionCall, Seat: seat})
}

// Fold submits a fold.
func (r *Round) Fold(seat int) error {
	return r.Apply(Action{Kind: ActionFold, Seat: seat})
}

// Apply validates an action fully, then commits it atomically: log,
// contribution and stack move together or not at all.
func (r *Round) Apply(a Action) error {
	if r.settled {
		return ErrRoundSettled
	}
	p, ok := r.seats[a.Seat]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSeat, a.Seat)
	}
	if p.Eliminated || r.folded[a.Seat] || r.allIn[a.Seat] {
		return fmt.Errorf("%w: seat %d cannot act", ErrIllegalAction, a.Seat)
	}
	if !r.bettingOpen || len(r.toAct) == 0 {
		return fmt.Errorf("%w: betting is closed on %s", ErrIllegalAction, r.street)
	}
	if r.toAct[0] != a.Seat {
		return fmt.Errorf("%w: seat %d acted, seat %d is due", ErrOutOfTurn, a.Seat, r.toAct[0])
	}

	switch a.Kind {
	case ActionCheck:
		if r.aggressor != 0 && r.streetPaid[a.Seat] != r.streetBet {
			return fmt.Errorf("%w: cannot check behind a bet", ErrIllegalAction)
		}
		r.toAct = r.toAct[1:]
		r.log(a, 0)

	case ActionCall:
		owed := r.streetBet - r.streetPaid[a.Seat]
		if owed <= 0 {
			return fmt.Errorf("%w: nothing to call", ErrIllegalAction)
		}
		paid := min(owed, p.Stack)
		r.pay(a.Seat, paid)
		r.toAct = r.toAct[1:]
		r.log(a, paid)

	case ActionBet:
		if a.Amount <= 0 {
			return fmt.Errorf("%w: bet must be positive", ErrIllegalAction)
		}
		if a.Amount > p.Stack {
			return fmt.Errorf("%w: bet %d with stack %d", ErrInsufficientStack, a.Amount, p.Stack)
		}
		total := r.streetPaid[a.Seat] + a.Amount
		if total <= r.streetBet {
			return fmt.Errorf("%w: bet must exceed the running bet", ErrIllegalAction)
		}
		r.pay(a.Seat, a.Amount)
		r.streetBet = total
		r.aggressor = a.Seat
		r.reseedAfter(a.Seat)
		r.log(a, a.Amount)

	case ActionRaise:
		if a.Amount <= r.streetBet {
			return fmt.Errorf("%w: raise target %d below running bet %d", ErrIllegalAction, a.Amount, r.streetBet)
		}
		paid := a.Amount - r.streetPaid[a.Seat]
		if paid > p.Stack {
			return fmt.Errorf("%w: raise needs %d with stack %d", ErrInsufficientStack, paid, p.Stack)
		}
		r.pay(a.Seat, paid)
		r.streetBet = a.Amount
		r.aggressor = a.Seat
		r.reseedAfter(a.Seat)
		r.log(a, paid)

	case ActionFold:
		r.folded[a.Seat] = true
		r.foldOrder = append(r.foldOrder, a.Seat)
		r.toAct = r.toAct[1:]
		r.log(a, 0)

	default:
		return fmt.Errorf("%w: unknown action", ErrIllegalAction)
	}

	if len(r.toAct) == 0 {
		r.closeBetting()
	}
	return nil
}

// SetFlop reveals the flop after pre-flop betting closed.
func (r *Round) SetFlop(cards [3]deck.Card) error {
	if err := r.boardGate(PreFlop); err != nil {
		return err
	}
	if err := r.board.SetFlop(cards); err != nil {
		return err
	}
	r.street = Flop
	r.openBetting()
	return nil
}

// SetTurn reveals the turn after flop betting closed.
func (r *Round) SetTurn(card deck.Card) error {
	if err := r.boardGate(Flop); err != nil {
		return err
	}
	if err := r.board.SetTurn(card); err != nil {
		return err
	}
	r.street = Turn
	r.openBetting()
	return nil
}

// SetRiver reveals the river after turn betting closed.
func (r *Round) SetRiver(card deck.Card) error {
	if err := r.boardGate(Turn); err != nil {
		return err
	}
	if err := r.board.SetRiver(card); err != nil {
		return err
	}
	r.street = River
	r.openBetting()
	return nil
}

func (r *Round) boardGate(expect Street) error {
	if r.settled {
		return ErrRoundSettled
	}
	if r.street != expect {
		return fmt.Errorf("%w: on %s", ErrBoardSequence, r.street)
	}
	if r.bettingOpen {
		return fmt.Errorf("%w: on %s", ErrBettingOpen, r.street)
	}
	return nil
}

// WaitingShowdown reports whether the river has closed with at least
// two live seats, so hole cards can be revealed and adjudicated.
func (r *Round) WaitingShowdown() bool {
	return !r.settled && r.street == River && !r.bettingOpen && len(r.liveSeats()) >= 2
}

// SetPlayerHand reveals a seat's hole cards ahead of showdown,
// replacing anything previously known for that seat.
func (r *Round) SetPlayerHand(hand deck.Hand, seat int) error {
	p, ok := r.seats[seat]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSeat, seat)
	}
	if p.Eliminated {
		return fmt.Errorf("%w: seat %d is eliminated", ErrIllegalAction, seat)
	}
	if r.settled {
		return ErrRoundSettled
	}
	r.holes[seat] = hand
	return nil
}

// Showdown adjudicates the live hands, pays out every pot layer and
// finalizes the ranking. All live seats must have known hole cards.
func (r *Round) Showdown() error {
	if !r.WaitingShowdown() {
		return ErrShowdownNotReady
	}
	live := r.liveSeats()
	strengths := make(map[int]Strength, len(live))
	for _, seat := range live {
		hand, ok := r.holes[seat]
		if !ok {
			return fmt.Errorf("%w: seat %d", ErrMissingHand, seat)
		}
		s, err := r.board.Evaluate(hand)
		if err != nil {
			return err
		}
		strengths[seat] = s
	}

	tiers := r.tierSeats(live, strengths)
	r.distribute(tiers)
	r.ranking = r.finalRanking(tiers)
	r.settled = true
	return nil
}

// Won reports whether the hero finished in the top ranking group.
func (r *Round) Won() bool {
	if !r.settled || len(r.ranking) == 0 {
		return false
	}
	for _, seat := range r.ranking[0] {
		if seat == 1 {
			return true
		}
	}
	return false
}

// tierSeats groups live seats into tied classes, best hand first.
func (r *Round) tierSeats(live []int, strengths map[int]Strength) [][]int {
	sorted := append([]int(nil), live...)
	sort.Slice(sorted, func(i, j int) bool {
		c := CompareStrength(strengths[sorted[i]], strengths[sorted[j]])
		if c != 0 {
			return c > 0
		}
		return sorted[i] < sorted[j]
	})

	var tiers [][]int
	for _, seat := range sorted {
		if len(tiers) > 0 {
			last := tiers[len(tiers)-1]
			if CompareStrength(strengths[last[0]], strengths[seat]) == 0 {
				tiers[len(tiers)-1] = append(last, seat)
				continue
			}
		}
		tiers = append(tiers, []int{seat})
	}
	return tiers
}

// distribute pays the pot out by contribution layer, lowest first. Each
// layer goes to the best tier still eligible for it; an uncalled top
// layer simply returns to its only contributor. Remainder chips from a
// split go one at a time in wrap order from the button.
func (r *Round) distribute(tiers [][]int) {
	live := r.liveSeats()

	levels := make([]int, 0, len(live))
	seen := make(map[int]bool)
	for _, seat := range live {
		if paid := r.totalPaid[seat]; !seen[paid] {
			seen[paid] = true
			levels = append(levels, paid)
		}
	}
	sort.Ints(levels)

	prev := 0
	for _, level := range levels {
		layer := 0
		for _, paid := range r.totalPaid {
			layer += min(paid, level) - min(paid, prev)
		}
		if layer == 0 {
			prev = level
			continue
		}

		var winners []int
		for _, tier := range tiers {
			for _, seat := range tier {
				if r.totalPaid[seat] >= level {
					winners = append(winners, seat)
				}
			}
			if len(winners) > 0 {
				break
			}
		}

		share := layer / len(winners)
		remainder := layer % len(winners)
		for _, seat := range r.wrapOrder(winners) {
			r.seats[seat].Stack += share
			if remainder > 0 {
				r.seats[seat].Stack++
				remainder--
			}
		}
		prev = level
	}
}

// finalRanking appends folded seats under the showdown tiers, most
// recent fold first. Seats eliminated before the round are left out.
func (r *Round) finalRanking(topTiers [][]int) [][]int {
	ranking := append([][]int(nil), topTiers...)
	for i := len(r.foldOrder) - 1; i >= 0; i-- {
		ranking = append(ranking, []int{r.foldOrder[i]})
	}
	return ranking
}

// closeBetting runs when the to-act queue empties: either the street is
// done or a lone live seat takes the pot without a showdown.
func (r *Round) closeBetting() {
	r.bettingOpen = false
	live := r.liveSeats()
	if len(live) != 1 {
		return
	}
	winner := live[0]
	r.seats[winner].Stack += r.Pot()
	r.ranking = r.finalRanking([][]int{{winner}})
	r.settled = true
}

// openBetting resets the street ledger and seeds the queue from the
// button. With fewer than two seats able to act the street closes at
// once and board cards keep coming.
func (r *Round) openBetting() {
	if r.street != PreFlop {
		r.streetBet = 0
		for seat := range r.streetPaid {
			r.streetPaid[seat] = 0
		}
	}
	r.aggressor = 0
	r.toAct = r.eligibleFrom(r.button, true)
	if len(r.toAct) <= 1 {
		r.toAct = nil
		r.bettingOpen = false
		return
	}
	r.bettingOpen = true
}

// reseedAfter rebuilds the queue after aggression: every other eligible
// seat owes a response, in wrap order after the aggressor.
func (r *Round) reseedAfter(seat int) {
	queue := r.eligibleFrom(seat, false)
	r.toAct = queue
}

// eligibleFrom lists seats able to act in wrap order from start,
// including start itself when inclusive.
func (r *Round) eligibleFrom(start int, inclusive bool) []int {
	var out []int
	for _, seat := range r.wrapSeats(start, inclusive) {
		p := r.seats[seat]
		if p.Eliminated || r.folded[seat] || r.allIn[seat] || p.Stack == 0 {
			continue
		}
		out = append(out, seat)
	}
	return out
}

// wrapSeats returns every seat number in ascending order starting at
// start, wrapping around the table.
func (r *Round) wrapSeats(start int, inclusive bool) []int {
	idx := 0
	for i, seat := range r.order {
		if seat == start {
			idx = i
			break
		}
	}
	var out []int
	for i := 0; i < len(r.order); i++ {
		seat := r.order[(idx+i)%len(r.order)]
		if seat == start && !inclusive {
			continue
		}
		out = append(out, seat)
	}
	return out
}

// wrapOrder sorts the given seats by wrap distance from the button,
// button first.
func (r *Round) wrapOrder(seats []int) []int {
	want := make(map[int]bool, len(seats))
	for _, s := range seats {
		want[s] = true
	}
	var out []int
	for _, seat := range r.wrapSeats(r.button, true) {
		if want[seat] {
			out = append(out, seat)
		}
	}
	return out
}

// nextActive returns the first non-eliminated seat after the given one.
func (r *Round) nextActive(seat int) int {
	for _, s := range r.wrapSeats(seat, false) {
		if !r.seats[s].Eliminated {
			return s
		}
	}
	return seat
}

// activeSeats lists the seats dealt into this round.
func (r *Round) activeSeats() []int {
	var out []int
	for _, seat := range r.order {
		if !r.seats[seat].Eliminated {
			out = append(out, seat)
		}
	}
	return out
}

// liveSeats lists active seats that have not folded.
func (r *Round) liveSeats() []int {
	var out []int
	for _, seat := range r.order {
		if !r.seats[seat].Eliminated && !r.folded[seat] {
			out = append(out, seat)
		}
	}
	return out
}

// pay moves chips from a seat's stack into its contribution ledgers.
// Paying the whole stack marks the seat all-in.
func (r *Round) pay(seat, amount int) {
	p := r.seats[seat]
	p.Stack -= amount
	r.streetPaid[seat] += amount
	r.totalPaid[seat] += amount
	if p.Stack == 0 {
		r.allIn[seat] = true
	}
}

func (r *Round) log(a Action, paid int) {
	rec := Record{Kind: a.Kind, Seat: a.Seat, Elapsed: a.Elapsed}
	if a.Kind.HasAmount() {
		rec.Amount = paid
	}
	r.records[r.street] = append(r.records[r.street], rec)
}
