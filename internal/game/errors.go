package game

import "errors"

var (
	// ErrUnknownSeat is returned for a seat number that is not at the table.
	ErrUnknownSeat = errors.New("unknown seat")

	// ErrOutOfTurn is returned when a seat acts while another seat is due.
	ErrOutOfTurn = errors.New("out of turn")

	// ErrIllegalAction is returned when an action is not legal in the
	// current betting state (checking behind a bet, calling nothing, or
	// acting after folding or going all-in).
	ErrIllegalAction = errors.New("illegal action")

	// ErrInsufficientStack is returned when a bet or raise asks for more
	// chips than the seat holds.
	ErrInsufficientStack = errors.New("insufficient stack")

	// ErrBettingOpen is returned when board cards are pushed before the
	// current street's betting has closed.
	ErrBettingOpen = errors.New("betting still open")

	// ErrBoardSequence is returned when board cards are pushed out of
	// order (turn before flop, flop twice, and so on).
	ErrBoardSequence = errors.New("board cards out of sequence")

	// ErrShowdownNotReady is returned when showdown is invoked before the
	// river has closed with two or more live seats.
	ErrShowdownNotReady = errors.New("showdown not ready")

	// ErrMissingHand is returned when showdown is invoked while a live
	// seat's hole cards are still unknown.
	ErrMissingHand = errors.New("missing hole cards")

	// ErrRoundSettled is returned for any action submitted after the
	// round has settled.
	ErrRoundSettled = errors.New("round already settled")
)
