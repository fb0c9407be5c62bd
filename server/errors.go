package server

import "errors"

var (
	// ErrNoSeat is reported when a spectator sends combatant input
	ErrNoSeat = errors.New("join a combatant seat first")
	// ErrSeatTaken is reported when another client already controls the combatant
	ErrSeatTaken = errors.New("seat already taken")
	// ErrNotHumanSeat is reported when a client tries to take an AI combatant
	ErrNotHumanSeat = errors.New("combatant is AI controlled")
	// ErrNotYourTurn is reported for input outside the client's turn
	ErrNotYourTurn = errors.New("not your turn")
)
