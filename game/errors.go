package game

import "errors"

var (
	// ErrNoAmmo is reported when the selected weapon has no rounds left
	ErrNoAmmo = errors.New("no ammunition for selected weapon")
	// ErrNotWaiting is reported when input arrives while a shot is resolving
	ErrNotWaiting = errors.New("turn is not waiting for input")
	// ErrRoundInProgress is reported when round transitions are requested mid-round
	ErrRoundInProgress = errors.New("round still in progress")
	// ErrMatchOver is reported when no rounds remain
	ErrMatchOver = errors.New("match is over")
	// ErrInvalidMatch is reported for match parameters that cannot be played
	ErrInvalidMatch = errors.New("invalid match parameters")
	// ErrUnknownCombatant is reported for IDs not in the registry
	ErrUnknownCombatant = errors.New("unknown combatant")
)
