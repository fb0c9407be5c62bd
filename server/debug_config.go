package server

import (
	"log"

	"github.com/lab1702/artillery-web/game"
)

// Debug flags for various subsystems
var (
	DebugTurns = false // Set to true to log every turn transition
)

// logTurnEvent logs turn transitions when debugging is enabled
func logTurnEvent(ev game.TurnEvent, snap *game.Snapshot) {
	if !DebugTurns || ev.Kind == game.EventNone {
		return
	}
	log.Printf("[TURN DEBUG] %s: %d -> %d round %d/%d wind %.1f eliminated %v",
		ev.Kind, ev.Previous, ev.Next, snap.Round, snap.TotalRounds, snap.Wind, ev.Eliminated)
}
