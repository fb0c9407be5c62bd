package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/lab1702/artillery-web/game"
)

// handleJoin claims a human combatant seat for this client
func (c *Client) handleJoin(data json.RawMessage) {
	var join JoinData
	if err := json.Unmarshal(data, &join); err != nil {
		log.Printf("Error unmarshaling join data: %v", err)
		return
	}
	id := game.CombatantID(join.Combatant)

	// The seat check and SetSeat share one exclusive section so concurrent
	// joins cannot both claim a seat. Lock ordering: mu first, then engineMu.
	c.server.mu.Lock()
	defer c.server.mu.Unlock()
	for _, other := range c.server.clients {
		if other != c && other.Seat() == id {
			c.sendError(ErrSeatTaken)
			return
		}
	}

	c.server.engineMu.Lock()
	combatant, ok := c.server.engine.Combatant(id)
	if !ok {
		c.server.engineMu.Unlock()
		c.sendError(game.ErrUnknownCombatant)
		return
	}
	if combatant.IsAI() {
		c.server.engineMu.Unlock()
		c.sendError(ErrNotHumanSeat)
		return
	}
	name := combatant.Name
	if clean := sanitizeName(join.Name); clean != "" {
		c.server.engine.SetName(id, clean)
		name = clean
	}
	c.server.engineMu.Unlock()

	c.SetSeat(id)
	log.Printf("Client %d took seat %d as %s", c.ID, id, name)

	c.server.queueBroadcast(ServerMessage{
		Type: MsgTypeMessage,
		Data: map[string]interface{}{
			"text": fmt.Sprintf("%s joined", name),
			"type": "info",
		},
	})
}

// handleAim stores the aim of the client's combatant without firing
func (c *Client) handleAim(data json.RawMessage) {
	var aim AimData
	if err := json.Unmarshal(data, &aim); err != nil {
		log.Printf("Error unmarshaling aim data: %v", err)
		return
	}
	if !validateAim(aim) {
		return
	}

	c.withTurn(func(e *game.Engine) error {
		return e.SetAim(aim.Angle, aim.Power)
	})
}

// handleWeapon switches the client's combatant to another weapon
func (c *Client) handleWeapon(data json.RawMessage) {
	var sel WeaponData
	if err := json.Unmarshal(data, &sel); err != nil {
		log.Printf("Error unmarshaling weapon data: %v", err)
		return
	}
	w, err := game.ParseWeapon(sel.Weapon)
	if err != nil {
		c.sendError(err)
		return
	}

	c.withTurn(func(e *game.Engine) error {
		return e.SelectWeapon(w)
	})
}

// handleFire launches the selected weapon
func (c *Client) handleFire(data json.RawMessage) {
	var aim AimData
	if err := json.Unmarshal(data, &aim); err != nil {
		log.Printf("Error unmarshaling fire data: %v", err)
		return
	}
	if !validateAim(aim) {
		return
	}

	c.withTurn(func(e *game.Engine) error {
		return e.TryFire(aim.Angle, aim.Power)
	})
}

// handleShield raises a shield from inventory
func (c *Client) handleShield(data json.RawMessage) {
	c.withTurn(func(e *game.Engine) error {
		return e.ActivateShield()
	})
}

// handleResign concedes the round for the client's combatant. It is
// accepted on any turn, but only between shots.
func (c *Client) handleResign(data json.RawMessage) {
	seat := c.Seat()
	if seat == game.NoCombatant {
		c.sendError(ErrNoSeat)
		return
	}

	c.server.engineMu.Lock()
	ev, err := c.server.engine.Resign(seat)
	snap, schedule := c.server.observe(ev)
	c.server.engineMu.Unlock()

	if err != nil {
		c.sendError(err)
		return
	}
	c.server.publish(ev, &snap, schedule)
}

// handleChatMessage broadcasts a chat line to every client
func (c *Client) handleChatMessage(data json.RawMessage) {
	var msgData MessageData
	if err := json.Unmarshal(data, &msgData); err != nil {
		return
	}

	msgData.Text = sanitizeText(msgData.Text)
	if msgData.Text == "" {
		return
	}

	sender := fmt.Sprintf("Spectator %d", c.ID)
	if seat := c.Seat(); seat != game.NoCombatant {
		c.server.engineMu.Lock()
		if combatant, ok := c.server.engine.Combatant(seat); ok {
			sender = combatant.Name
		}
		c.server.engineMu.Unlock()
	}

	c.server.queueBroadcast(ServerMessage{
		Type: MsgTypeMessage,
		Data: map[string]interface{}{
			"text": fmt.Sprintf("%s: %s", sender, msgData.Text),
			"type": "chat",
			"from": c.ID,
		},
	})
}

// withTurn runs fn under the engine lock when it is this client's turn,
// reporting any refusal back to the client
func (c *Client) withTurn(fn func(e *game.Engine) error) {
	seat := c.Seat()
	if seat == game.NoCombatant {
		c.sendError(ErrNoSeat)
		return
	}

	c.server.engineMu.Lock()
	var err error
	if c.server.engine.CurrentID() != seat {
		err = ErrNotYourTurn
	} else {
		err = fn(c.server.engine)
	}
	c.server.engineMu.Unlock()

	if err != nil {
		c.sendError(err)
	}
}

// sendError reports a refused request to this client only
func (c *Client) sendError(err error) {
	select {
	case c.send <- ServerMessage{
		Type: MsgTypeError,
		Data: map[string]interface{}{
			"text": err.Error(),
		},
	}:
	default:
	}
}
