package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lab1702/artillery-web/game"
)

// isValidOrigin checks if the origin is allowed to connect
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		log.Printf("Invalid origin URL: %s", origin)
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	log.Printf("Rejected WebSocket connection from origin: %s", origin)
	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true, // Snapshots carry the full terrain every frame
}

// Message types
const (
	MsgTypeJoin    = "join"
	MsgTypeAim     = "aim"
	MsgTypeWeapon  = "weapon"
	MsgTypeFire    = "fire"
	MsgTypeShield  = "shield"
	MsgTypeResign  = "resign"
	MsgTypeMessage = "message"
	MsgTypeWelcome = "welcome"
	MsgTypeUpdate  = "update"
	MsgTypeEvent   = "event"
	MsgTypeRound   = "round"
	MsgTypeError   = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents a connected browser. A client may hold one human
// combatant seat; without one it only spectates.
type Client struct {
	ID     int
	seat   atomic.Int32
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// Seat returns the combatant this client controls, or game.NoCombatant
func (c *Client) Seat() game.CombatantID {
	return game.CombatantID(c.seat.Load())
}

// SetSeat assigns the combatant this client controls
func (c *Client) SetSeat(id game.CombatantID) {
	c.seat.Store(int32(id))
}

// Server owns one Engine and streams it to every connected client
type Server struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage
	nextID     int

	// Lock ordering: mu first, then engineMu
	engineMu     sync.Mutex
	engine       *game.Engine
	config       *Config
	matches      int
	roundPending bool

	done         chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a game server hosting the configured match
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		config:     cfg,
		done:       make(chan struct{}),
	}
	engine, err := s.newMatch()
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// newMatch builds a fresh engine from the config. Each match after the
// first shifts the seed so repeated matches differ.
func (s *Server) newMatch() (*game.Engine, error) {
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	seed += int64(s.matches)
	s.matches++

	engine, err := s.config.BuildEngine(seed)
	if err != nil {
		return nil, err
	}
	log.Printf("Match %d started: %d combatants, %d rounds, seed %d", s.matches, len(s.config.Combatants), s.config.Rounds, seed)
	return engine, nil
}

// Run starts the server main loop
func (s *Server) Run() {
	go s.gameLoop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
				if seat := client.Seat(); seat != game.NoCombatant {
					log.Printf("Freeing seat %d held by client %d", seat, client.ID)
				}
			}
			s.mu.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					log.Printf("Warning: Client %d send buffer full, skipping broadcast", client.ID)
				}
			}
			s.mu.RUnlock()

		case <-s.done:
			return
		}
	}
}

// Shutdown stops the game loop and any pending round transition
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.done)
	})
}

// gameLoop steps the engine at the configured tick rate
func (s *Server) gameLoop() {
	ticker := time.NewTicker(s.config.TickInterval())
	defer ticker.Stop()

	dt := 1.0 / float64(s.config.TickRate)
	for {
		select {
		case <-ticker.C:
			s.tick(dt)
		case <-s.done:
			return
		}
	}
}

// tick advances the simulation one step and streams the result
func (s *Server) tick(dt float64) {
	s.engineMu.Lock()
	ev := s.engine.Step(dt)
	snap, schedule := s.observe(ev)
	s.engineMu.Unlock()

	s.publish(ev, &snap, schedule)
}

// observe snapshots the engine after ev and claims the round transition
// when ev ended the round. Caller must hold engineMu.
func (s *Server) observe(ev game.TurnEvent) (game.Snapshot, bool) {
	snap := s.engine.Snapshot()
	schedule := ev.Kind == game.EventRoundOver && !s.roundPending
	if schedule {
		s.roundPending = true
	}
	return snap, schedule
}

// publish streams an event and the snapshot taken after it
func (s *Server) publish(ev game.TurnEvent, snap *game.Snapshot, schedule bool) {
	logTurnEvent(ev, snap)
	if ev.Kind != game.EventNone || len(ev.Eliminated) > 0 {
		s.announceEvent(ev, snap)
	}
	if schedule {
		s.scheduleNextRound()
	}
	s.sendGameState(snap)
}

// announceEvent tells every client what the step concluded
func (s *Server) announceEvent(ev game.TurnEvent, snap *game.Snapshot) {
	for _, id := range ev.Eliminated {
		log.Printf("%s eliminated in round %d", combatantName(snap, id), snap.Round)
	}

	var text string
	switch ev.Kind {
	case game.EventExtraShot:
		text = fmt.Sprintf("%s gets a follow-up shot", combatantName(snap, ev.Previous))
	case game.EventTurnEnded:
		text = fmt.Sprintf("%s's turn", combatantName(snap, ev.Next))
	case game.EventRoundOver:
		text = fmt.Sprintf("Round %d over", snap.Round)
		log.Printf("Round %d/%d over", snap.Round, snap.TotalRounds)
	}

	s.queueBroadcast(ServerMessage{
		Type: MsgTypeEvent,
		Data: map[string]interface{}{
			"event": ev,
			"text":  text,
		},
	})
}

// scheduleNextRound advances to the next round after the configured pause,
// respecting server shutdown
func (s *Server) scheduleNextRound() {
	delay := s.config.RoundDelayDuration()
	go func() {
		select {
		case <-time.After(delay):
			s.advanceRound()
		case <-s.done:
			// Server shutting down, skip the transition
		}
	}()
}

// advanceRound pays awards, then starts the next round or, once the match
// is over, a fresh match
func (s *Server) advanceRound() {
	s.engineMu.Lock()
	s.roundPending = false
	standings, err := s.engine.PrepareNextRound()
	if err != nil {
		s.engineMu.Unlock()
		log.Printf("Round transition skipped: %v", err)
		return
	}

	matchOver := s.engine.MatchOver()
	if matchOver {
		var engine *game.Engine
		engine, err = s.newMatch()
		if err == nil {
			s.engine = engine
		}
	} else {
		err = s.engine.TransitionToNextRound()
	}
	round := s.engine.Round()
	s.engineMu.Unlock()

	if err != nil {
		log.Printf("Round transition failed: %v", err)
		return
	}

	text := fmt.Sprintf("Round %d begins", round)
	if matchOver {
		text = fmt.Sprintf("Match over! %s wins the final round. New match starting...", standings[0].Name)
	}
	s.queueBroadcast(ServerMessage{
		Type: MsgTypeRound,
		Data: map[string]interface{}{
			"text":      text,
			"standings": standings,
			"matchOver": matchOver,
		},
	})
}

// sendGameState broadcasts the latest snapshot
func (s *Server) sendGameState(snap *game.Snapshot) {
	s.queueBroadcast(ServerMessage{
		Type: MsgTypeUpdate,
		Data: snap,
	})
}

// queueBroadcast hands a message to the hub without blocking the caller
func (s *Server) queueBroadcast(msg ServerMessage) {
	select {
	case s.broadcast <- msg:
	default:
		log.Printf("Warning: broadcast queue full, dropping %s", msg.Type)
	}
}

// HandleScores reports the current round and standings
func (s *Server) HandleScores(w http.ResponseWriter, r *http.Request) {
	// Enable CORS for cross-origin requests
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	s.engineMu.Lock()
	response := map[string]interface{}{
		"round":       s.engine.Round(),
		"totalRounds": s.engine.TotalRounds(),
		"phase":       s.engine.Phase(),
		"matchOver":   s.engine.MatchOver(),
		"standings":   s.engine.Standings(),
	}
	s.engineMu.Unlock()

	json.NewEncoder(w).Encode(response)
}

// HandleWebSocket upgrades the connection and starts the client pumps
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}
	client.SetSeat(game.NoCombatant)

	// Welcome goes first so no broadcast can overtake it
	client.send <- s.welcome(client)
	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// welcome describes the match to a newly connected client
func (s *Server) welcome(c *Client) ServerMessage {
	weapons := make([]game.WeaponStats, 0, len(game.Weapons()))
	for _, w := range game.Weapons() {
		stats, _ := game.WeaponInfo(w)
		weapons = append(weapons, stats)
	}

	s.engineMu.Lock()
	snap := s.engine.Snapshot()
	s.engineMu.Unlock()

	return ServerMessage{
		Type: MsgTypeWelcome,
		Data: map[string]interface{}{
			"clientId": c.ID,
			"weapons":  weapons,
			"state":    snap,
		},
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.done:
			return
		}
	}
}

func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in handleMessage for client %d, type %s: %v", c.ID, msg.Type, r)
		}
	}()

	switch msg.Type {
	case MsgTypeJoin:
		c.handleJoin(msg.Data)
	case MsgTypeAim:
		c.handleAim(msg.Data)
	case MsgTypeWeapon:
		c.handleWeapon(msg.Data)
	case MsgTypeFire:
		c.handleFire(msg.Data)
	case MsgTypeShield:
		c.handleShield(msg.Data)
	case MsgTypeResign:
		c.handleResign(msg.Data)
	case MsgTypeMessage:
		c.handleChatMessage(msg.Data)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

func combatantName(snap *game.Snapshot, id game.CombatantID) string {
	for _, c := range snap.Combatants {
		if c.ID == id {
			return c.Name
		}
	}
	return fmt.Sprintf("combatant %d", id)
}
