package server

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lab1702/artillery-web/game"
)

func TestIsValidOrigin(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"No origin", "example.com", "", true},
		{"Same origin", "example.com", "http://example.com", true},
		{"Localhost", "example.com", "http://localhost:3000", true},
		{"Loopback", "example.com", "http://127.0.0.1", true},
		{"Foreign", "example.com", "http://evil.test", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := isValidOrigin(r); got != tt.want {
				t.Errorf("isValidOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestTickStreamsSnapshot(t *testing.T) {
	s := newTestServer(t, nil, "human", "human")
	c := newTestClient(s, 1, 0)
	send(c, MsgTypeFire, `{"angle":45,"power":50}`)

	s.Tick(1.0 / 60)

	var updates []*game.Snapshot
	for _, msg := range drainBroadcast(s) {
		if msg.Type == MsgTypeUpdate {
			updates = append(updates, msg.Data.(*game.Snapshot))
		}
	}
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(updates))
	}
	snap := updates[0]
	if snap.Phase != game.PhaseInFlight || snap.Projectile == nil {
		t.Errorf("snapshot phase %s projectile %v, want a shot in flight", snap.Phase, snap.Projectile)
	}
}

func TestAdvanceRound(t *testing.T) {
	s := newTestServer(t, nil, "human", "human")
	newTestClient(s, 1, 1).handleResign(nil)
	drainBroadcast(s)

	s.AdvanceRound()

	if s.RoundPending() {
		t.Error("round still pending after transition")
	}
	if s.engine.Round() != 2 || s.engine.Phase() != game.PhaseWaitingForInput {
		t.Fatalf("round %d phase %s, want round 2 waiting", s.engine.Round(), s.engine.Phase())
	}

	var round map[string]interface{}
	for _, msg := range drainBroadcast(s) {
		if msg.Type == MsgTypeRound {
			round = msg.Data.(map[string]interface{})
		}
	}
	if round == nil {
		t.Fatal("no round message broadcast")
	}
	standings := round["standings"].([]game.Standing)
	if round["matchOver"].(bool) || len(standings) != 2 || standings[0].ID != 0 {
		t.Errorf("round message = %v", round)
	}
	if standings[0].Award != game.PlacementAwardFor(2, 0) {
		t.Errorf("winner award = %d, want %d", standings[0].Award, game.PlacementAwardFor(2, 0))
	}
}

func TestAdvanceRoundStartsNewMatch(t *testing.T) {
	s := newTestServer(t, &Config{Rounds: 1}, "human", "human")
	old := s.GetEngine()
	newTestClient(s, 1, 0).handleResign(nil)
	drainBroadcast(s)

	s.AdvanceRound()

	if s.GetEngine() == old {
		t.Fatal("engine not replaced after the final round")
	}
	if s.engine.Round() != 1 || s.engine.MatchOver() || s.matches != 2 {
		t.Errorf("round %d matchOver %v matches %d, want a fresh match", s.engine.Round(), s.engine.MatchOver(), s.matches)
	}
	texts := broadcastTexts(s, MsgTypeRound)
	if len(texts) != 1 || !strings.HasPrefix(texts[0], "Match over! Bob wins") {
		t.Errorf("round texts = %v", texts)
	}
}

func TestAdvanceRoundMidRoundIgnored(t *testing.T) {
	s := newTestServer(t, nil, "human", "human")
	s.AdvanceRound()
	if s.engine.Round() != 1 || s.engine.Phase() != game.PhaseWaitingForInput {
		t.Errorf("round %d phase %s, want round 1 untouched", s.engine.Round(), s.engine.Phase())
	}
	if len(drainBroadcast(s)) != 0 {
		t.Error("mid-round transition broadcast a message")
	}
}

func TestHandleScores(t *testing.T) {
	s := newTestServer(t, nil, "human", "hard")
	rec := httptest.NewRecorder()
	s.HandleScores(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body struct {
		Round     int    `json:"round"`
		Phase     string `json:"phase"`
		MatchOver bool   `json:"matchOver"`
		Standings []struct {
			Name string `json:"name"`
		} `json:"standings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode scores: %v", err)
	}
	if body.Round != 1 || body.Phase != "waiting" || body.MatchOver || len(body.Standings) != 2 {
		t.Errorf("scores = %+v", body)
	}
}

// TestWebSocketSession connects a real client, checks the welcome, and
// claims a seat over the wire
func TestWebSocketSession(t *testing.T) {
	s := newTestServer(t, nil, "human", "easy")
	go s.Run()

	ts := httptest.NewServer(http.HandlerFunc(s.HandleWebSocket))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var welcome struct {
		Type string `json:"type"`
		Data struct {
			ClientID int `json:"clientId"`
			Weapons  []struct {
				Key string `json:"key"`
			} `json:"weapons"`
			State struct {
				Round int `json:"round"`
			} `json:"state"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != MsgTypeWelcome || welcome.Data.State.Round != 1 {
		t.Fatalf("welcome = %+v", welcome)
	}
	if len(welcome.Data.Weapons) != len(game.Weapons()) || welcome.Data.Weapons[0].Key != "missile" {
		t.Errorf("weapons = %+v", welcome.Data.Weapons)
	}

	join := ClientMessage{Type: MsgTypeJoin, Data: json.RawMessage(`{"combatant":0,"name":"Zed"}`)}
	if err := conn.WriteJSON(join); err != nil {
		t.Fatalf("write join: %v", err)
	}

	for {
		var msg struct {
			Type string `json:"type"`
			Data struct {
				Text string `json:"text"`
			} `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("no join announcement: %v", err)
		}
		if msg.Type == MsgTypeMessage && msg.Data.Text == "Zed joined" {
			return
		}
	}
}

// After Shutdown the hub is gone; a late connection must be closed rather
// than leave its handler blocked on registration
func TestWebSocketAfterShutdown(t *testing.T) {
	s := newTestServer(t, nil, "human", "human")
	s.Shutdown()

	ts := httptest.NewServer(http.HandlerFunc(s.HandleWebSocket))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, _, err = conn.ReadMessage()
	if err == nil {
		t.Fatal("read succeeded, want closed connection")
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		t.Fatalf("connection left open after shutdown: %v", err)
	}
}
