package server

import "github.com/lab1702/artillery-web/game"

// Test helpers to expose private methods for testing purposes
// This file should only be used for testing and not in production

// SetEngine allows tests to replace the hosted engine directly
func (s *Server) SetEngine(e *game.Engine) {
	s.engine = e
}

// GetEngine allows tests to get the hosted engine
func (s *Server) GetEngine() *game.Engine {
	return s.engine
}

// Tick exposes the private tick method for testing
func (s *Server) Tick(dt float64) {
	s.tick(dt)
}

// AdvanceRound exposes the private advanceRound method for testing
func (s *Server) AdvanceRound() {
	s.advanceRound()
}

// RoundPending reports whether a round transition is scheduled
func (s *Server) RoundPending() bool {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.roundPending
}
