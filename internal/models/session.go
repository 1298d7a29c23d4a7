package models

import "sync"

// SessionDefaults holds the two session-scoped defaults: the last
// symbol and period the user worked with. The UI layer writes them in
// response to explicit user actions; the pipeline only reads them.
// They are held in memory for the life of the process and never
// persisted.
type SessionDefaults struct {
	mu         sync.RWMutex
	lastSymbol string
	lastPeriod Period
}

// NewSessionDefaults returns empty defaults.
func NewSessionDefaults() *SessionDefaults {
	return &SessionDefaults{}
}

// Snapshot returns the current defaults.
func (s *SessionDefaults) Snapshot() (symbol string, period Period) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSymbol, s.lastPeriod
}

// Set updates the defaults. Empty values leave the existing ones in place.
func (s *SessionDefaults) Set(symbol string, period Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if symbol != "" {
		s.lastSymbol = symbol
	}
	if period != "" {
		s.lastPeriod = period
	}
}
