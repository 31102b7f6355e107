// Package session manages per-conversation state: the interaction history
// that makes follow-up questions resolvable, with a TTL and a hard cap on
// history length. Two store backends exist: volatile in-memory and SQLite.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
)

// maxHistory caps the interaction history per session. Older interactions
// are dropped; only the most recent turn drives follow-up resolution.
const maxHistory = 10

// Interaction is one query/response turn.
type Interaction struct {
	Timestamp time.Time  `json:"timestamp"`
	Query     string     `json:"query"`
	Response  string     `json:"response"`
	QueryType string     `json:"query_type"`
	Entities  entity.Set `json:"entities,omitempty"`
}

// State is the stored conversation state for one session.
type State struct {
	ID           string        `json:"session_id"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	History      []Interaction `json:"history"`
}

// NewState creates a fresh session state. An empty id gets a generated
// UUID.
func NewState(id string, now time.Time) *State {
	if id == "" {
		id = uuid.NewString()
	}
	return &State{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Append records a completed turn and advances the activity timestamp.
func (s *State) Append(in Interaction) {
	s.History = append(s.History, in)
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
	s.LastActivity = in.Timestamp
}

// Last returns the most recent interaction.
func (s *State) Last() (Interaction, bool) {
	if s == nil || len(s.History) == 0 {
		return Interaction{}, false
	}
	return s.History[len(s.History)-1], true
}

// Expired reports whether the session has been idle longer than ttl.
func (s *State) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.LastActivity) > ttl
}

// clone returns a copy whose history slice is independent of the stored
// one, so callers can append without racing the store.
func (s *State) clone() *State {
	c := *s
	c.History = make([]Interaction, len(s.History))
	copy(c.History, s.History)
	return &c
}
