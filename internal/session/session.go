// Package session provides conversation sessions for flowkit runs.
// Sessions live in memory during a run and can be persisted to SQLite
// for the status command.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/flowkit/internal/llm"
)

// Status represents the status of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Session is one conversation with an agent tree.
type Session struct {
	// ID is the unique session identifier.
	ID string `json:"id"`
	// AppName identifies the workflow that owns the session.
	AppName string `json:"app_name"`
	// UserID identifies the user the session belongs to.
	UserID string `json:"user_id"`
	// StartedAt is when the session was created.
	StartedAt time.Time `json:"started_at"`
	// Status is the current session status.
	Status Status `json:"status"`
	// Usage is the accumulated token usage across runs.
	Usage llm.Usage `json:"usage"`

	// state holds free-form values agents share within the session.
	mu    sync.RWMutex
	state map[string]string
}

// Get returns a shared state value and whether it was set.
func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok
}

// Set stores a shared state value.
func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		s.state = make(map[string]string)
	}
	s.state[key] = value
}

// AddUsage accumulates token usage onto the session.
func (s *Session) AddUsage(u llm.Usage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Usage.InputTokens += u.InputTokens
	s.Usage.OutputTokens += u.OutputTokens
}

// Service manages sessions in memory.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates an empty in-memory session service.
func NewService() *Service {
	return &Service{sessions: make(map[string]*Session)}
}

// Create creates a new session for the given app and user.
func (svc *Service) Create(appName, userID string) (*Session, error) {
	if appName == "" {
		return nil, fmt.Errorf("app name is required")
	}

	s := &Session{
		ID:        uuid.New().String(),
		AppName:   appName,
		UserID:    userID,
		StartedAt: time.Now(),
		Status:    StatusActive,
		state:     make(map[string]string),
	}

	svc.mu.Lock()
	svc.sessions[s.ID] = s
	svc.mu.Unlock()

	return s, nil
}

// Get returns the session with the given ID, or nil if unknown.
func (svc *Service) Get(id string) *Session {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.sessions[id]
}

// SetStatus updates a session's status.
func (svc *Service) SetStatus(id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid session status: %s", status)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	s, ok := svc.sessions[id]
	if !ok {
		return fmt.Errorf("unknown session: %s", id)
	}
	s.Status = status
	return nil
}
