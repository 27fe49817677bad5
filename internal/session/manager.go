package session

import (
	"sync"
	"time"
)

// state is the server-side session state kept per user: the pointer to
// the conversation new turns append to, plus a lock serializing the
// append-or-create decision for that user.
type state struct {
	mu                 sync.Mutex
	activeConversation string
	lastActivity       time.Time
}

// Manager tracks the active-conversation pointer per user
type Manager struct {
	mu     sync.RWMutex
	states map[string]*state
}

// NewManager creates a session state manager
func NewManager() *Manager {
	return &Manager{
		states: make(map[string]*state),
	}
}

func (m *Manager) getState(userID string) *state {
	m.mu.RLock()
	s, exists := m.states[userID]
	m.mu.RUnlock()
	if exists {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, exists = m.states[userID]; !exists {
		s = &state{lastActivity: time.Now()}
		m.states[userID] = s
	}
	return s
}

// Lock serializes chat processing for one user and returns the unlock
// function. Two concurrent requests from the same user cannot race on
// the append-or-create decision while holding this lock.
func (m *Manager) Lock(userID string) func() {
	s := m.getState(userID)
	s.mu.Lock()
	s.lastActivity = time.Now()
	return s.mu.Unlock
}

// ActiveConversation returns the conversation id new turns should append
// to, or "" when the next message must start a new conversation.
func (m *Manager) ActiveConversation(userID string) string {
	s := m.getState(userID)
	return s.activeConversation
}

// SetActiveConversation records the conversation id for subsequent turns
func (m *Manager) SetActiveConversation(userID, conversationID string) {
	s := m.getState(userID)
	s.activeConversation = conversationID
}

// Clear drops the pointer so the next message starts a new conversation
func (m *Manager) Clear(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}
