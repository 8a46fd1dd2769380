// Package session tracks per-user conversational progress through an order.
// Sessions live in process memory only and do not survive restarts.
package session

import "sync"

// Step identifies where a user is in the order chain.
type Step string

const (
	// StepIdle indicates there is no order in progress.
	StepIdle Step = "idle"
	// StepQuantity indicates the bot is waiting for a quantity.
	StepQuantity Step = "await_quantity"
	// StepName indicates the bot is waiting for the customer name.
	StepName Step = "await_name"
	// StepPhone indicates the bot is waiting for the customer phone.
	StepPhone Step = "await_phone"
)

// Session is the draft order accumulated while walking the chain.
// The zero value is an idle session with no draft fields.
type Session struct {
	UserID    int64
	Step      Step
	ProductID string
	Quantity  int
	Name      string
	Phone     string
}

// Store manages sessions keyed by Telegram user id. There is no eviction;
// an idle-session reaper, if ever needed, should be layered on top of this
// interface rather than bolted into the memory implementation.
type Store interface {
	// Get returns the user's session, creating an idle one on first contact.
	Get(userID int64) Session
	// Update applies a mutation to the user's session, creating it if absent.
	Update(userID int64, fn func(*Session))
	// Reset returns the session to idle and clears every draft field.
	Reset(userID int64)
	// Step reports the user's current step without creating a session.
	Step(userID int64) Step
	// InProgress reports whether the user has an active (non-idle) chain.
	InProgress(userID int64) bool
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs the in-memory Store used in production.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]*Session)}
}

func (m *memoryStore) Get(userID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.locked(userID)
}

func (m *memoryStore) Update(userID int64, fn func(*Session)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.locked(userID))
}

func (m *memoryStore) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; ok {
		m.sessions[userID] = &Session{UserID: userID, Step: StepIdle}
	}
}

func (m *memoryStore) Step(userID int64) Step {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok {
		return s.Step
	}
	return StepIdle
}

func (m *memoryStore) InProgress(userID int64) bool {
	return m.Step(userID) != StepIdle
}

// locked returns the live session for userID, inserting an idle one if
// missing. Callers must hold the write lock.
func (m *memoryStore) locked(userID int64) *Session {
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{UserID: userID, Step: StepIdle}
		m.sessions[userID] = s
	}
	return s
}
