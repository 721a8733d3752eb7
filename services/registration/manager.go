package registration

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type session struct {
	wizard   *Wizard
	lastSeen time.Time
}

// Manager keeps one Wizard per client session. A session is forgotten when
// its wizard closes itself after success, when it is closed explicitly, or
// when ExpireIdle finds it untouched for longer than the session TTL.
type Manager struct {
	store Committer
	cfg   Config

	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager(store Committer, cfg Config) *Manager {
	return &Manager{
		store:    store,
		cfg:      cfg.withDefaults(),
		sessions: make(map[string]*session),
	}
}

// Open resets the session's wizard to the details step, creating a new
// session when sessionID is empty or unknown. It returns the session id.
func (m *Manager) Open(sessionID, categoryID string) (string, State, error) {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		sessionID = uuid.New().String()
		sess = &session{wizard: m.newWizard(sessionID)}
	}
	m.mu.Unlock()

	if err := sess.wizard.Open(categoryID); err != nil {
		return "", State{}, err
	}

	m.mu.Lock()
	sess.lastSeen = m.cfg.Clock()
	m.sessions[sessionID] = sess
	m.mu.Unlock()
	return sessionID, sess.wizard.Snapshot(), nil
}

func (m *Manager) newWizard(sessionID string) *Wizard {
	w := NewWizard(m.store, m.cfg)
	w.onClosed = func() { m.forget(sessionID, w) }
	return w
}

// forget drops the session if it still holds w and w is still closed. A
// re-Open that raced the auto-close keeps the session alive.
func (m *Manager) forget(sessionID string, w *Wizard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok || sess.wizard != w || w.Snapshot().Step != StepClosed {
		return
	}
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = m.cfg.Clock()
	return sess.wizard, nil
}

// Close dismisses the session's wizard and forgets the session.
func (m *Manager) Close(sessionID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.wizard.Close()
	return nil
}

// ExpireIdle closes every session untouched for at least the session TTL
// and reports how many were dropped. Sessions whose commit is under way
// are left to finish.
func (m *Manager) ExpireIdle(now time.Time) int {
	m.mu.Lock()
	var idle []*Wizard
	for id, sess := range m.sessions {
		if now.Sub(sess.lastSeen) < m.cfg.SessionTTL {
			continue
		}
		if step := sess.wizard.Snapshot().Step; step == StepProcessing || step == StepSuccess {
			continue
		}
		idle = append(idle, sess.wizard)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, w := range idle {
		w.Close()
	}
	if len(idle) > 0 {
		m.cfg.Logger.Debug("Expired idle registration sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Len reports how many sessions are held.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every session and waits for their timers to stop.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()
	for _, sess := range all {
		sess.wizard.Close()
	}
}
