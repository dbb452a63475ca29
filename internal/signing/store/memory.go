package store

import (
	"context"
	"sync"
	"time"
)

// Memory keeps sessions in process memory. Sessions are lost on restart.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]*Session),
	}
}

func (m *Memory) Save(_ context.Context, session *Session) error {
	if session.SessionID == "" {
		return ErrMissingSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.SessionID]; ok {
		return ErrAlreadyExists
	}

	m.sessions[session.SessionID] = session.Clone()
	m.order = append(m.order, session.SessionID)

	return nil
}

func (m *Memory) FindByID(_ context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}

	return session.Clone(), nil
}

func (m *Memory) FindByUserID(_ context.Context, userID string) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]*Session, 0)
	for _, id := range m.order {
		if session := m.sessions[id]; session.UserID == userID {
			res = append(res, session.Clone())
		}
	}

	return res, nil
}

func (m *Memory) FindByStatus(_ context.Context, status Status, createdBefore time.Time) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]*Session, 0)
	for _, id := range m.order {
		session := m.sessions[id]
		if session.Status == status && session.CreatedAt.Before(createdBefore) {
			res = append(res, session.Clone())
		}
	}

	return res, nil
}

func (m *Memory) Update(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.sessions[session.SessionID]
	if !ok {
		return ErrNotFound
	}

	if prev.Version != session.Version {
		return ErrConflict
	}

	if err := CheckUpdate(prev, session); err != nil {
		return err
	}

	session.Version++
	m.sessions[session.SessionID] = session.Clone()

	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return ErrNotFound
	}

	delete(m.sessions, sessionID)
	for i, id := range m.order {
		if id == sessionID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}
