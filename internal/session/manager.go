package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"contractor_connect/internal/model"

	"github.com/sirupsen/logrus"
)

// State is a snapshot of the session. Authenticated holds exactly when both
// User and Token are set.
type State struct {
	User          *model.User
	Token         string
	RefreshToken  string
	Authenticated bool
	Initializing  bool
}

// Manager owns the session and keeps the store in step with it
type Manager interface {
	// Initialize restores the session from the store. Unreadable values are
	// cleared and leave the session unauthenticated.
	Initialize() State
	State() State
	Token() string
	// SetAuth persists user and token before adopting them
	SetAuth(user model.User, token string) error
	// ClearAuth forgets the session; store failures are only logged
	ClearAuth()
	// UpdateUser replaces the stored user and leaves the token alone
	UpdateUser(user model.User) error
	// SetRefreshToken persists the token used to renew an expiring session
	SetRefreshToken(token string) error
}

type manager struct {
	mu    sync.RWMutex
	store Store
	state State
}

// NewManager creates a Manager in the initializing state
func NewManager(store Store) Manager {
	return &manager{store: store, state: State{Initializing: true}}
}

func (m *manager) Initialize() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{}
	token, tokenErr := m.store.Get(TokenKey)
	rawUser, userErr := m.store.Get(UserKey)

	switch {
	case errors.Is(tokenErr, ErrKeyNotFound) || errors.Is(userErr, ErrKeyNotFound) || (tokenErr == nil && token == ""):
		// Nothing usable stored
	case tokenErr != nil || userErr != nil:
		logrus.WithError(errors.Join(tokenErr, userErr)).Warn("Stored session unreadable, clearing it")
		m.clearStore()
	default:
		var user model.User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			logrus.WithError(err).Warn("Stored user record corrupt, clearing session")
			m.clearStore()
			break
		}
		m.state = State{User: &user, Token: token, Authenticated: true}
		refresh, err := m.store.Get(RefreshKey)
		switch {
		case err == nil:
			m.state.RefreshToken = refresh
		case !errors.Is(err, ErrKeyNotFound):
			logrus.WithError(err).Warn("Stored refresh token unreadable, dropping it")
			m.deleteKey(RefreshKey)
		}
	}
	return m.snapshot()
}

func (m *manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

func (m *manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}

func (m *manager) SetAuth(user model.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := m.store.Set(UserKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	m.state = State{User: &user, Token: token, RefreshToken: m.state.RefreshToken, Authenticated: token != ""}
	return nil
}

func (m *manager) ClearAuth() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearStore()
	m.state = State{}
}

func (m *manager) UpdateUser(user model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(UserKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	m.state.User = &user
	m.state.Authenticated = m.state.Token != ""
	return nil
}

func (m *manager) SetRefreshToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token == "" {
		m.deleteKey(RefreshKey)
	} else if err := m.store.Set(RefreshKey, token); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	m.state.RefreshToken = token
	return nil
}

func (m *manager) clearStore() {
	for _, key := range []string{TokenKey, UserKey, RefreshKey} {
		m.deleteKey(key)
	}
}

func (m *manager) deleteKey(key string) {
	if err := m.store.Delete(key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete stored session value")
	}
}

// snapshot copies the user so callers cannot mutate session state
func (m *manager) snapshot() State {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
