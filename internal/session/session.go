// Package session owns the client's in-memory belief about who is logged in.
// It is the only writer of the credential store.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/critiq-dev/critiq-cli/internal/api"
	"github.com/critiq-dev/critiq-cli/internal/credentials"
)

// State is the session lifecycle state.
type State int

const (
	// StateUnknown means rehydration has not finished. It is the only
	// initial state and must never be treated as a final answer.
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Gateway is the slice of the backend client the session manager needs.
type Gateway interface {
	FetchCurrentUser(ctx context.Context) (*api.User, error)
	Logout(ctx context.Context) error
}

// CredentialStore is the persistence the manager rehydrates from and purges.
type CredentialStore interface {
	Put(cred credentials.Credential) error
	Get() (credentials.Credential, bool)
	Clear() error
}

// Session is the current authenticated identity.
type Session struct {
	User api.User
}

// Manager holds the session state machine. All transitions go through it;
// nothing else writes the credential store.
type Manager struct {
	gateway Gateway
	store   CredentialStore

	mu      sync.Mutex
	state   State
	session Session
	epoch   uint64
}

// NewManager creates a manager in StateUnknown.
func NewManager(gateway Gateway, store CredentialStore) *Manager {
	return &Manager{gateway: gateway, store: store}
}

// Load rehydrates the session from the credential store. With no stored
// credential it lands in StateUnauthenticated without any network call.
// A stored credential whose identity fetch fails is treated as invalid and
// purged, and the failure is swallowed; the caller sees an unauthenticated
// session, not an error.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	if _, ok := m.store.Get(); !ok {
		slog.Debug("session rehydration: no stored credential")
		m.transition(epoch, StateUnauthenticated, Session{})
		return
	}

	user, err := m.gateway.FetchCurrentUser(ctx)
	if err != nil {
		slog.Debug("session rehydration: stored credential rejected", "error", err)
		m.demote(epoch)
		return
	}
	m.transition(epoch, StateAuthenticated, Session{User: *user})
}

// demote lands Unauthenticated and purges the credential, but only if no
// other transition happened since the caller observed epoch. The purge sits
// inside the guard so a stale rehydration can never clear a credential a
// concurrent Login just installed.
func (m *Manager) demote(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	_ = m.store.Clear()
	m.epoch++
	m.state = StateUnauthenticated
	m.session = Session{}
}

// Login installs a fresh credential and identity, as produced by a completed
// handshake.
func (m *Manager) Login(token, scheme string, user api.User) error {
	if err := m.store.Put(credentials.Credential{Token: token, Scheme: scheme}); err != nil {
		return err
	}
	m.mu.Lock()
	m.epoch++
	m.state = StateAuthenticated
	m.session = Session{User: user}
	m.mu.Unlock()
	return nil
}

// Logout ends the session. The backend logout is best-effort: its failure
// never blocks the local transition, which always lands Unauthenticated with
// the credential purged.
func (m *Manager) Logout(ctx context.Context) error {
	_ = m.gateway.Logout(ctx)
	clearErr := m.store.Clear()

	m.mu.Lock()
	m.epoch++
	m.state = StateUnauthenticated
	m.session = Session{}
	m.mu.Unlock()
	return clearErr
}

// Current returns the session, or ok=false when no identity is established.
// Callers must check Loading first to distinguish "not yet known" from
// "known absent".
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return Session{}, false
	}
	return m.session, true
}

// Loading reports whether rehydration is still pending.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateUnknown
}

// CurrentState returns the lifecycle state.
func (m *Manager) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// transition applies a state change only if no other transition happened
// since the caller observed epoch. A stale completion is dropped, so a
// response arriving after login or logout never clobbers the newer state.
func (m *Manager) transition(epoch uint64, state State, session Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	m.epoch++
	m.state = state
	m.session = session
}
