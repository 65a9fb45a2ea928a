// Package session holds the single current identity of a client, persists it to a
// durable slot and gates role-prefixed surfaces.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

// State is either LoggedOut (the zero value) or LoggedIn with a well-formed identity.
type State struct {
	Identity user.Identity
}

var LoggedOut = State{}

func LoggedIn(ident user.Identity) State { return State{Identity: ident} }

func (s State) LoggedIn() bool { return s.Identity.Valid() }

func (s State) Role() user.Role {
	if !s.LoggedIn() {
		return ""
	}
	return s.Identity.Role
}

// Verifier checks and changes secrets.
type Verifier interface {
	Verify(ctx context.Context, identifier, secret string, role user.Role) (user.Identity, error)
	ChangeSecret(ctx context.Context, role user.Role, id, oldSecret, newSecret string) error
}

// Slot is the durable home of a session: the identity body and its role, kept apart.
// Read returns empty values when nothing is stored.
type Slot interface {
	Read(ctx context.Context) (role string, body []byte, err error)
	Write(ctx context.Context, role string, body []byte) error
	Clear(ctx context.Context) error
}

type Manager struct {
	verifier Verifier
	slot     Slot

	mu    sync.RWMutex
	state State
}

func NewManager(verifier Verifier, slot Slot) *Manager {
	return &Manager{verifier: verifier, slot: slot}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Login verifies the credentials and persists the identity. On failure the state is unchanged.
func (m *Manager) Login(ctx context.Context, identifier, secret string, role user.Role) (user.Identity, error) {
	ident, err := m.verifier.Verify(ctx, identifier, secret, role)
	if err != nil {
		if core.Is(err, core.ErrInvalidCredentials) {
			return user.Identity{}, core.ErrInvalidCredentials
		}
		return user.Identity{}, errors.Wrap(err, "verifying credentials")
	}

	body, err := json.Marshal(ident.Record())
	if err != nil {
		return user.Identity{}, errors.Wrap(err, "encoding identity")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.slot.Write(ctx, ident.Role.String(), body); err != nil {
		return user.Identity{}, errors.Wrap(err, "persisting session")
	}
	m.state = LoggedIn(ident)
	return ident, nil
}

// Logout always ends LoggedOut, even when clearing the slot fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = LoggedOut
	return errors.Wrap(m.slot.Clear(ctx), "clearing session")
}

// Restore reads the slot. Anything but a known role with a matching, decodable identity means LoggedOut.
func (m *Manager) Restore(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = LoggedOut
	roleName, body, err := m.slot.Read(ctx)
	if err != nil {
		return m.state, errors.Wrap(err, "reading session")
	}
	if roleName == "" || len(body) == 0 {
		return m.state, nil
	}
	role, ok := user.ParseRole(roleName)
	if !ok {
		return m.state, nil
	}
	ident, err := user.DecodeIdentity(role, body)
	if err != nil {
		return m.state, nil
	}
	m.state = LoggedIn(ident)
	return m.state, nil
}

// ChangePassword replaces the secret of the logged in student if oldSecret matches.
func (m *Manager) ChangePassword(ctx context.Context, oldSecret, newSecret string) error {
	state := m.State()
	if state.Role() != user.RoleStudent {
		return core.ErrPermissionDenied
	}
	return m.verifier.ChangeSecret(ctx, user.RoleStudent, state.Identity.ID(), oldSecret, newSecret)
}

// Authorize applies the gate to the current state.
func (m *Manager) Authorize(required user.Role) Decision {
	return Authorize(m.State(), required)
}
