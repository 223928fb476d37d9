// Package auth implements the two fixed dashboard profiles and a
// file-backed session so a restart does not log the user out.
package auth

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"toca/internal/core"
)

// The dashboard has no self-service signup. These are the only accounts.
var users = map[core.UserRole]core.User{
	core.RoleAdmin:     {ID: "user-1", Name: "Admin", Role: core.RoleAdmin},
	core.RoleReception: {ID: "user-2", Name: "Recepção", Role: core.RoleReception},
}

type sessionFile struct {
	Role       core.UserRole `json:"role"`
	LoggedInAt time.Time     `json:"loggedInAt"`
}

// Manager holds the current session in memory and mirrors it to disk.
type Manager struct {
	mu   sync.Mutex
	path string
	cur  *core.User
}

func NewManager(path string) *Manager {
	m := &Manager{path: path}
	m.restore()
	return m
}

// restore loads a persisted session, ignoring any unreadable file.
func (m *Manager) restore() {
	b, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var sf sessionFile
	if err := json.Unmarshal(b, &sf); err != nil {
		return
	}
	u, ok := users[sf.Role]
	if !ok {
		return
	}
	m.cur = &u
}

// Login switches the session to the given profile.
func (m *Manager) Login(role core.UserRole) (core.User, error) {
	u, ok := users[role]
	if !ok {
		return core.User{}, core.ErrInvalidRole
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = &u
	if err := m.persist(sessionFile{Role: role, LoggedInAt: time.Now()}); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// Logout clears the session. Logging out while logged out is not an error.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Current returns the logged-in user or ErrNotAuthenticated.
func (m *Manager) Current() (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return core.User{}, core.ErrNotAuthenticated
	}
	return *m.cur, nil
}

// RequireRole checks that a user with the given role is logged in.
// Admin passes every check.
func (m *Manager) RequireRole(role core.UserRole) (core.User, error) {
	u, err := m.Current()
	if err != nil {
		return core.User{}, err
	}
	if u.Role != core.RoleAdmin && u.Role != role {
		return core.User{}, core.ErrForbidden
	}
	return u, nil
}

func (m *Manager) persist(sf sessionFile) error {
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(sf)
}
