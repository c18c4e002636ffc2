package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safar/vendor-portal/internal/config"
	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/simulate"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSessionNotFound    = errors.New("session not found")
)

// Session is a signed-in identity. A nil *Session means anonymous.
type Session struct {
	ID          string      `json:"id"`
	Identity    string      `json:"identity"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	VendorID    string      `json:"vendor_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// VendorDirectory resolves a vendor session to the vendor it acts for.
type VendorDirectory interface {
	ListVendors(ctx context.Context) ([]models.Vendor, error)
}

// Manager owns the live sessions. Sessions live only in process memory and
// are gone after sign-out, expiry or restart.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	password string
	delay    time.Duration
	ttl      time.Duration
	tokens   *TokenIssuer
	vendors  VendorDirectory
	onEnd    func(id string)
	now      func() time.Time
}

// NewManager builds the session store. onEnd, when non-nil, is called with
// the id of every session that is signed out or expires.
func NewManager(cfg config.AuthConfig, vendors VendorDirectory, onEnd func(id string)) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		password: cfg.DemoPassword,
		delay:    cfg.SignInDelay,
		ttl:      cfg.TokenTTL,
		tokens:   NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL),
		vendors:  vendors,
		onEnd:    onEnd,
		now:      time.Now,
	}
}

func ParseRole(s string) (models.Role, error) {
	switch models.Role(strings.ToLower(strings.TrimSpace(s))) {
	case models.RoleAdmin:
		return models.RoleAdmin, nil
	case models.RoleVendor:
		return models.RoleVendor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func displayName(role models.Role) string {
	if role == models.RoleAdmin {
		return "Admin User"
	}
	return "Vendor User"
}

// SignIn waits the simulated round-trip, then creates a session iff secret
// is the demo password. It returns the session and its bearer token.
func (m *Manager) SignIn(ctx context.Context, identity, secret string, role models.Role) (*Session, string, error) {
	if err := simulate.Delay(ctx, m.delay); err != nil {
		return nil, "", err
	}

	if role != models.RoleAdmin && role != models.RoleVendor {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if secret != m.password {
		return nil, "", ErrInvalidCredentials
	}

	now := m.now()
	session := &Session{
		ID:          uuid.NewString(),
		Identity:    strings.TrimSpace(identity),
		DisplayName: displayName(role),
		Role:        role,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
	if role == models.RoleVendor {
		session.VendorID = m.vendorFor(ctx, session.Identity)
	}

	token, err := m.tokens.Issue(session, now)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	m.mu.Lock()
	expired := m.sweepLocked(now)
	m.sessions[session.ID] = session
	m.mu.Unlock()
	m.ended(expired...)

	return session, token, nil
}

func (m *Manager) vendorFor(ctx context.Context, identity string) string {
	if m.vendors == nil || identity == "" {
		return ""
	}
	vendors, err := m.vendors.ListVendors(ctx)
	if err != nil {
		return ""
	}
	for _, v := range vendors {
		if strings.EqualFold(v.Email, identity) {
			return v.ID
		}
	}
	return ""
}

// SignOut destroys the session. Unknown ids are ignored.
func (m *Manager) SignOut(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		m.ended(id)
	}
}

// Authenticate returns the live session a bearer token refers to. An expired
// session is dropped and reported as ErrSessionNotFound.
func (m *Manager) Authenticate(token string) (*Session, error) {
	now := m.now()
	id, err := m.tokens.Parse(token, now)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok && !now.Before(session.ExpiresAt) {
		delete(m.sessions, id)
		m.mu.Unlock()
		m.ended(id)
		return nil, ErrSessionNotFound
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Count reports the live sessions, dropping any that have expired.
func (m *Manager) Count() int {
	m.mu.Lock()
	expired := m.sweepLocked(m.now())
	n := len(m.sessions)
	m.mu.Unlock()
	m.ended(expired...)
	return n
}

// sweepLocked removes expired sessions and returns their ids. m.mu must be held.
func (m *Manager) sweepLocked(now time.Time) []string {
	var expired []string
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired
}

func (m *Manager) ended(ids ...string) {
	if m.onEnd == nil {
		return
	}
	for _, id := range ids {
		m.onEnd(id)
	}
}
