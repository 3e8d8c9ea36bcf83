// Package session owns the signed-in identity of the client. The state is
// one of Unknown (not resolved yet), Anonymous or Authenticated, and every
// change is pushed to subscribers. The token pair survives restarts in the
// local metadata store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/auth"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/logging"
)

type State int

const (
	Unknown State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is the identity at one point in time. UserID is set only when
// State is Authenticated.
type Snapshot struct {
	State  State
	UserID string
	Email  string
}

// Provider is the hosted auth service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
	Refresh(ctx context.Context, refreshToken string) (*auth.Session, error)
	ParseClaims(token string) (*auth.Claims, error)
}

type Manager struct {
	provider Provider
	kv       metadata.Repository
	logger   logging.Logger
	now      func() time.Time

	// notifyMu serialises transitions with their delivery so subscribers
	// see states in commit order. Taken before mu.
	notifyMu sync.Mutex

	mu      sync.Mutex
	current Snapshot
	tokens  *auth.Session
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewManager(provider Provider, kv metadata.Repository, logger logging.Logger) *Manager {
	return &Manager{
		provider: provider,
		kv:       kv,
		logger:   logger,
		now:      time.Now,
		subs:     make(map[int]func(Snapshot)),
	}
}

func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// AccessToken returns the bearer token of the current session, if any.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		return ""
	}
	return m.tokens.AccessToken
}

// Subscribe registers fn for state transitions. fn runs on the goroutine
// that caused the transition, outside the manager's state lock. Deliveries
// never overlap and arrive in transition order; fn must not sign in or out.
func (m *Manager) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) transition(next Snapshot, tokens *auth.Session) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	m.tokens = tokens
	if m.current == next {
		m.mu.Unlock()
		return
	}
	m.current = next
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

func (m *Manager) becomeAnonymous(ctx context.Context) {
	if err := m.kv.Delete(ctx, common.SessionKey); err != nil {
		m.logger.Warn(ctx, "failed to drop stored session", "error", err)
	}
	m.transition(Snapshot{State: Anonymous}, nil)
}

func (m *Manager) establish(ctx context.Context, s *auth.Session) error {
	claims, err := m.provider.ParseClaims(s.AccessToken)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.kv.Set(ctx, common.SessionKey, raw); err != nil {
		m.logger.Warn(ctx, "failed to store session", "error", err)
	}

	email := claims.Email
	if email == "" {
		email = s.User.Email
	}
	m.transition(Snapshot{State: Authenticated, UserID: claims.UserID(), Email: email}, s)
	return nil
}

// Resolve settles the initial state from the stored session, refreshing it
// once when it has expired. Any failure resolves to Anonymous.
func (m *Manager) Resolve(ctx context.Context) Snapshot {
	if err := m.resolve(ctx); err != nil {
		m.logger.Info(ctx, "no usable session", "reason", err)
		m.becomeAnonymous(ctx)
	}
	return m.Current()
}

func (m *Manager) resolve(ctx context.Context) error {
	raw, err := m.kv.Get(ctx, common.SessionKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.New("no stored session")
	}

	var s auth.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("decode stored session: %w", err)
	}

	if s.Expired(m.now()) || s.AccessToken == "" {
		fresh, err := m.provider.Refresh(ctx, s.RefreshToken)
		if err != nil {
			return fmt.Errorf("refresh session: %w", err)
		}
		return m.establish(ctx, fresh)
	}
	return m.establish(ctx, &s)
}

func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	s, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		m.logger.Error(ctx, "sign in failed", "email", email, "error", err)
		return err
	}
	return m.establish(ctx, s)
}

// SignUp registers and, when the service issues tokens right away, signs in.
// It reports whether a session was established.
func (m *Manager) SignUp(ctx context.Context, email, password string) (bool, error) {
	s, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		m.logger.Error(ctx, "sign up failed", "email", email, "error", err)
		return false, err
	}
	if s.AccessToken == "" {
		return false, nil
	}
	return true, m.establish(ctx, s)
}

// SignOut revokes the session remotely and always ends Anonymous locally.
func (m *Manager) SignOut(ctx context.Context) error {
	token := m.AccessToken()
	var err error
	if token != "" {
		if err = m.provider.SignOut(ctx, token); err != nil {
			m.logger.Warn(ctx, "remote sign out failed", "error", err)
		}
	}
	m.becomeAnonymous(ctx)
	return err
}

func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	return m.provider.ResetPassword(ctx, email)
}

// Watch refreshes the session when it expires, checking every interval until
// ctx is done. A failed refresh signs the user out locally.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Manager) check(ctx context.Context) {
	m.mu.Lock()
	tokens := m.tokens
	m.mu.Unlock()

	if tokens == nil || !tokens.Expired(m.now()) {
		return
	}

	fresh, err := m.provider.Refresh(ctx, tokens.RefreshToken)
	if err == nil {
		err = m.establish(ctx, fresh)
	}
	if err != nil {
		m.logger.Warn(ctx, "session refresh failed", "error", err)
		m.becomeAnonymous(ctx)
	}
}
