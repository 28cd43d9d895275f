// Package session tracks the identity and profile of one authenticated caller.
package session

import (
	"context"
	"sync"

	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
)

// Resolver maps an identity to its profile.
type Resolver interface {
	ResolveProfile(ctx context.Context, identity entity.Identity) (*entity.UserProfile, error)
	ForgetProfile(id uuid.UUID)
}

// Snapshot is an immutable view of a session.
type Snapshot struct {
	Identity *entity.Identity
	TokenID  string
	Profile  *entity.UserProfile
	Loading  bool
	Err      error
}

func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// Session holds the state of one caller from Start until Stop.
type Session struct {
	mu       sync.RWMutex
	resolver Resolver
	identity *entity.Identity
	tokenID  string
	profile  *entity.UserProfile
	loading  bool
	err      error
}

// New creates a session for identity. A nil identity yields an anonymous session.
func New(resolver Resolver, identity *entity.Identity, tokenID string) *Session {
	return &Session{
		resolver: resolver,
		identity: identity,
		tokenID:  tokenID,
		loading:  identity != nil,
	}
}

// Anonymous returns a session without identity.
func Anonymous() *Session {
	return &Session{}
}

// Start resolves the profile of the session's identity. A failed resolution
// is kept in the snapshot and returned.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	identity := s.identity
	if identity == nil || s.resolver == nil {
		s.loading = false
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	profile, err := s.resolver.ResolveProfile(ctx, *identity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		// stopped while resolving
		return err
	}
	s.loading = false
	s.profile = profile
	s.err = err
	return err
}

func (s *Session) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		TokenID: s.tokenID,
		Loading: s.loading,
		Err:     s.err,
	}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	if s.profile != nil {
		profile := *s.profile
		snap.Profile = &profile
	}
	return snap
}

// Stop clears the session and evicts the cached profile of its identity.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != nil && s.resolver != nil {
		s.resolver.ForgetProfile(s.identity.ID)
	}
	s.identity = nil
	s.tokenID = ""
	s.profile = nil
	s.loading = false
	s.err = nil
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
		return s
	}
	return Anonymous()
}
