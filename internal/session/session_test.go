package session

import (
	"context"
	"errors"
	"testing"

	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveProfile(ctx context.Context, identity entity.Identity) (*entity.UserProfile, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockResolver) ForgetProfile(id uuid.UUID) {
	m.Called(id)
}

func TestSession_LoadingUntilStarted(t *testing.T) {
	identity := &entity.Identity{ID: uuid.New(), Email: "asha@example.com"}
	s := New(&MockResolver{}, identity, "tok")

	snap := s.Current()

	assert.True(t, snap.Authenticated())
	assert.True(t, snap.Loading)
	assert.Nil(t, snap.Profile)
	assert.Equal(t, "tok", snap.TokenID)
}

func TestSession_StartResolvesProfile(t *testing.T) {
	identity := &entity.Identity{ID: uuid.New(), Email: "asha@example.com"}
	profile := &entity.UserProfile{ID: identity.ID, Email: identity.Email, Role: entity.RolePatient}
	resolver := &MockResolver{}
	resolver.On("ResolveProfile", mock.Anything, *identity).Return(profile, nil).Once()
	s := New(resolver, identity, "tok")

	require.NoError(t, s.Start(context.Background()))

	snap := s.Current()
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, entity.RolePatient, snap.Profile.Role)
	resolver.AssertExpectations(t)
}

func TestSession_StartKeepsResolutionFailure(t *testing.T) {
	identity := &entity.Identity{ID: uuid.New(), Email: "asha@example.com"}
	resolver := &MockResolver{}
	resolver.On("ResolveProfile", mock.Anything, *identity).Return(nil, errors.New("store unavailable"))
	s := New(resolver, identity, "")

	err := s.Start(context.Background())

	require.Error(t, err)
	snap := s.Current()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Profile)
	assert.Error(t, snap.Err)
	assert.True(t, snap.Authenticated())
}

func TestSession_StopEvictsProfile(t *testing.T) {
	identity := &entity.Identity{ID: uuid.New(), Email: "asha@example.com"}
	profile := &entity.UserProfile{ID: identity.ID, Role: entity.RolePatient}
	resolver := &MockResolver{}
	resolver.On("ResolveProfile", mock.Anything, *identity).Return(profile, nil)
	resolver.On("ForgetProfile", identity.ID).Once()
	s := New(resolver, identity, "tok")
	require.NoError(t, s.Start(context.Background()))

	s.Stop()

	snap := s.Current()
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.Profile)
	resolver.AssertExpectations(t)
}

func TestSession_AnonymousFromContext(t *testing.T) {
	s := FromContext(context.Background())
	require.NoError(t, s.Start(context.Background()))

	snap := s.Current()
	assert.False(t, snap.Authenticated())
	assert.False(t, snap.Loading)

	stored := Anonymous()
	assert.Same(t, stored, FromContext(NewContext(context.Background(), stored)))
}
