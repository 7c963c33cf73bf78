package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

type mockIdentityService struct {
	mock.Mock
}

func (m *mockIdentityService) Me(ctx context.Context) (*domain.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *mockIdentityService) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var challenger = &domain.Identity{ID: "u-7", Name: "Cleo", Role: domain.RoleChallenger}

func TestStore_StartsBootstrapping(t *testing.T) {
	s := NewStore(&mockIdentityService{}, zerolog.Nop())

	snap := s.Snapshot()
	assert.True(t, snap.Bootstrapping)
	assert.Nil(t, snap.Identity)
	assert.False(t, snap.Authenticated())
}

func TestStore_BootstrapRestoresIdentity(t *testing.T) {
	svc := &mockIdentityService{}
	svc.On("Me", mock.Anything).Return(challenger, nil).Once()
	s := NewStore(svc, zerolog.Nop())

	s.Bootstrap(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.Bootstrapping)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "u-7", snap.Identity.ID)
	assert.True(t, snap.Authenticated())
	svc.AssertExpectations(t)
}

func TestStore_BootstrapFailureIsAnonymous(t *testing.T) {
	for name, ret := range map[string][]any{
		"transport error":  {nil, errors.New("connection refused")},
		"no session":       {nil, nil},
		"invalid identity": {&domain.Identity{Role: domain.RoleSolver}, nil},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &mockIdentityService{}
			svc.On("Me", mock.Anything).Return(ret...).Once()
			s := NewStore(svc, zerolog.Nop())

			s.Bootstrap(context.Background())

			snap := s.Snapshot()
			assert.False(t, snap.Bootstrapping)
			assert.Nil(t, snap.Identity)
		})
	}
}

func TestStore_BootstrapRunsOnce(t *testing.T) {
	svc := &mockIdentityService{}
	svc.On("Me", mock.Anything).Return(challenger, nil).Once()
	s := NewStore(svc, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Bootstrap(context.Background())
		}()
	}
	wg.Wait()

	svc.AssertNumberOfCalls(t, "Me", 1)
	select {
	case <-s.Ready():
	default:
		t.Fatal("ready channel must be closed after bootstrap")
	}
}

func TestStore_WaitHonoursContext(t *testing.T) {
	s := NewStore(&mockIdentityService{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}

func TestStore_LoginDuringBootstrapWins(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	svc := &mockIdentityService{}
	svc.On("Me", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&domain.Identity{ID: "stale", Role: domain.RoleSolver}, nil).
		Once()
	s := NewStore(svc, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		s.Bootstrap(context.Background())
		close(done)
	}()

	<-started
	require.NoError(t, s.Login(challenger))
	close(release)
	<-done

	assert.Equal(t, "u-7", s.Identity().ID)
}

func TestStore_LoginRejectsInvalidIdentity(t *testing.T) {
	s := NewStore(&mockIdentityService{}, zerolog.Nop())

	assert.Error(t, s.Login(nil))
	assert.Error(t, s.Login(&domain.Identity{ID: "x", Role: "ROOT"}))
}

func TestStore_LogoutClearsEvenWhenRemoteFails(t *testing.T) {
	svc := &mockIdentityService{}
	svc.On("Logout", mock.Anything).Return(errors.New("503")).Once()
	s := NewStore(svc, zerolog.Nop())
	require.NoError(t, s.Login(challenger))

	s.Logout(context.Background())

	assert.Nil(t, s.Identity())
	svc.AssertExpectations(t)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(&mockIdentityService{}, zerolog.Nop())
	require.NoError(t, s.Login(challenger))

	s.Snapshot().Identity.Role = domain.RoleAdmin

	assert.Equal(t, domain.RoleChallenger, s.Identity().Role)
}
