package weld_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/weldlabs/weld"
	"github.com/weldlabs/weld/mock"
)

type ScopeTestSuite struct {
	suite.Suite
	c *weld.Container
}

func (s *ScopeTestSuite) SetupTest() {
	s.c = weld.New()
	err := weld.Register[*mock.RequestState](s.c, weld.Scoped, func(r weld.Resolver) (*mock.RequestState, error) {
		return &mock.RequestState{ID: uuid.NewString()}, nil
	})
	s.NoError(err)
}

func (s *ScopeTestSuite) TestScopedInstanceSharedWithinScope() {
	scope := s.c.NewScope()
	defer scope.Close(context.Background())

	first, err := weld.Resolve[*mock.RequestState](scope)
	s.NoError(err)
	second, err := weld.Resolve[*mock.RequestState](scope)
	s.NoError(err)
	s.Same(first, second)

	first.Append("handled")
	s.Equal([]string{"handled"}, second.Events())
}

func (s *ScopeTestSuite) TestScopesAreIsolated() {
	scope1 := s.c.NewScope()
	scope2 := s.c.NewScope()
	defer scope1.Close(context.Background())
	defer scope2.Close(context.Background())

	s.NotEqual(scope1.ID(), scope2.ID())

	state1, err := weld.Resolve[*mock.RequestState](scope1)
	s.NoError(err)
	state2, err := weld.Resolve[*mock.RequestState](scope2)
	s.NoError(err)

	s.NotSame(state1, state2)
	s.NotEqual(state1.ID, state2.ID)
}

func (s *ScopeTestSuite) TestScopedResolutionOutsideScopeFails() {
	_, err := weld.Resolve[*mock.RequestState](s.c)
	var invalid *weld.InvalidLifetimeError
	s.ErrorAs(err, &invalid)
	s.Equal(weld.Scoped, invalid.Lifetime)

	_, ok := weld.TryResolve[*mock.RequestState](s.c)
	s.False(ok)
}

func (s *ScopeTestSuite) TestScopeSharesContainerSingletons() {
	s.NoError(weld.Register[mock.Database](s.c, weld.Singleton, func(r weld.Resolver) (mock.Database, error) {
		return mock.NewMemoryDB(), nil
	}))

	scope := s.c.NewScope()
	defer scope.Close(context.Background())

	fromScope, err := weld.Resolve[mock.Database](scope)
	s.NoError(err)
	fromContainer, err := weld.Resolve[mock.Database](s.c)
	s.NoError(err)
	s.Same(fromContainer, fromScope)
}

func (s *ScopeTestSuite) TestNestedScopedDependencies() {
	type requestAudit struct {
		State *mock.RequestState
	}
	s.NoError(weld.Register[*requestAudit](s.c, weld.Scoped, func(r weld.Resolver) (*requestAudit, error) {
		state, err := weld.Resolve[*mock.RequestState](r)
		if err != nil {
			return nil, err
		}
		return &requestAudit{State: state}, nil
	}))

	scope := s.c.NewScope()
	defer scope.Close(context.Background())

	audit, err := weld.Resolve[*requestAudit](scope)
	s.NoError(err)
	state, err := weld.Resolve[*mock.RequestState](scope)
	s.NoError(err)

	// The nested factory resolved through the same scope.
	s.Same(state, audit.State)
}

func (s *ScopeTestSuite) TestCloseReleasesInstancesInReverseOrder() {
	journal := &mock.ShutdownJournal{}
	s.NoError(weld.Register[*mock.ShutdownRecorder](s.c, weld.Scoped, func(r weld.Resolver) (*mock.ShutdownRecorder, error) {
		return &mock.ShutdownRecorder{Name: "a", Journal: journal}, nil
	}))
	type second struct {
		*mock.ShutdownRecorder
	}
	s.NoError(weld.Register[*second](s.c, weld.Scoped, func(r weld.Resolver) (*second, error) {
		return &second{&mock.ShutdownRecorder{Name: "b", Journal: journal}}, nil
	}))

	scope := s.c.NewScope()
	_, err := weld.Resolve[*mock.ShutdownRecorder](scope)
	s.NoError(err)
	_, err = weld.Resolve[*second](scope)
	s.NoError(err)

	s.NoError(scope.Close(context.Background()))
	s.Equal([]string{"b", "a"}, journal.Names())
}

func (s *ScopeTestSuite) TestResolutionAfterCloseFails() {
	scope := s.c.NewScope()
	s.NoError(scope.Close(context.Background()))

	_, err := weld.Resolve[*mock.RequestState](scope)
	var closed *weld.ScopeClosedError
	s.ErrorAs(err, &closed)
	s.Equal(scope.ID(), closed.ID)

	// Closing twice is a no-op.
	s.NoError(scope.Close(context.Background()))
}

func TestScopeSuite(t *testing.T) {
	suite.Run(t, new(ScopeTestSuite))
}
