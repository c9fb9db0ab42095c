package weld_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weldlabs/weld"
	"github.com/weldlabs/weld/mock"
)

func TestCircularDependencyDetection(t *testing.T) {
	t.Run("TwoServiceCycle", func(t *testing.T) {
		c := weld.New()
		require.NoError(t, weld.Register[*mock.Chicken](c, weld.Singleton, func(r weld.Resolver) (*mock.Chicken, error) {
			egg, err := weld.Resolve[*mock.Egg](r)
			if err != nil {
				return nil, err
			}
			return &mock.Chicken{Egg: egg}, nil
		}))
		require.NoError(t, weld.Register[*mock.Egg](c, weld.Singleton, func(r weld.Resolver) (*mock.Egg, error) {
			chicken, err := weld.Resolve[*mock.Chicken](r)
			if err != nil {
				return nil, err
			}
			return &mock.Egg{Chicken: chicken}, nil
		}))

		_, err := weld.Resolve[*mock.Chicken](c)
		var cycle *weld.CircularDependencyError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, cycle.Chain[0], cycle.Chain[len(cycle.Chain)-1], "chain should close the cycle")
		assert.Contains(t, cycle.Chain, weld.KeyOf[*mock.Chicken]())
		assert.Contains(t, cycle.Chain, weld.KeyOf[*mock.Egg]())
		assert.Contains(t, err.Error(), "circular dependency")
	})

	t.Run("SelfCycle", func(t *testing.T) {
		c := weld.New()
		require.NoError(t, weld.Register[*mock.Chicken](c, weld.Transient, func(r weld.Resolver) (*mock.Chicken, error) {
			return weld.Resolve[*mock.Chicken](r)
		}))

		_, err := weld.Resolve[*mock.Chicken](c)
		var cycle *weld.CircularDependencyError
		require.ErrorAs(t, err, &cycle)
		assert.Len(t, cycle.Chain, 2)
	})

	t.Run("DeepChainIsNotACycle", func(t *testing.T) {
		c := weld.New()
		require.NoError(t, weld.Register[*mock.Inner](c, weld.Singleton, func(r weld.Resolver) (*mock.Inner, error) {
			return &mock.Inner{Value: "ok"}, nil
		}))
		require.NoError(t, weld.Register[*mock.Middle](c, weld.Singleton, func(r weld.Resolver) (*mock.Middle, error) {
			inner, err := weld.Resolve[*mock.Inner](r)
			if err != nil {
				return nil, err
			}
			return &mock.Middle{Inner: inner}, nil
		}))
		require.NoError(t, weld.Register[*mock.Outer](c, weld.Singleton, func(r weld.Resolver) (*mock.Outer, error) {
			middle, err := weld.Resolve[*mock.Middle](r)
			if err != nil {
				return nil, err
			}
			return &mock.Outer{Middle: middle}, nil
		}))

		outer, err := weld.Resolve[*mock.Outer](c)
		require.NoError(t, err)
		assert.Equal(t, "ok", outer.Middle.Inner.Value)

		// A second resolution re-walks the chain without stale in-flight state.
		_, err = weld.Resolve[*mock.Outer](c)
		require.NoError(t, err)
	})
}

func TestInitializationErrorWrapping(t *testing.T) {
	c := weld.New()
	sentinel := errors.New("connection refused")
	require.NoError(t, weld.Register[mock.Database](c, weld.Singleton, func(r weld.Resolver) (mock.Database, error) {
		return nil, sentinel
	}))

	_, err := weld.Resolve[mock.Database](c)
	var initErr *weld.InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, weld.KeyOf[mock.Database](), initErr.Key)
}

func TestFailedSingletonIsRetried(t *testing.T) {
	c := weld.New()
	attempts := 0
	require.NoError(t, weld.Register[mock.Database](c, weld.Singleton, func(r weld.Resolver) (mock.Database, error) {
		attempts++
		if attempts == 1 {
			return nil, fmt.Errorf("transient failure")
		}
		return mock.NewMemoryDB(), nil
	}))

	_, err := weld.Resolve[mock.Database](c)
	require.Error(t, err)

	// A failed construction is not cached; the next resolution retries.
	db, err := weld.Resolve[mock.Database](c)
	require.NoError(t, err)
	assert.True(t, db.IsConnected())
	assert.Equal(t, 2, attempts)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t,
		"no registration found for service: mock.Database",
		(&weld.UnregisteredServiceError{Key: "mock.Database"}).Error())
	assert.Equal(t,
		"service already registered: mock.Database",
		(&weld.DuplicateRegistrationError{Key: "mock.Database"}).Error())
	assert.Equal(t,
		"circular dependency detected: a -> b -> a",
		(&weld.CircularDependencyError{Chain: []string{"a", "b", "a"}}).Error())
	assert.Equal(t,
		"scoped service mock.Cache must be resolved through a scope",
		(&weld.InvalidLifetimeError{Key: "mock.Cache", Lifetime: weld.Scoped}).Error())
}
