package weld

import "context"

// Lifetime defines how many instances of a service exist and how long they live.
type Lifetime string

const (
	// Transient creates a new instance for each resolution.
	Transient Lifetime = "transient"
	// Scoped shares one instance per Scope; the instance is released when
	// the scope closes.
	Scoped Lifetime = "scoped"
	// Singleton shares a single instance for the container's lifetime.
	Singleton Lifetime = "singleton"
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string {
	return string(l)
}

func (l Lifetime) valid() bool {
	switch l {
	case Transient, Scoped, Singleton:
		return true
	}
	return false
}

// Factory constructs a service instance. It receives the Resolver it is being
// resolved through so it can resolve its own dependencies; a factory invoked
// inside a Scope resolves scoped dependencies against that same scope.
//
// Factories must be synchronous. A service that needs asynchronous setup
// should perform it before registration and close over the result.
type Factory[T any] func(r Resolver) (T, error)

// Resolver turns service keys into instances. Both *Container and *Scope
// implement it, so factories and consumers can be written against either.
type Resolver interface {
	// ResolveKey resolves the service registered under key.
	// It returns UnregisteredServiceError when no registration exists.
	ResolveKey(key string) (any, error)

	// TryResolveKey is like ResolveKey but reports failure as a boolean
	// instead of an error. It never fails.
	TryResolveKey(key string) (any, bool)
}

// Shutdowner is implemented by services that hold resources needing release.
// Cached instances implementing it are shut down by Container.Close and
// Scope.Close, in reverse construction order.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}
