package weld

import "reflect"

// KeyOf returns the service key for type T: its reflected type string.
// Interfaces and concrete types both work; register against the abstract
// type consumers depend on.
func KeyOf[T any]() string {
	return typeKey(reflect.TypeOf((*T)(nil)).Elem())
}

// Register registers a factory for T with the given lifetime. Registering a
// key twice returns DuplicateRegistrationError; overwrite deliberately with
// Replace.
func Register[T any](c *Container, lifetime Lifetime, factory Factory[T]) error {
	key := KeyOf[T]()
	if factory == nil {
		return &NilFactoryError{Key: key}
	}
	return c.register(key, lifetime, eraseFactory(factory), false)
}

// Replace registers a factory for T, overwriting any prior registration.
// A previously cached instance for the key is discarded, not shut down.
func Replace[T any](c *Container, lifetime Lifetime, factory Factory[T]) error {
	key := KeyOf[T]()
	if factory == nil {
		return &NilFactoryError{Key: key}
	}
	return c.register(key, lifetime, eraseFactory(factory), true)
}

// RegisterInstance registers an already-constructed value as a singleton.
// The instance counts as resolved from the start, so Boot skips it and Close
// shuts it down if it implements Shutdowner.
func RegisterInstance[T any](c *Container, instance T) error {
	key := KeyOf[T]()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.registrations[key]; exists {
		return &DuplicateRegistrationError{Key: key}
	}

	reg := &registration{
		key:      key,
		lifetime: Singleton,
		factory:  func(Resolver) (any, error) { return instance, nil },
		resolved: true,
		instance: instance,
	}
	c.registrations[key] = reg
	c.resolvedOrder = append(c.resolvedOrder, reg)
	c.log.Debug().Str("service", key).Str("lifetime", Singleton.String()).Msg("instance registered")
	return nil
}

// Registered reports whether T has a registration in the container.
func Registered[T any](c *Container) bool {
	return c.Has(KeyOf[T]())
}

// Resolve produces an instance of T through r, honoring the registered
// lifetime. r is either a *Container or a *Scope; scoped services require
// the latter.
func Resolve[T any](r Resolver) (T, error) {
	var zero T
	key := KeyOf[T]()
	v, err := r.ResolveKey(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		got := "<nil>"
		if v != nil {
			got = typeKey(reflect.TypeOf(v))
		}
		return zero, &TypeMismatchError{
			Key:      key,
			Expected: key,
			Got:      got,
		}
	}
	return t, nil
}

func eraseFactory[T any](f Factory[T]) func(Resolver) (any, error) {
	return func(r Resolver) (any, error) { return f(r) }
}

// TryResolve is like Resolve but reports failure as a boolean instead of an
// error. It never fails; a missing registration, a factory error, or a type
// mismatch all report false.
func TryResolve[T any](r Resolver) (T, bool) {
	t, err := Resolve[T](r)
	if err != nil {
		var zero T
		return zero, false
	}
	return t, true
}

// MustResolve is like Resolve but panics on error. Intended for program
// startup paths where a missing registration is unrecoverable.
func MustResolve[T any](r Resolver) T {
	t, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return t
}
