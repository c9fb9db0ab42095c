package weld

import (
	"fmt"
	"strings"
)

// UnregisteredServiceError reports a resolution attempt for a key that has
// no registration.
type UnregisteredServiceError struct {
	Key string
}

func (e *UnregisteredServiceError) Error() string {
	return fmt.Sprintf("no registration found for service: %s", e.Key)
}

// DuplicateRegistrationError reports a Register call for a key that is
// already registered. Use Replace to overwrite deliberately.
type DuplicateRegistrationError struct {
	Key string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("service already registered: %s", e.Key)
}

// CircularDependencyError reports a cycle in factory dependencies.
// Chain holds the resolution path, ending with the key that closed the cycle.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Chain, " -> "))
}

// NilFactoryError reports an attempt to register a nil factory.
type NilFactoryError struct {
	Key string
}

func (e *NilFactoryError) Error() string {
	return fmt.Sprintf("nil factory provided for service: %s", e.Key)
}

// InitializationError wraps a factory failure during resolution.
type InitializationError struct {
	Key string
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed for service %s: %v", e.Key, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// TypeMismatchError reports a registration whose instance does not match the
// type requested at resolution.
type TypeMismatchError struct {
	Key      string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for service %s: expected %s, got %s", e.Key, e.Expected, e.Got)
}

// InvalidLifetimeError reports an unknown lifetime, or a scoped service
// resolved outside a scope.
type InvalidLifetimeError struct {
	Key      string
	Lifetime Lifetime
}

func (e *InvalidLifetimeError) Error() string {
	if e.Lifetime == Scoped {
		return fmt.Sprintf("scoped service %s must be resolved through a scope", e.Key)
	}
	return fmt.Sprintf("invalid lifetime %q for service %s", e.Lifetime, e.Key)
}

// ScopeClosedError reports a resolution attempt on a closed scope.
type ScopeClosedError struct {
	ID string
}

func (e *ScopeClosedError) Error() string {
	return fmt.Sprintf("scope %s is closed", e.ID)
}

// ModuleApplicationError wraps an error raised while a module registered its
// services. Modules applied before the failing one remain applied.
type ModuleApplicationError struct {
	Module string
	Err    error
}

func (e *ModuleApplicationError) Error() string {
	return fmt.Sprintf("module %s failed to apply: %v", e.Module, e.Err)
}

func (e *ModuleApplicationError) Unwrap() error {
	return e.Err
}

// ShutdownError wraps a service shutdown failure.
type ShutdownError struct {
	Key string
	Err error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("shutdown failed for service %s: %v", e.Key, e.Err)
}

func (e *ShutdownError) Unwrap() error {
	return e.Err
}
