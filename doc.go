// Package weld is a lifecycle-aware service container: a registry of
// factories keyed by service type, a resolver that honors singleton,
// transient, and scoped lifetimes, and a module loader that groups related
// registrations into named units applied in a fixed order.
//
// Containers are explicit values. Create one with New, populate it with
// typed Register calls or modules, and pass it (or a Scope opened from it)
// to whatever needs to resolve services:
//
//	c := weld.New()
//	err := weld.Register[Clock](c, weld.Singleton, func(r weld.Resolver) (Clock, error) {
//		return systemClock{}, nil
//	})
//	err = weld.Register[Journal](c, weld.Singleton, func(r weld.Resolver) (Journal, error) {
//		clock, err := weld.Resolve[Clock](r)
//		if err != nil {
//			return nil, err
//		}
//		return NewJournal(clock), nil
//	})
//	journal, err := weld.Resolve[Journal](c)
//
// Singletons are constructed at most once, even under concurrent first
// resolution; transient services are constructed on every resolution; scoped
// services are constructed once per Scope and released when the scope
// closes. Missing registrations, duplicate registrations, factory failures,
// and circular factory dependencies all surface as typed, catchable errors.
package weld
