package weld

import (
	"fmt"
	"io"
	"sort"
)

// RegistrationInfo describes one registration for introspection.
// Resolved reports whether a singleton instance is cached in the container;
// it is always false for transient and scoped registrations, whose instances
// are never cached container-wide.
type RegistrationInfo struct {
	Key      string
	Lifetime Lifetime
	Resolved bool
}

// Registrations returns a snapshot of all registrations, sorted by key.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	infos := make([]RegistrationInfo, 0, len(c.registrations))
	for _, reg := range c.registrations {
		reg.mu.RLock()
		resolved := reg.resolved
		reg.mu.RUnlock()
		infos = append(infos, RegistrationInfo{
			Key:      reg.key,
			Lifetime: reg.lifetime,
			Resolved: resolved,
		})
	}
	c.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

// WriteDependencyTree writes a human-readable listing of every registration
// with its lifetime and cache state. Useful in tests asserting that a
// service was, or was not, lazily constructed.
func (c *Container) WriteDependencyTree(w io.Writer) error {
	infos := c.Registrations()
	if _, err := fmt.Fprintf(w, "%s (%d services)\n", c.name, len(infos)); err != nil {
		return err
	}
	for i, info := range infos {
		branch := "├──"
		if i == len(infos)-1 {
			branch = "└──"
		}
		state := "pending"
		if info.Resolved {
			state = "resolved"
		}
		if _, err := fmt.Fprintf(w, "%s %s [%s] %s\n", branch, info.Key, info.Lifetime, state); err != nil {
			return err
		}
	}
	return nil
}
