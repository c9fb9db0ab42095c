package weld

// Module is a named group of registrations applied together at startup.
// Registrations are pure data with lazy factories, so module order only
// matters for registrations that resolve eagerly inside Register itself.
type Module struct {
	Name     string
	Register func(c *Container) error
}

// NewModule builds a module from a name and a registration procedure.
func NewModule(name string, register func(c *Container) error) Module {
	return Module{Name: name, Register: register}
}

// Apply runs each module's registration procedure against the container in
// the order given. Application is fail-fast, not transactional: the first
// failing module aborts the rest, wrapped in ModuleApplicationError, and
// modules applied before it remain applied.
func (c *Container) Apply(modules ...Module) error {
	for _, m := range modules {
		if m.Register == nil {
			continue
		}
		if err := m.Register(c); err != nil {
			c.log.Error().Str("module", m.Name).Err(err).Msg("module application failed")
			return &ModuleApplicationError{Module: m.Name, Err: err}
		}
		c.log.Debug().Str("module", m.Name).Msg("module applied")
	}
	return nil
}
