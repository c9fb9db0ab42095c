package weld

import "github.com/rs/zerolog"

// Option configures a Container at construction time.
type Option func(*Container)

// WithLogger attaches a zerolog logger for container diagnostics:
// registrations, module application, scope lifecycle, resolution misses.
// The default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Container) {
		c.log = log.With().Str("component", "weld").Logger()
	}
}

// WithName sets the container name used in logs and in the dependency tree
// header. The default is "container".
func WithName(name string) Option {
	return func(c *Container) {
		c.name = name
	}
}
