package opts

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/walteh/zipmerge/pkg/config"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Config is the loaded run configuration, before per-command overrides
	Config *config.Config
	// Console receives user-facing output
	Console io.Writer
	// Debug mirrors the --debug flag
	Debug bool
}

// Level returns the log level implied by the debug flag
func (o *RootOpts) Level() zerolog.Level {
	if o.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// TODO(dr.methodical): 🧪 Add tests for option validation
