/*
Package log provides structured logging for Sherpa using zerolog.

The log package wraps the zerolog library to provide JSON-structured
logging with component-specific child loggers, configurable log levels,
and helper functions for common logging patterns. Console output with
RFC3339 timestamps is used for interactive runs; JSON output is intended
for production deployments.

# Usage

Initialize once at startup:

	log.Init(log.Config{
	    Level:      log.InfoLevel,
	    JSONOutput: false,
	})

Create child loggers with contextual fields:

	logger := log.WithComponent("planner")
	logger.Warn().
	    Str("service", service).
	    Str("component", component).
	    Msg("skipping component: hosts could not be resolved")

Component skips during planning are logged at warn level so operators can
see why a component is absent from a produced plan; they are never errors.
*/
package log
