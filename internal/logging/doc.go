// Package logging assembles the structured slog loggers used across the
// mixdown pipeline. It provides a no-op logger for library defaults, a
// component-tagging constructor so every stage logs with the same shape,
// and small attr helpers.
package logging
