// Package logging constructs the application slog logger and provides
// attribute helpers shared by every component. Two output formats are
// supported: a compact console format for interactive use and JSON for
// machine consumption.
package logging
