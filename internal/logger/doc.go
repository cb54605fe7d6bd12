// Package logger builds the zerolog loggers used for diagnostics. Logs go to
// stderr as coloured console lines or JSON; every subsystem logs through a
// child logger tagged with its component name.
package logger
