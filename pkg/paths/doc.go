// Package paths provides centralized path handling for gantry.
// It locates the project root the tasks run in and the XDG directories
// gantry keeps its own files in (user configuration, log file).
package paths
