// Package testutil provides fixtures for testing gantry components.
//
// Key components:
//   - CreateFile / CreateFiles / ListFiles: project trees on disk
//   - Isolate: points the config and state directories at temp dirs
//   - RecordingRunner: an executor.Runner that records command lines
//     instead of spawning processes
//
// Tests build their fixtures inline; nothing is read from testdata.
package testutil
