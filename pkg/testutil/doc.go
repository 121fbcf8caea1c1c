// Package testutil provides utilities for testing dotlink components.
//
// Key components:
//   - FS: a types.FS wrapper that injects errors per operation and path
//     and counts mutating calls
//   - Env: an isolated HOME plus base directory in a temp dir, with a
//     buffer-backed zerolog logger whose output can be inspected
//
// Tests run against the real filesystem under t.TempDir because symlink
// semantics (dangling links, relative values) are the thing under test.
// Failures that would need chmod or a second process are simulated with
// FS.WithError instead, which also works when tests run as root.
package testutil
