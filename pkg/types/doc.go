// Package types defines the interfaces shared across dotlink packages.
//
// FS is the single seam between the reconciliation logic and the
// filesystem. Production code uses filesystem.NewOS; tests wrap it with
// testutil.FS to inject failures and count mutations.
//
// DirectiveHandler is the contract the host tool dispatches to.
package types
