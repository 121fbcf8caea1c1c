// Package link implements the "link" directive: declaratively provisioning
// symbolic links from a mapping of destination paths to source paths.
//
// # Input
//
// A directive is an ordered mapping. Each value is either a source path or
// a record carrying the path plus optional flags:
//
//	~/.vimrc: vimrc
//	~/.config/nvim:
//	  path: nvim
//	  create: true
//	  relink: true
//
// Flags left out of a record fall back to the Defaults in the Context.
// Sources are qualified against Context.BaseDirectory; destinations are
// not. Both may reference environment variables; unset ones are kept as
// written.
//
// # Reconciliation
//
// Each entry is processed once, in input order, through up to three stages:
//
//  1. CreateParent, when create is set: make the destination's directory.
//  2. Resolve, when force or relink is set: unlink a symlink that points
//     elsewhere and, only with force, remove a real file or directory.
//  3. Ensure, always: create the link if the slot is free and the source
//     exists, accept a correct existing link, refuse anything else.
//
// All stages run even if an earlier one failed; the entry fails if any
// stage did. Apply returns the logical AND over all entries. Filesystem
// errors are logged as warnings naming the destination and only downgrade
// the entry. Nothing is rolled back.
//
// # State
//
// Every check re-reads the filesystem through the Inspector. Exists follows
// symlinks while IsSymlink looks at the link itself, so a dangling symlink
// is both "not existing" and "a symlink". Ensure relies on that to report
// dangling links that point somewhere other than the requested source.
//
// Running the same directive twice against an unchanged filesystem takes
// the "link exists" path for every entry and mutates nothing.
package link
