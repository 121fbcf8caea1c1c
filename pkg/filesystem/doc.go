// Package filesystem provides filesystem implementations for dotlink.
//
// This package contains the OS-backed implementation of the types.FS
// interface.
package filesystem
