// Package paths resolves the path strings found in link directives.
//
// Three kinds of resolution happen before the filesystem is touched:
//
//   - Expand substitutes $VAR and ${VAR} references. Unset variables are
//     kept verbatim so a typo shows up in diagnostics instead of silently
//     collapsing to an empty path segment.
//   - ToAbsolute additionally expands a leading ~ and anchors the result
//     at the working directory. It is used at every call site that hands
//     a destination to the filesystem.
//   - Qualify anchors a source at the configuration's base directory.
//     Destinations are never qualified this way.
//
// ResolveLink is the counterpart used when reading links back: a relative
// link value is resolved against the directory holding the link.
package paths
