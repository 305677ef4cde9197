// Package types defines the vocabulary shared by every shellns package:
// typed errors, registry value types, the Value sum type, and the Store
// capability that backends implement.
//
// Design goals:
//   - One value representation for every backend, so a value read from the
//     Windows registry, a .reg file, or SQLite compares equal after a round trip.
//   - Typed errors with stable categories (not-found/access-denied/...), matched
//     with errors.Is regardless of the detail a backend attaches.
//   - A Store contract small enough to fake in memory.
//
// This package has no dependencies beyond the standard library.
package types
