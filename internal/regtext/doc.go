// Package regtext reads and writes namespace snapshots in the regedit .reg
// text format ("Windows Registry Editor Version 5.00").
//
// Section paths are written under HKEY_CURRENT_USER and read back relative
// to it, matching the Store path convention. Output is UTF-16LE with a byte
// order mark unless UTF-8 is requested; input encoding is detected from its
// byte order mark.
//
// Deletion syntax ([-key] and "name"=-) is rejected: a .reg file here is a
// snapshot, not a patch.
package regtext
