package types

import "strings"

// PathSeparator separates namespace path segments.
const PathSeparator = `\`

// SplitPath splits a namespace path into its non-empty segments. Forward
// slashes are accepted as separators.
func SplitPath(path string) []string {
	path = strings.ReplaceAll(path, "/", PathSeparator)
	raw := strings.Split(path, PathSeparator)
	parts := raw[:0]
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// JoinPath joins segments with PathSeparator, normalizing each piece.
func JoinPath(elems ...string) string {
	var parts []string
	for _, e := range elems {
		parts = append(parts, SplitPath(e)...)
	}
	return strings.Join(parts, PathSeparator)
}

// CleanPath normalizes separators and drops empty segments.
func CleanPath(path string) string { return JoinPath(path) }

// FoldPath returns the case-folded form of path used for comparisons.
func FoldPath(path string) string { return strings.ToLower(CleanPath(path)) }

// IsWithin reports whether path equals root or lies beneath it.
func IsWithin(path, root string) bool {
	p, r := FoldPath(path), FoldPath(root)
	if r == "" {
		return true
	}
	return p == r || strings.HasPrefix(p, r+PathSeparator)
}
