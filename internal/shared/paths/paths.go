package paths

import (
	"path"
	"strings"
)

// Root is the navigation root
const Root = "/"

// Normalize strips query and fragment, cleans dot segments and trailing
// slashes, and guarantees a leading slash
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return Root
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// HasPrefix reports whether p starts with prefix. Plain string prefix,
// case-sensitive, no segment boundary: "/sub-app" matches "/sub-appx".
func HasPrefix(p, prefix string) bool {
	return prefix != "" && strings.HasPrefix(p, prefix)
}

// HasAnyPrefix reports whether p starts with any of prefixes
func HasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Join resolves child against parent. Absolute children are kept as-is.
func Join(parent, child string) string {
	if child == "" {
		return Normalize(parent)
	}
	if strings.HasPrefix(child, "/") {
		return Normalize(child)
	}
	return Normalize(parent + "/" + child)
}

// Segments splits a normalized path into its segments; the root has none
func Segments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
