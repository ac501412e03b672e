package storage

import "strings"

// Match reports whether name matches pattern, where '*' matches any run of
// characters (including none) and every other character matches itself.
// The match is anchored at both ends
func Match(pattern, name string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == name
	}

	first, last := parts[0], parts[len(parts)-1]
	if len(name) < len(first)+len(last) {
		return false
	}
	if !strings.HasPrefix(name, first) || !strings.HasSuffix(name, last) {
		return false
	}

	// leftmost placement of every middle segment leaves the most room for the rest
	rest := name[len(first) : len(name)-len(last)]
	for _, p := range parts[1 : len(parts)-1] {
		i := strings.Index(rest, p)
		if i < 0 {
			return false
		}
		rest = rest[i+len(p):]
	}

	return true
}
