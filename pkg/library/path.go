package library

import "strings"

// urlSafePath rewrites a relative path so it can appear in a URL without
// escaping: spaces become underscores and characters outside a conservative
// allowlist are dropped.
func urlSafePath(p string) string {
	var b strings.Builder
	for _, r := range p {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '/' || r == '.' || r == '-' || r == '_' || r == '@':
			b.WriteRune(r)
		}
	}
	return b.String()
}
