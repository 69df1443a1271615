package document

import "strings"

// Slugify converts a document name into a URL-safe slug: runs of whitespace
// become single dashes and any rune outside [A-Za-z0-9._~-] is dropped.
// Letter case is preserved, so "My Report" maps to "My-Report". Slugify is a
// pure function of the name and never mutates document identity.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingDash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			pendingDash = true
		case slugSafe(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

func slugSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_' || r == '.' || r == '~':
		return true
	}
	return false
}
