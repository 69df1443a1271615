package document

import (
	"fmt"
	"strings"
)

// reservedNames are document names that collide with reserved route slugs
// and are rejected regardless of uniqueness.
var reservedNames = map[string]struct{}{
	"new":      {},
	"settings": {},
	"upload":   {},
	"export":   {},
}

// NameReserved reports whether name is on the reserved-name blacklist.
// Comparison is case-insensitive so "New" cannot shadow the "/new" route.
func NameReserved(name string) bool {
	_, ok := reservedNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// NameUnique reports whether no document in docs already carries name.
func NameUnique(name string, docs []Document) bool {
	for _, doc := range docs {
		if doc.Name == name {
			return false
		}
	}
	return true
}

// UniqueName derives a name from base that does not collide with any
// document in docs: the base itself if free, otherwise "base 2", "base 3",
// and so on.
func UniqueName(base string, docs []Document) string {
	if NameUnique(base, docs) && !NameReserved(base) {
		return base
	}
	for suffix := 2; ; suffix++ {
		candidate := fmt.Sprintf("%s %d", base, suffix)
		if NameUnique(candidate, docs) && !NameReserved(candidate) {
			return candidate
		}
	}
}
