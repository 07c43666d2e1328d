// internal/utils/slug.go
package utils

import "strings"

// Slugify derives a URL-safe, lowercase, hyphenated key from a name.
// The derivation is deterministic: the same name always yields the same
// slug, which is what makes tag creation by name idempotent.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // trims leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
