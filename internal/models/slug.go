package models

import (
	"strings"
)

// Slugify derives a URL slug from a title: lowercase, runs of
// non-alphanumeric characters collapse to a single '-', leading and trailing
// '-' trimmed. The transform is lossy and deterministic; callers must treat
// slug collisions as errors rather than disambiguating.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastDash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
