package slugify

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// fallbackBase is used when a title normalizes to nothing
// (empty or all-symbol titles).
const fallbackBase = "post"

// Base normalizes a post title into a slug base: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func Base(title string) string {
	base := slug.Make(strings.TrimSpace(title))
	if base == "" {
		return fallbackBase
	}
	return base
}

// Unique picks a slug for base given the slugs already issued for that
// base. With no prior variants it returns base unchanged; with N prior
// variants it returns "base-N", so repeated titles yield base, base-1,
// base-2, and so on.
//
// Only exact matches and numeric "-N" suffixes count as variants: a base
// of "go" must not be bumped by an existing "go-tutorial".
func Unique(base string, existing []string) string {
	count := 0
	for _, s := range existing {
		if isVariant(base, s) {
			count++
		}
	}
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, count)
}

func isVariant(base, s string) bool {
	if s == base {
		return true
	}
	suffix, ok := strings.CutPrefix(s, base+"-")
	if !ok || suffix == "" {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
