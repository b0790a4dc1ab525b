package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const fallbackOrgBaseName = "account"

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// OrganizationBaseName picks the seed for a bootstrap organization name:
// the username, else the local part of the email, else "account".
func OrganizationBaseName(username, email string) string {
	if name := strings.TrimSpace(username); name != "" {
		return name
	}

	if local, _, _ := strings.Cut(strings.TrimSpace(email), "@"); strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}

	return fallbackOrgBaseName
}

// OrganizationDisplayName returns "<base>'s Org", or "<base>' Org" when the base
// already ends in s.
func OrganizationDisplayName(base string) string {
	if strings.HasSuffix(base, "s") || strings.HasSuffix(base, "S") {
		return base + "' Org"
	}

	return base + "'s Org"
}

func Slugify(raw string) string {
	slug := strings.ToLower(raw)
	slug = strings.ReplaceAll(slug, "'s", "")
	slug = strings.ReplaceAll(slug, "&", "and")
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "org"
	}

	return slug
}

// SlugAttempt returns the slug for the given 1-based attempt: the base slug
// first, then base-2, base-3, ...
func SlugAttempt(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}

	return fmt.Sprintf("%s-%d", base, attempt)
}

// IsSlugCollision reports whether an organization create failure is the kind
// that a different slug can fix.
func IsSlugCollision(err error) bool {
	if err == nil {
		return false
	}

	message := strings.ToLower(err.Error())
	for _, marker := range []string{"slug", "unique", "duplicate"} {
		if strings.Contains(message, marker) {
			return true
		}
	}

	return false
}
