package guard

import (
	"net/url"
	"strings"
)

// Navigation is the read-only navigation context a boot runs against,
// typically derived from the current request URL. The zero value carries no
// slug.
type Navigation struct {
	query url.Values
}

// ParseNavigation derives a Navigation from a raw URL. Unparseable input
// yields an empty context rather than an error.
func ParseNavigation(rawURL string) Navigation {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Navigation{}
	}
	return Navigation{query: u.Query()}
}

// NavigationFromQuery derives a Navigation from already-parsed query values.
func NavigationFromQuery(query url.Values) Navigation {
	return Navigation{query: query}
}

// QuerySlug returns the raw slug query parameter, trimmed but not yet
// canonicalized.
func (n Navigation) QuerySlug() string {
	if n.query == nil {
		return ""
	}
	return strings.TrimSpace(n.query.Get(SlugParam))
}

// attachSlug appends slug as a query parameter. Existing parameters keep
// their order and encoding: a present slug pair is replaced in place, an
// absent one is appended at the end. Unparseable URLs fall back to naive
// concatenation.
func attachSlug(rawURL, slug string) string {
	if slug == "" {
		return rawURL
	}

	pair := SlugParam + "=" + url.QueryEscape(slug)

	u, err := url.Parse(rawURL)
	if err != nil {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		return rawURL + sep + pair
	}

	if u.RawQuery == "" {
		u.RawQuery = pair
		return u.String()
	}

	parts := strings.Split(u.RawQuery, "&")
	kept := parts[:0]
	replaced := false
	for _, part := range parts {
		key, _, _ := strings.Cut(part, "=")
		if key == SlugParam {
			if !replaced {
				kept = append(kept, pair)
				replaced = true
			}
			continue
		}
		kept = append(kept, part)
	}
	if !replaced {
		kept = append(kept, pair)
	}

	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}
