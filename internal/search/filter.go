package search

import (
	"net/url"
	"regexp"
	"strings"
)

// Listing, category and search pages that a web search loves to return but
// that describe many products at once. They are useless as evidence.
var excludePatterns = []string{
	"/s?k=",
	"/s/",
	"/search",
	"/browse",
	"/category",
	"/categories",
	"/collections",
	"/shop",
	"?s=",
	"search?",
	"results",
	"/filter",
	"/sort",
	"bestsellers",
	"new-arrivals",
	"/all-products",
	"/specials",
	"/b/",
	"/gp/bestsellers",
	"/deals",
	"?node=",
	"&node=",
	"/page",
}

var includePatterns = []string{
	"/dp/",
	"/product/",
	"/p/",
	"/item/",
	"/products/",
}

var amazonASINRe = regexp.MustCompile(`/[Bb]0[a-z0-9]{7,}`)

// IsProductPage reports whether a URL clearly points at a single product
// page. Anything ambiguous is rejected: a false negative costs one
// candidate, a false positive poisons the index with a listing page.
func IsProductPage(rawURL string) bool {
	lower := strings.ToLower(rawURL)

	for _, p := range excludePatterns {
		if strings.Contains(lower, p) {
			return false
		}
	}
	for _, p := range includePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	// Amazon product URLs carry an ASIN even without /dp/.
	if strings.Contains(lower, "amazon.") {
		return amazonASINRe.MatchString(lower)
	}
	return false
}

// hostAllowed checks the URL host against the trusted domain allowlist,
// accepting subdomains (www.amazon.in matches amazon.in).
func hostAllowed(rawURL string, domains []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, d := range domains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// normalizeURL strips fragments and tracking query params so duplicates of
// the same product page collapse to one candidate.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	q := u.Query()
	for key := range q {
		if strings.HasPrefix(key, "utm_") || key == "ref" || key == "tag" || key == "qid" || key == "dib" || key == "dib_tag" {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	u.Host = strings.ToLower(u.Host)
	return strings.TrimSuffix(u.String(), "/")
}
