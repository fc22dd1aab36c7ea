// Package extractor turns raw product-page HTML into a normalized
// ProductRecord. Extraction runs an ordered chain of strategies (structured
// metadata, marketplace selector tables, generic heuristics); earlier
// strategies win per field and later ones only fill blanks.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"shopqa/internal/model"
	"shopqa/internal/price"
)

// ErrNoProduct marks a page with no product-like content at all: no title
// and no price signal. The candidate is dropped, the pipeline continues.
var ErrNoProduct = errors.New("no product content found")

const (
	maxReviews = 5
	maxImages  = 10

	// placeholderTitle is used when a page has a price signal but no
	// usable title; the record is still worth keeping.
	placeholderTitle = "Unknown product"
)

type partial struct {
	title           string
	description     string
	images          []string
	reviews         []model.Review
	priceCandidates []price.Candidate
}

func (p partial) empty() bool {
	return p.title == "" && p.description == "" &&
		len(p.images) == 0 && len(p.reviews) == 0 && len(p.priceCandidates) == 0
}

// Extract parses html fetched from sourceURL into a ProductRecord.
// Extraction is deterministic: the same bytes always produce the same record
// up to FetchedAt.
func Extract(html []byte, sourceURL string) (*model.ProductRecord, error) {
	if sourceURL == "" {
		return nil, fmt.Errorf("extract: empty source url")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: unparseable html: %v", ErrNoProduct, sourceURL, err)
	}

	host := ""
	if u, err := url.Parse(sourceURL); err == nil {
		host = u.Host
	}

	merged := merge(
		structuredData(doc),
		siteSpecific(doc, host),
		heuristic(doc),
	)

	selected, confidence := price.Resolve(merged.priceCandidates)

	title := merged.title
	if title == "" {
		if len(merged.priceCandidates) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoProduct, sourceURL)
		}
		title = placeholderTitle
	}

	rec := &model.ProductRecord{
		SourceURL:       sourceURL,
		Title:           title,
		Price:           selected,
		PriceConfidence: confidence,
		Images:          normalizeImages(merged.images),
		Description:     merged.description,
		Reviews:         merged.reviews,
		FetchedAt:       time.Now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return rec, nil
}

// merge folds the strategy outputs in precedence order: the first strategy
// to produce a field keeps it. Price candidates are concatenated because the
// price engine needs every signal, tagged by source, to arbitrate.
func merge(parts ...partial) partial {
	var out partial
	for _, p := range parts {
		if out.title == "" {
			out.title = p.title
		}
		if out.description == "" {
			out.description = p.description
		}
		if len(out.reviews) == 0 {
			out.reviews = p.reviews
		}
		out.images = append(out.images, p.images...)
		out.priceCandidates = append(out.priceCandidates, p.priceCandidates...)
	}
	return out
}

// normalizeImages drops syntactically invalid URLs and collapses duplicates
// by normalized URL, preserving first-seen order.
func normalizeImages(raw []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, img := range raw {
		img = strings.TrimSpace(img)
		u, err := url.Parse(img)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		u.Fragment = ""
		key := u.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
		if len(out) >= maxImages {
			break
		}
	}
	return out
}
