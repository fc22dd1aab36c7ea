package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shopqa/internal/model"
	"shopqa/internal/price"
)

// structuredData walks every JSON-LD block on the page looking for a
// schema.org Product, then falls back to microdata (itemscope/itemprop).
// This is the primary extraction strategy: when a page describes itself we
// trust that over anything scraped from the layout.
func structuredData(doc *goquery.Document) partial {
	var p partial

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true // malformed block, keep looking
		}
		if prod, ok := findProduct(raw); ok {
			p = productFromJSONLD(prod)
			return false
		}
		return true
	})

	if p.empty() {
		p = productFromMicrodata(doc)
	}
	return p
}

// findProduct digs through the usual JSON-LD nesting (arrays, @graph,
// mainEntity) for an object typed Product.
func findProduct(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if prod, ok := findProduct(item); ok {
				return prod, true
			}
		}
	case map[string]any:
		if hasType(t, "Product") {
			return t, true
		}
		if main, ok := t["mainEntity"]; ok {
			if prod, ok := findProduct(main); ok {
				return prod, true
			}
		}
		if graph, ok := t["@graph"]; ok {
			if prod, ok := findProduct(graph); ok {
				return prod, true
			}
		}
	}
	return nil, false
}

func hasType(m map[string]any, want string) bool {
	switch t := m["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func productFromJSONLD(prod map[string]any) partial {
	var p partial
	p.title = asString(prod["name"])
	p.description = asString(prod["description"])
	p.images = imageList(prod["image"])

	for _, offer := range offerList(prod["offers"]) {
		rawPrice := asString(offer["price"])
		if rawPrice == "" {
			rawPrice = asString(offer["lowPrice"])
		}
		if rawPrice == "" {
			continue
		}
		p.priceCandidates = append(p.priceCandidates, price.Candidate{
			Source:   price.SourceStructured,
			Raw:      rawPrice,
			Currency: asString(offer["priceCurrency"]),
		})
	}

	for _, rv := range reviewList(prod["review"]) {
		text := asString(rv["reviewBody"])
		if text == "" {
			text = asString(rv["description"])
		}
		if text == "" {
			continue
		}
		review := model.Review{Text: text}
		if author, ok := rv["author"].(map[string]any); ok {
			review.Author = asString(author["name"])
		}
		if rating, ok := rv["reviewRating"].(map[string]any); ok {
			if v, ok := asFloat(rating["ratingValue"]); ok {
				review.Rating = &v
			}
		}
		p.reviews = append(p.reviews, review)
		if len(p.reviews) >= maxReviews {
			break
		}
	}
	return p
}

// productFromMicrodata covers pages that annotate markup with
// itemtype/itemprop instead of emitting JSON-LD.
func productFromMicrodata(doc *goquery.Document) partial {
	var p partial
	scope := doc.Find(`[itemtype*="schema.org/Product"]`).First()
	if scope.Length() == 0 {
		return p
	}

	p.title = strings.TrimSpace(scope.Find(`[itemprop="name"]`).First().Text())
	p.description = strings.TrimSpace(scope.Find(`[itemprop="description"]`).First().Text())

	scope.Find(`[itemprop="image"]`).Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			p.images = append(p.images, src)
		} else if content, ok := s.Attr("content"); ok {
			p.images = append(p.images, content)
		}
	})

	priceNode := scope.Find(`[itemprop="price"]`).First()
	if priceNode.Length() > 0 {
		raw, ok := priceNode.Attr("content")
		if !ok {
			raw = strings.TrimSpace(priceNode.Text())
		}
		currency, _ := scope.Find(`[itemprop="priceCurrency"]`).First().Attr("content")
		if raw != "" {
			p.priceCandidates = append(p.priceCandidates, price.Candidate{
				Source:   price.SourceStructured,
				Raw:      raw,
				Currency: currency,
			})
		}
	}
	return p
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func imageList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, imageList(item)...)
		}
		return out
	case map[string]any:
		if u := asString(t["url"]); u != "" {
			return []string{u}
		}
	}
	return nil
}

func offerList(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		var out []map[string]any
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func reviewList(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		var out []map[string]any
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
