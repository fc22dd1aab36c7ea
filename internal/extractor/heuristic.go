package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shopqa/internal/model"
	"shopqa/internal/price"
)

var textScanRe = regexp.MustCompile(`(₹|Rs\.?|INR)\s*[\d,]+(?:\.\d+)?`)

var genericPriceSelectors = []string{
	".selling-price",
	".pdp-price",
	".product-price",
	".offer-price",
	".final-price",
	".price",
}

var genericImageSelectors = []string{
	".product-image img",
	".main-image img",
	".product-photo img",
	".gallery img",
}

var genericReviewSelectors = []string{
	".review-text",
	".review-text-content",
	".review-body",
	".user-review",
}

// heuristic is the last extraction strategy: generic selectors plus a text
// scan for currency-adjacent tokens. Works on pages we have no profile for
// and fills fields the stronger strategies missed.
func heuristic(doc *goquery.Document) partial {
	var p partial

	p.title = pickTitle(titleCandidates(doc))

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		p.description = strings.TrimSpace(desc)
	}
	if p.description == "" {
		p.description = firstText(doc, []string{".product-desc", ".description", "#description"})
	}

	for _, sel := range genericPriceSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if isStruck(s) {
				if txt := strings.TrimSpace(s.Text()); txt != "" {
					p.priceCandidates = append(p.priceCandidates, price.Candidate{
						Source: price.SourceListPrice,
						Raw:    txt,
					})
				}
				return
			}
			// Struck-through descendants are list prices, not the offer;
			// the del scan below picks them up separately.
			txt := strings.TrimSpace(textWithoutStruck(s))
			if txt == "" {
				return
			}
			p.priceCandidates = append(p.priceCandidates, price.Candidate{
				Source: price.SourceVisible,
				Raw:    txt,
			})
		})
	}
	// Struck-through elements anywhere on the page are list prices even when
	// no price selector matched them.
	doc.Find("del, s, strike").Each(func(_ int, s *goquery.Selection) {
		txt := strings.TrimSpace(s.Text())
		if textScanRe.MatchString(txt) {
			p.priceCandidates = append(p.priceCandidates, price.Candidate{
				Source: price.SourceListPrice,
				Raw:    txt,
			})
		}
	})
	if m := textScanRe.FindString(doc.Text()); m != "" {
		p.priceCandidates = append(p.priceCandidates, price.Candidate{
			Source: price.SourceTextScan,
			Raw:    m,
		})
	}

	for _, sel := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			p.images = append(p.images, content)
		}
	}
	if href, ok := doc.Find(`link[rel="image_src"]`).First().Attr("href"); ok && href != "" {
		p.images = append(p.images, href)
	}
	for _, sel := range genericImageSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			src := imgSrc(s)
			if strings.HasPrefix(src, "http") && len(src) > 20 {
				p.images = append(p.images, src)
			}
		})
	}

	seen := make(map[string]bool)
	for _, sel := range genericReviewSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if len(p.reviews) >= maxReviews {
				return
			}
			txt := strings.Join(strings.Fields(s.Text()), " ")
			if txt == "" || seen[txt] {
				return
			}
			seen[txt] = true
			p.reviews = append(p.reviews, model.Review{Text: txt})
		})
	}
	return p
}

// textWithoutStruck collects the text of a node skipping del/s/strike
// subtrees, so a container holding both the offer price and the crossed-out
// list price yields only the offer.
func textWithoutStruck(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		if name == "#text" {
			sb.WriteString(c.Text())
			return
		}
		if name == "del" || name == "s" || name == "strike" {
			return
		}
		if class, ok := c.Attr("class"); ok {
			lc := strings.ToLower(class)
			if strings.Contains(lc, "strike") || strings.Contains(lc, "mrp") {
				return
			}
		}
		sb.WriteString(textWithoutStruck(c))
	})
	return sb.String()
}

func titleCandidates(doc *goquery.Document) []string {
	var out []string
	add := func(s string) {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			out = append(out, s)
		}
	}
	doc.Find("h1").Each(func(_ int, s *goquery.Selection) { add(s.Text()) })
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		add(og)
	}
	add(doc.Find("title").First().Text())
	return out
}

// pickTitle prefers the most specific candidate: the longest one that does
// not look truncated. Pages often repeat the product name in several places
// with different amounts of detail.
func pickTitle(candidates []string) string {
	best := ""
	for _, c := range candidates {
		if strings.HasSuffix(c, "...") || strings.HasSuffix(c, "…") {
			continue
		}
		if len(c) > len(best) {
			best = c
		}
	}
	if best == "" && len(candidates) > 0 {
		best = candidates[0]
	}
	return best
}
