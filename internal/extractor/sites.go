package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shopqa/internal/model"
	"shopqa/internal/price"
)

// siteProfile is a per-marketplace selector table. These are best-effort
// selectors that improve accuracy on the sites the search is restricted to;
// the generic heuristics still run behind them to fill the gaps.
type siteProfile struct {
	domains     []string
	titleSel    []string
	descSel     []string
	priceSel    []string
	listSel     []string
	imageSel    []string
	reviewSel   []string
}

var siteProfiles = []siteProfile{
	{
		domains:  []string{"amazon."},
		titleSel: []string{"#productTitle", "h1"},
		descSel:  []string{"#productDescription", "#feature-bullets"},
		priceSel: []string{
			"#priceblock_ourprice",
			"#priceblock_dealprice",
			".a-price .a-offscreen",
			".a-price-whole",
		},
		listSel: []string{
			".a-price.a-text-price .a-offscreen",
			".priceBlockStrikePriceString",
		},
		imageSel: []string{
			"img#landingImage",
			"img[data-old-hires]",
			"img.a-dynamic-image",
			"#altImages img",
		},
		reviewSel: []string{
			`span[data-hook="review-body"]`,
			"div[data-hook='review'] .review-text-content",
			".review-text",
		},
	},
	{
		domains:  []string{"flipkart."},
		titleSel: []string{"span.B_NuCI", ".yhB1nd", "h1"},
		descSel:  []string{"div._1mXcCf", "div.product-description"},
		priceSel: []string{"div._30jeq3._16Jk6d", "div.Nx9bqj", "div._1vC4OE"},
		listSel:  []string{"div._3I9_wc", "div.yRaY8j"},
		imageSel: []string{"img._2r_T1I", "img._396cs4", "img[data-src]"},
		reviewSel: []string{
			"div.t-ZTKy",
			"div._2-N8zT",
			"div._16PBlm",
		},
	},
	{
		domains:  []string{"nykaa."},
		titleSel: []string{"h1", ".css-1x7n0ad"},
		descSel:  []string{`[data-testid="productDescription"]`, ".product-description"},
		priceSel: []string{
			`span[data-testid="priceTagAmount"]`,
			`span[data-testid="productPrice"]`,
			".price-tag",
		},
		listSel:  []string{".strike-price", "span.css-u05rr"},
		imageSel: []string{`img[src*="images.nykaa"]`, ".slick-active img"},
		reviewSel: []string{
			`p[data-testid="reviewText"]`,
			".review",
		},
	},
}

func profileFor(host string) *siteProfile {
	host = strings.ToLower(host)
	for i := range siteProfiles {
		for _, d := range siteProfiles[i].domains {
			if strings.Contains(host, d) {
				return &siteProfiles[i]
			}
		}
	}
	return nil
}

// siteSpecific runs the selector table for the page's marketplace, if we
// have one. Unknown domains return an empty partial.
func siteSpecific(doc *goquery.Document, host string) partial {
	prof := profileFor(host)
	if prof == nil {
		return partial{}
	}

	var p partial
	p.title = firstText(doc, prof.titleSel)
	p.description = firstText(doc, prof.descSel)

	for _, sel := range prof.priceSel {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			txt := strings.TrimSpace(s.Text())
			if txt == "" || isStruck(s) {
				return
			}
			p.priceCandidates = append(p.priceCandidates, price.Candidate{
				Source: price.SourceVisible,
				Raw:    txt,
			})
		})
	}
	for _, sel := range prof.listSel {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if txt := strings.TrimSpace(s.Text()); txt != "" {
				p.priceCandidates = append(p.priceCandidates, price.Candidate{
					Source: price.SourceListPrice,
					Raw:    txt,
				})
			}
		})
	}

	for _, sel := range prof.imageSel {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			src := imgSrc(s)
			if strings.HasPrefix(src, "http") {
				p.images = append(p.images, src)
			}
		})
	}

	seen := make(map[string]bool)
	for _, sel := range prof.reviewSel {
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

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if txt := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " "); txt != "" {
			return txt
		}
	}
	return ""
}

func imgSrc(s *goquery.Selection) string {
	for _, attr := range []string{"src", "data-old-hires", "data-src", "data-lazy-src"} {
		if v, ok := s.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}

// isStruck reports whether a node (or any ancestor) is rendered as a
// struck-through list price.
func isStruck(s *goquery.Selection) bool {
	for sel := s; sel.Length() > 0; sel = sel.Parent() {
		if goquery.NodeName(sel) == "del" || goquery.NodeName(sel) == "s" || goquery.NodeName(sel) == "strike" {
			return true
		}
		if class, ok := sel.Attr("class"); ok {
			lc := strings.ToLower(class)
			if strings.Contains(lc, "strike") || strings.Contains(lc, "text-price") || strings.Contains(lc, "mrp") {
				return true
			}
		}
		if goquery.NodeName(sel) == "html" {
			break
		}
	}
	return false
}
