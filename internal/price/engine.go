// Package price reconciles the several price signals a product page shows
// (offer price, struck-through list price, EMI and shipping figures picked up
// by text scans) into one trusted price plus a confidence label. A wrong
// price is worse than no price, so when no safe choice exists the result is
// simply absent.
package price

import "shopqa/internal/model"

// CandidateSource tags where a price signal was found on the page.
type CandidateSource int

const (
	// SourceStructured is a price from the page's own machine-readable
	// product metadata (schema.org offers block).
	SourceStructured CandidateSource = iota
	// SourceVisible is a price element rendered to the user.
	SourceVisible
	// SourceListPrice is a struck-through / "MRP" style pre-discount price.
	SourceListPrice
	// SourceTextScan is a currency-adjacent token found by scanning the
	// page text, the weakest signal.
	SourceTextScan
)

type Candidate struct {
	Source CandidateSource
	Raw    string
	// Currency carries the currency code when it arrives out of band
	// (schema.org priceCurrency); otherwise it is detected from Raw.
	Currency string
}

// Resolve applies the selection policy in order:
//
//  1. a parseable structured-metadata price wins with high confidence;
//  2. exactly one visible price wins with medium confidence;
//  3. among several visible prices the smallest non-struck value wins with
//     medium confidence (pages show the discounted price next to the old
//     one, and the discounted price is the lower);
//  4. a text-scan token is accepted with low confidence;
//  5. otherwise there is no price and confidence is unknown.
//
// Resolve never fails; currencies of competing candidates are not converted
// or reconciled, the winner keeps its own.
func Resolve(candidates []Candidate) (*model.Price, model.PriceConfidence) {
	for _, c := range candidates {
		if c.Source != SourceStructured {
			continue
		}
		if amount, cur, ok := parseCandidate(c.Raw, c.Currency); ok {
			return &model.Price{Amount: amount, Currency: cur}, model.ConfidenceHigh
		}
	}

	var visible []model.Price
	for _, c := range candidates {
		if c.Source != SourceVisible {
			continue
		}
		if amount, cur, ok := parseCandidate(c.Raw, c.Currency); ok {
			visible = append(visible, model.Price{Amount: amount, Currency: cur})
		}
	}
	if len(visible) > 0 {
		best := visible[0]
		for _, p := range visible[1:] {
			if p.Amount < best.Amount {
				best = p
			}
		}
		return &best, model.ConfidenceMedium
	}

	for _, c := range candidates {
		if c.Source != SourceTextScan {
			continue
		}
		if amount, cur, ok := parseCandidate(c.Raw, c.Currency); ok {
			return &model.Price{Amount: amount, Currency: cur}, model.ConfidenceLow
		}
	}

	// List-price-only pages get no price: the struck-through number is not
	// what the buyer pays today.
	return nil, model.ConfidenceUnknown
}
