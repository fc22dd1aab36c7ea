package model

import (
	"fmt"
	"net/url"
	"time"
)

// PriceConfidence tells how trustworthy the selected price is, based on
// which extraction source produced it.
type PriceConfidence string

const (
	ConfidenceUnknown PriceConfidence = "unknown"
	ConfidenceLow     PriceConfidence = "low"
	ConfidenceMedium  PriceConfidence = "medium"
	ConfidenceHigh    PriceConfidence = "high"
)

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (p Price) String() string {
	return fmt.Sprintf("%.2f %s", p.Amount, p.Currency)
}

type Review struct {
	Text   string   `json:"text"`
	Rating *float64 `json:"rating,omitempty"`
	Author string   `json:"author,omitempty"`
}

// ProductRecord is the canonical normalized form of one scraped product page.
// Records are immutable once built; re-extraction produces a new record that
// replaces the old one wholesale in the store.
type ProductRecord struct {
	SourceURL       string          `json:"source_url"`
	Title           string          `json:"title"`
	Price           *Price          `json:"price,omitempty"`
	PriceConfidence PriceConfidence `json:"price_confidence"`
	Images          []string        `json:"images,omitempty"`
	Description     string          `json:"description,omitempty"`
	Reviews         []Review        `json:"reviews,omitempty"`
	RawRef          string          `json:"raw_ref,omitempty"`
	FetchedAt       time.Time       `json:"fetched_at"`
}

// Validate checks the structural invariants every stored record must hold.
func (r *ProductRecord) Validate() error {
	if r.SourceURL == "" {
		return fmt.Errorf("record has empty source_url")
	}
	if r.Title == "" {
		return fmt.Errorf("record %s has empty title", r.SourceURL)
	}
	if (r.Price == nil) != (r.PriceConfidence == ConfidenceUnknown) {
		return fmt.Errorf("record %s: price/confidence mismatch (price=%v confidence=%s)",
			r.SourceURL, r.Price, r.PriceConfidence)
	}
	for _, img := range r.Images {
		u, err := url.Parse(img)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("record %s has invalid image url %q", r.SourceURL, img)
		}
	}
	return nil
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
