package qa

import (
	"strings"
	"testing"

	"shopqa/internal/repository"
)

func TestEvidenceBlock(t *testing.T) {
	amount := 1999.0
	items := []repository.VectorResult{
		{
			SourceURL:       "https://www.amazon.in/dp/B0AAA",
			Title:           "Wireless Earbuds",
			Price:           &amount,
			Currency:        "INR",
			PriceConfidence: "high",
			Content:         "TITLE: Wireless Earbuds\n\nDESCRIPTION: Bluetooth 5.3",
		},
		{
			SourceURL: "https://www.flipkart.com/kb/p/itmB",
			Title:     "Mechanical Keyboard",
			Content:   "TITLE: Mechanical Keyboard",
		},
	}

	got := EvidenceBlock(items)

	if !strings.Contains(got, "PRODUCT 1:") || !strings.Contains(got, "PRODUCT 2:") {
		t.Errorf("missing numbered blocks:\n%s", got)
	}
	if !strings.Contains(got, "PRICE: 1999.00 INR (confidence: high)") {
		t.Errorf("priced product not rendered with currency and confidence:\n%s", got)
	}
	if !strings.Contains(got, "PRICE: unavailable") {
		t.Errorf("missing explicit price-unavailable marker:\n%s", got)
	}
	if !strings.Contains(got, "URL: https://www.amazon.in/dp/B0AAA") {
		t.Errorf("missing source url:\n%s", got)
	}
}

func TestShorten(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		if got := shorten("hello world", 100); got != "hello world" {
			t.Errorf("shorten = %q", got)
		}
	})
	t.Run("long text cut at a word boundary", func(t *testing.T) {
		got := shorten(strings.Repeat("word ", 300), 50)
		if len(got) > 60 {
			t.Errorf("len = %d, want roughly 50", len(got))
		}
		if !strings.HasSuffix(got, " ...") {
			t.Errorf("shorten = %q, want ellipsis suffix", got)
		}
	})
}
