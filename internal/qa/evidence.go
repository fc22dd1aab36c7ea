package qa

import (
	"fmt"
	"strings"

	"shopqa/internal/repository"
)

const maxSnippetLen = 800

// EvidenceBlock renders retrieved products into the numbered evidence bundle
// the model is allowed to cite. A missing price is stated outright so the
// model reports it instead of filling the gap.
func EvidenceBlock(items []repository.VectorResult) string {
	blocks := make([]string, 0, len(items))
	for i, it := range items {
		var sb strings.Builder
		fmt.Fprintf(&sb, "PRODUCT %d:\n", i+1)
		fmt.Fprintf(&sb, "TITLE: %s\n", it.Title)
		if it.Price != nil {
			fmt.Fprintf(&sb, "PRICE: %.2f %s (confidence: %s)\n", *it.Price, it.Currency, it.PriceConfidence)
		} else {
			sb.WriteString("PRICE: unavailable\n")
		}
		sb.WriteString(shorten(it.Content, maxSnippetLen) + "\n")
		fmt.Fprintf(&sb, "URL: %s\n", it.SourceURL)
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n---\n")
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + " ..."
}
