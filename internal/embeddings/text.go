package embeddings

import (
	"fmt"
	"strings"

	"shopqa/internal/model"
)

// RecordText builds the canonical text that gets embedded for a record. The
// same record always yields the same text, so reindexing is stable.
func RecordText(rec *model.ProductRecord) string {
	var sb strings.Builder

	sb.WriteString("TITLE: " + rec.Title + "\n\n")

	if rec.Description != "" {
		sb.WriteString("DESCRIPTION: " + rec.Description + "\n\n")
	}

	if rec.Price != nil {
		sb.WriteString(fmt.Sprintf("PRICE: %s (confidence: %s)\n\n", rec.Price, rec.PriceConfidence))
	} else {
		sb.WriteString("PRICE: unavailable\n\n")
	}

	if len(rec.Reviews) > 0 {
		sb.WriteString("REVIEWS:\n")
		for _, rv := range rec.Reviews {
			sb.WriteString("- " + rv.Text + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("URL: " + rec.SourceURL + "\n")

	return strings.TrimSpace(sb.String())
}
