package price

import (
	"testing"

	"shopqa/internal/model"
)

func TestResolveStructuredWins(t *testing.T) {
	t.Run("structured price beats visible candidates", func(t *testing.T) {
		p, conf := Resolve([]Candidate{
			{Source: SourceVisible, Raw: "₹2,499"},
			{Source: SourceStructured, Raw: "1999", Currency: "INR"},
			{Source: SourceListPrice, Raw: "₹2,999"},
		})
		if conf != model.ConfidenceHigh {
			t.Fatalf("confidence = %s, want high", conf)
		}
		if p == nil || p.Amount != 1999 || p.Currency != "INR" {
			t.Errorf("price = %v, want 1999 INR", p)
		}
	})

	t.Run("structured price with inline symbol", func(t *testing.T) {
		p, conf := Resolve([]Candidate{
			{Source: SourceStructured, Raw: "₹1999"},
		})
		if conf != model.ConfidenceHigh {
			t.Fatalf("confidence = %s, want high", conf)
		}
		if p.Amount != 1999 || p.Currency != "INR" {
			t.Errorf("price = %v, want 1999 INR", p)
		}
	})

	t.Run("unparseable structured falls through to visible", func(t *testing.T) {
		p, conf := Resolve([]Candidate{
			{Source: SourceStructured, Raw: "call for price"},
			{Source: SourceVisible, Raw: "₹899"},
		})
		if conf != model.ConfidenceMedium {
			t.Fatalf("confidence = %s, want medium", conf)
		}
		if p.Amount != 899 {
			t.Errorf("amount = %v, want 899", p.Amount)
		}
	})

	t.Run("structured without any currency falls through", func(t *testing.T) {
		_, conf := Resolve([]Candidate{
			{Source: SourceStructured, Raw: "1999"},
		})
		if conf != model.ConfidenceUnknown {
			t.Errorf("confidence = %s, want unknown", conf)
		}
	})

	t.Run("non-positive structured price rejected", func(t *testing.T) {
		_, conf := Resolve([]Candidate{
			{Source: SourceStructured, Raw: "0", Currency: "INR"},
		})
		if conf != model.ConfidenceUnknown {
			t.Errorf("confidence = %s, want unknown", conf)
		}
	})
}

func TestResolveVisible(t *testing.T) {
	t.Run("single visible price is medium", func(t *testing.T) {
		p, conf := Resolve([]Candidate{
			{Source: SourceVisible, Raw: "₹899"},
		})
		if conf != model.ConfidenceMedium {
			t.Fatalf("confidence = %s, want medium", conf)
		}
		if p.Amount != 899 || p.Currency != "INR" {
			t.Errorf("price = %v, want 899 INR", p)
		}
	})

	t.Run("struck-through list price loses to lower visible price", func(t *testing.T) {
		p, conf := Resolve([]Candidate{
			{Source: SourceListPrice, Raw: "₹1,299"},
			{Source: SourceVisible, Raw: "₹899"},
		})
		if conf != model.ConfidenceMedium {
			t.Fatalf("confidence = %s, want medium", conf)
		}
		if p.Amount != 899 {
			t.Errorf("amount = %v, want 899 (not the struck-through 1299)", p.Amount)
		}
	})

	t.Run("multiple visible prices pick the smallest", func(t *testing.T) {
		p, _ := Resolve([]Candidate{
			{Source: SourceVisible, Raw: "₹1,499"},
			{Source: SourceVisible, Raw: "₹1,199"},
			{Source: SourceVisible, Raw: "₹2,499"},
		})
		if p.Amount != 1199 {
			t.Errorf("amount = %v, want 1199", p.Amount)
		}
	})

	t.Run("list price alone is never selected", func(t *testing.T) {
		p, conf := Resolve([]Candidate{
			{Source: SourceListPrice, Raw: "₹2,999"},
		})
		if p != nil || conf != model.ConfidenceUnknown {
			t.Errorf("got %v/%s, want absent/unknown", p, conf)
		}
	})
}

func TestResolveTextScan(t *testing.T) {
	t.Run("text-scan token accepted with low confidence", func(t *testing.T) {
		p, conf := Resolve([]Candidate{
			{Source: SourceTextScan, Raw: "Rs. 1,499"},
		})
		if conf != model.ConfidenceLow {
			t.Fatalf("confidence = %s, want low", conf)
		}
		if p.Amount != 1499 || p.Currency != "INR" {
			t.Errorf("price = %v, want 1499 INR", p)
		}
	})

	t.Run("first parseable text-scan token wins", func(t *testing.T) {
		p, _ := Resolve([]Candidate{
			{Source: SourceTextScan, Raw: "₹999"},
			{Source: SourceTextScan, Raw: "₹499"},
		})
		if p.Amount != 999 {
			t.Errorf("amount = %v, want 999 (first token)", p.Amount)
		}
	})
}

func TestResolveEmpty(t *testing.T) {
	p, conf := Resolve(nil)
	if p != nil {
		t.Errorf("price = %v, want nil", p)
	}
	if conf != model.ConfidenceUnknown {
		t.Errorf("confidence = %s, want unknown", conf)
	}
}
