package extractor

import (
	"errors"
	"reflect"
	"testing"

	"shopqa/internal/model"
)

const structuredPage = `<!DOCTYPE html>
<html><head>
<title>Wireless Earbuds - Buy Online</title>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Wireless Earbuds",
  "description": "Bluetooth 5.3 earbuds with 30h battery life.",
  "image": ["https://cdn.example.com/earbuds-front.jpg", "https://cdn.example.com/earbuds-case.jpg"],
  "offers": {"@type": "Offer", "price": "₹1999"},
  "review": [
    {"@type": "Review", "reviewBody": "Great sound for the price.", "reviewRating": {"ratingValue": "4.5"}, "author": {"@type": "Person", "name": "Asha"}}
  ]
}
</script>
</head><body>
<h1>Wireless Earbuds</h1>
<div class="price"><del>₹2,999</del></div>
<div class="price">₹1,999</div>
</body></html>`

const visiblePricePage = `<!DOCTYPE html>
<html><head><title>Budget Earphones</title></head><body>
<h1>Budget Wired Earphones with Mic</h1>
<div class="price">₹899</div>
<div class="price"><del>₹1,299</del></div>
<img class="gallery" src="relative/img.jpg">
</body></html>`

const noPricePage = `<!DOCTYPE html>
<html><head>
<meta name="description" content="A mechanical keyboard.">
<meta property="og:image" content="https://cdn.example.com/kb.jpg">
</head><body>
<h1>Mechanical Keyboard TKL</h1>
</body></html>`

const emptyPage = `<!DOCTYPE html><html><head></head><body><p>nothing to see</p></body></html>`

func TestExtractStructured(t *testing.T) {
	rec, err := Extract([]byte(structuredPage), "https://shop.example.com/product/earbuds")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.Title != "Wireless Earbuds" {
		t.Errorf("title = %q, want %q", rec.Title, "Wireless Earbuds")
	}
	if rec.PriceConfidence != model.ConfidenceHigh {
		t.Errorf("confidence = %s, want high", rec.PriceConfidence)
	}
	if rec.Price == nil || rec.Price.Amount != 1999 || rec.Price.Currency != "INR" {
		t.Errorf("price = %v, want 1999 INR (not the struck-through 2999)", rec.Price)
	}
	if len(rec.Images) != 2 {
		t.Errorf("images = %v, want the 2 structured urls", rec.Images)
	}
	if len(rec.Reviews) != 1 || rec.Reviews[0].Text != "Great sound for the price." {
		t.Fatalf("reviews = %v, want the structured review", rec.Reviews)
	}
	if rec.Reviews[0].Rating == nil || *rec.Reviews[0].Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", rec.Reviews[0].Rating)
	}
	if rec.Reviews[0].Author != "Asha" {
		t.Errorf("author = %q, want Asha", rec.Reviews[0].Author)
	}
}

func TestExtractVisiblePrice(t *testing.T) {
	rec, err := Extract([]byte(visiblePricePage), "https://shop.example.com/product/earphones")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.PriceConfidence != model.ConfidenceMedium {
		t.Errorf("confidence = %s, want medium", rec.PriceConfidence)
	}
	if rec.Price == nil || rec.Price.Amount != 899 {
		t.Errorf("price = %v, want 899 (struck-through 1299 must lose)", rec.Price)
	}
	if rec.Title != "Budget Wired Earphones with Mic" {
		t.Errorf("title = %q, want the longer h1 over the title tag", rec.Title)
	}
	for _, img := range rec.Images {
		if img == "relative/img.jpg" {
			t.Errorf("relative image url was not dropped: %v", rec.Images)
		}
	}
}

func TestExtractNoPriceStillProducesRecord(t *testing.T) {
	rec, err := Extract([]byte(noPricePage), "https://shop.example.com/product/keyboard")
	if err != nil {
		t.Fatalf("Extract() error = %v, want record without price", err)
	}

	if rec.Price != nil {
		t.Errorf("price = %v, want absent", rec.Price)
	}
	if rec.PriceConfidence != model.ConfidenceUnknown {
		t.Errorf("confidence = %s, want unknown", rec.PriceConfidence)
	}
	if rec.Title != "Mechanical Keyboard TKL" {
		t.Errorf("title = %q", rec.Title)
	}
	if len(rec.Images) != 1 || rec.Images[0] != "https://cdn.example.com/kb.jpg" {
		t.Errorf("images = %v, want the og:image", rec.Images)
	}
	if rec.Description != "A mechanical keyboard." {
		t.Errorf("description = %q", rec.Description)
	}
}

func TestExtractNoProductContent(t *testing.T) {
	_, err := Extract([]byte(emptyPage), "https://shop.example.com/about")
	if !errors.Is(err, ErrNoProduct) {
		t.Errorf("error = %v, want ErrNoProduct", err)
	}
}

func TestExtractEmptySourceURL(t *testing.T) {
	if _, err := Extract([]byte(structuredPage), ""); err == nil {
		t.Error("Extract() with empty source url should fail")
	}
}

func TestExtractIdempotent(t *testing.T) {
	a, err := Extract([]byte(structuredPage), "https://shop.example.com/product/earbuds")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Extract([]byte(structuredPage), "https://shop.example.com/product/earbuds")
	if err != nil {
		t.Fatal(err)
	}

	// Equality over everything except the fetch timestamp.
	a.FetchedAt = b.FetchedAt
	if !reflect.DeepEqual(a, b) {
		t.Errorf("re-extraction differs:\n a=%+v\n b=%+v", a, b)
	}
}

func TestNormalizeImages(t *testing.T) {
	got := normalizeImages([]string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/a.jpg#main", // same after fragment strip
		"not a url",
		"",
		"/relative/path.jpg",
		"https://cdn.example.com/b.jpg",
		"https://cdn.example.com/a.jpg",
	})
	want := []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeImages = %v, want %v", got, want)
	}
}

func TestPickTitle(t *testing.T) {
	t.Run("longest wins", func(t *testing.T) {
		got := pickTitle([]string{"Earbuds", "Wireless Earbuds with ANC", "Wireless Earbuds"})
		if got != "Wireless Earbuds with ANC" {
			t.Errorf("pickTitle = %q", got)
		}
	})
	t.Run("truncated candidates skipped", func(t *testing.T) {
		got := pickTitle([]string{"Wireless Earbuds with Active Noise Cancellati...", "Wireless Earbuds"})
		if got != "Wireless Earbuds" {
			t.Errorf("pickTitle = %q", got)
		}
	})
	t.Run("all truncated falls back to first", func(t *testing.T) {
		got := pickTitle([]string{"Wireless Earb...", "Wireless Earbuds wi…"})
		if got != "Wireless Earb..." {
			t.Errorf("pickTitle = %q", got)
		}
	})
	t.Run("empty input", func(t *testing.T) {
		if got := pickTitle(nil); got != "" {
			t.Errorf("pickTitle = %q, want empty", got)
		}
	})
}
