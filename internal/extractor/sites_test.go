package extractor

import (
	"testing"

	"shopqa/internal/model"
)

// A stripped-down Amazon product page: offer price and struck-through MRP
// both use .a-offscreen, distinguished only by the a-text-price wrapper.
const amazonPage = `<!DOCTYPE html>
<html><head><title>Amazon.in: Wireless Earbuds</title></head><body>
<span id="productTitle"> Wireless Earbuds with ANC, 30h Battery </span>
<div id="feature-bullets">Active noise cancellation. IPX4 water resistance.</div>
<span class="a-price"><span class="a-offscreen">₹1,999</span></span>
<span class="a-price a-text-price"><span class="a-offscreen">₹2,999</span></span>
<img id="landingImage" src="https://m.media-amazon.com/images/I/earbuds.jpg">
<span data-hook="review-body">Battery easily lasts two days.</span>
<span data-hook="review-body">Battery easily lasts two days.</span>
</body></html>`

func TestExtractAmazonProfile(t *testing.T) {
	rec, err := Extract([]byte(amazonPage), "https://www.amazon.in/dp/B0AAA1111")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.Title != "Wireless Earbuds with ANC, 30h Battery" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.PriceConfidence != model.ConfidenceMedium {
		t.Errorf("confidence = %s, want medium (visible price, no structured data)", rec.PriceConfidence)
	}
	if rec.Price == nil || rec.Price.Amount != 1999 {
		t.Errorf("price = %v, want 1999 (the a-text-price MRP must not win)", rec.Price)
	}
	if len(rec.Images) != 1 || rec.Images[0] != "https://m.media-amazon.com/images/I/earbuds.jpg" {
		t.Errorf("images = %v", rec.Images)
	}
	if len(rec.Reviews) != 1 {
		t.Errorf("reviews = %v, want the duplicate collapsed", rec.Reviews)
	}
}

const microdataPage = `<!DOCTYPE html>
<html><head><title>Shop</title></head><body>
<div itemscope itemtype="https://schema.org/Product">
  <span itemprop="name">USB-C Charger 65W</span>
  <span itemprop="description">GaN fast charger.</span>
  <meta itemprop="price" content="1499">
  <meta itemprop="priceCurrency" content="INR">
  <img itemprop="image" src="https://cdn.example.com/charger.jpg">
</div>
</body></html>`

func TestExtractMicrodata(t *testing.T) {
	rec, err := Extract([]byte(microdataPage), "https://shop.example.com/product/charger")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.Title != "USB-C Charger 65W" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.PriceConfidence != model.ConfidenceHigh {
		t.Errorf("confidence = %s, want high (microdata is structured metadata)", rec.PriceConfidence)
	}
	if rec.Price == nil || rec.Price.Amount != 1499 || rec.Price.Currency != "INR" {
		t.Errorf("price = %v, want 1499 INR", rec.Price)
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"www.amazon.in", true},
		{"amazon.com", true},
		{"www.flipkart.com", true},
		{"www.nykaa.com", true},
		{"shop.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := profileFor(tt.host) != nil; got != tt.want {
				t.Errorf("profileFor(%q) != nil = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}
