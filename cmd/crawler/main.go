package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shopqa/internal/config"
	"shopqa/internal/db"
	"shopqa/internal/extractor"
	"shopqa/internal/fetcher"
	"shopqa/internal/model"
	"shopqa/internal/pipeline"
	"shopqa/internal/repository"
	"shopqa/internal/search"
)

// go run cmd/crawler/main.go -query="wireless earbuds under 2000" -n=5
// go run cmd/crawler/main.go -urls="https://www.amazon.in/dp/B0ABC123,https://www.flipkart.com/x/p/itm456"
func main() {
	query := flag.String("query", "", "product query to search, fetch and index")
	urlsArg := flag.String("urls", "", "comma-separated product URLs to fetch directly")
	n := flag.Int("n", 5, "number of candidate pages to process")
	flag.Parse()

	cfg := config.Load()

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}
	rawRepo := &repository.RawPageRepository{DB: sqlDB}

	fetchTimeout := time.Duration(cfg.FetchTimeoutSec) * time.Second
	f := fetcher.New(fetchTimeout)
	ctx := context.Background()

	if *urlsArg != "" {
		crawlURLs(ctx, f, rawRepo, strings.Split(*urlsArg, ","))
		log.Println("crawler finished")
		return
	}

	if *query == "" {
		log.Fatal("either -query or -urls is required")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	pl := &pipeline.Pipeline{
		Search:       search.NewClient(cfg.SerpAPIKey, &search.Cache{Client: redisClient}),
		Fetcher:      f,
		Store:        rawRepo,
		Domains:      cfg.TrustedDomains,
		FetchTimeout: fetchTimeout,
		Workers:      cfg.WorkerCount,
	}

	records, err := pl.Run(ctx, *query, *n)
	if errors.Is(err, pipeline.ErrNoResults) {
		log.Println("no products found")
		return
	}
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	for _, rec := range records {
		printRecord(&rec)
	}
	log.Printf("crawler finished: %d records saved (run cmd/embeddings to index them)", len(records))
}

func crawlURLs(ctx context.Context, f *fetcher.Fetcher, repo *repository.RawPageRepository, urls []string) {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		html, err := f.Fetch(ctx, u)
		if err != nil {
			log.Printf("skipping %s: %v", u, err)
			continue
		}
		rec, err := extractor.Extract(html, u)
		if err != nil {
			log.Printf("skipping %s: %v", u, err)
			continue
		}
		rec.RawRef = uuid.New().String()
		if err := repo.Save(model.RawPage{
			ID:        rec.RawRef,
			SourceURL: u,
			HTML:      string(html),
			Record:    *rec,
		}); err != nil {
			log.Printf("failed to save %s: %v", u, err)
			continue
		}
		printRecord(rec)
	}
}

func printRecord(rec *model.ProductRecord) {
	priceStr := "price unavailable"
	if rec.Price != nil {
		priceStr = fmt.Sprintf("%s (%s)", rec.Price, rec.PriceConfidence)
	}
	fmt.Printf("%s\n  %s\n  %s | %d images | %d reviews\n", rec.Title, rec.SourceURL, priceStr, len(rec.Images), len(rec.Reviews))
}
