// Package pipeline runs one user query end to end: search for candidate
// pages, fetch and extract them concurrently, persist and index whatever
// succeeded. Candidate failures are dropped, never fatal; the returned
// records keep the search engine's ranking order no matter how the
// concurrent work completes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopqa/internal/extractor"
	"shopqa/internal/model"
	"shopqa/internal/observability"
)

// ErrNoResults distinguishes "everything failed or nothing was found" from
// a pipeline error: the query ran, there is just nothing to show.
var ErrNoResults = errors.New("no products found")

type Searcher interface {
	SearchProducts(ctx context.Context, query string, domains []string, n int) ([]string, error)
}

type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type RawStore interface {
	Save(p model.RawPage) error
}

type RecordIndexer interface {
	IndexRecord(ctx context.Context, rec *model.ProductRecord) error
}

type Pipeline struct {
	Search  Searcher
	Fetcher PageFetcher
	Store   RawStore      // optional
	Indexer RecordIndexer // optional

	Domains      []string
	FetchTimeout time.Duration
	Workers      int
}

// Run searches for the query and returns the successfully extracted records
// in search order. Per-candidate fetches are bounded by FetchTimeout; a
// timed-out or unparseable candidate is dropped and the rest proceed.
// Cancelling ctx abandons in-flight work and discards partial results.
func (pl *Pipeline) Run(ctx context.Context, query string, n int) ([]model.ProductRecord, error) {
	urls, err := pl.Search.SearchProducts(ctx, query, pl.Domains, n)
	if err != nil {
		return nil, fmt.Errorf("pipeline search: %w", err)
	}
	if len(urls) == 0 {
		return nil, ErrNoResults
	}

	// Results land in an index-addressed slice so completion order cannot
	// reorder them.
	results := make([]*model.ProductRecord, len(urls))

	workers := pl.Workers
	if workers <= 0 {
		workers = 5
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = pl.processCandidate(ctx, urls[i])
			}
		}()
	}

dispatch:
	for i := range urls {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []model.ProductRecord
	for _, rec := range results {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}

func (pl *Pipeline) processCandidate(ctx context.Context, url string) *model.ProductRecord {
	if ctx.Err() != nil {
		return nil
	}

	fetchCtx := ctx
	if pl.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, pl.FetchTimeout)
		defer cancel()
	}

	html, err := pl.Fetcher.Fetch(fetchCtx, url)
	if err != nil {
		observability.FetchFailures.Inc()
		log.Printf("[pipeline] dropping %s: %v", url, err)
		return nil
	}
	observability.PagesFetched.Inc()

	rec, err := extractor.Extract(html, url)
	if err != nil {
		observability.ExtractionFailures.Inc()
		log.Printf("[pipeline] dropping %s: %v", url, err)
		return nil
	}

	rec.RawRef = uuid.New().String()
	if pl.Store != nil {
		page := model.RawPage{
			ID:        rec.RawRef,
			SourceURL: url,
			HTML:      string(html),
			Record:    *rec,
		}
		if err := pl.Store.Save(page); err != nil {
			// Storage trouble does not cost the user their result.
			log.Printf("[pipeline] failed to persist raw page %s: %v", url, err)
		}
	}

	if pl.Indexer != nil {
		if err := pl.Indexer.IndexRecord(ctx, rec); err != nil {
			// The record is still displayable; it is just absent from
			// semantic retrieval until a reindex run succeeds.
			log.Printf("[pipeline] warning: index failed for %s: %v", url, err)
		}
	}

	return rec
}
