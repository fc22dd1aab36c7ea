package embeddings

import (
	"context"
	"log"
	"sync"

	"shopqa/internal/model"
	"shopqa/internal/observability"
	"shopqa/internal/repository"
)

const chunkSize = 1000

// Indexer ties the embedding client to the two stores.
type Indexer struct {
	Embedder *Client
	Vectors  *repository.VectorRepository
	Raw      *repository.RawPageRepository
}

// IndexRecord embeds one record and replaces its rows in the vector store.
// An embedding or store failure leaves the page marked pending so a later
// run retries it; the record itself stays usable for display.
func (ix *Indexer) IndexRecord(ctx context.Context, rec *model.ProductRecord) error {
	chunks := Chunk(RecordText(rec), chunkSize)
	embs := make([][]float32, 0, len(chunks))
	for _, c := range chunks {
		emb, err := ix.Embedder.Embed(ctx, c)
		if err != nil {
			observability.EmbeddingFailures.Inc()
			return err
		}
		observability.EmbeddingsTotal.Inc()
		embs = append(embs, emb)
	}
	if err := ix.Vectors.Replace(ctx, rec, chunks, embs); err != nil {
		observability.IndexFailures.Inc()
		return err
	}
	observability.RecordsIndexed.Inc()
	return nil
}

// RunWorkers drains pending raw pages through a bounded worker pool.
func (ix *Indexer) RunWorkers(ctx context.Context, pages []model.RawPage, workers int) {
	if workers <= 0 {
		workers = 5
	}
	jobs := make(chan model.RawPage)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				ix.process(ctx, p)
			}
		}()
	}

	for _, p := range pages {
		select {
		case jobs <- p:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}

func (ix *Indexer) process(ctx context.Context, p model.RawPage) {
	if err := ix.IndexRecord(ctx, &p.Record); err != nil {
		log.Printf("[embeddings] failed to index %s: %v", p.SourceURL, err)
		return
	}
	if err := ix.Raw.MarkIndexed(p.SourceURL); err != nil {
		log.Printf("[embeddings] failed to mark %s indexed: %v", p.SourceURL, err)
		return
	}
	log.Printf("[embeddings] indexed %s", p.SourceURL)
}
