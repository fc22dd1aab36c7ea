package main

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"shopqa/internal/config"
	"shopqa/internal/db"
	"shopqa/internal/embeddings"
	"shopqa/internal/observability"
	"shopqa/internal/repository"
)

func main() {
	cfg := config.Load()

	observability.Start(cfg.MetricsPort)

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create pgx pool: %v", err)
	}
	defer pool.Close()

	rawRepo := &repository.RawPageRepository{DB: sqlDB}
	vectorRepo := &repository.VectorRepository{DB: pool}

	pages, err := rawRepo.ListPending()
	if err != nil {
		log.Fatalf("failed to list pending pages: %v", err)
	}
	if len(pages) == 0 {
		log.Println("nothing to index")
		return
	}
	log.Printf("indexing %d pending records", len(pages))

	indexer := &embeddings.Indexer{
		Embedder: embeddings.NewClient(openai.NewClient(cfg.OpenAIKey)),
		Vectors:  vectorRepo,
		Raw:      rawRepo,
	}
	indexer.RunWorkers(ctx, pages, cfg.WorkerCount)

	log.Println("indexing finished")
}
