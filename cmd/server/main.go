package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"shopqa/internal/config"
	"shopqa/internal/db"
	"shopqa/internal/embeddings"
	"shopqa/internal/fetcher"
	"shopqa/internal/model"
	"shopqa/internal/observability"
	"shopqa/internal/pipeline"
	"shopqa/internal/qa"
	"shopqa/internal/repository"
	"shopqa/internal/search"
)

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type productView struct {
	model.ProductRecord
	PriceDisplay string `json:"price_display"`
}

type searchResponse struct {
	Products []productView `json:"products"`
	Message  string        `json:"message,omitempty"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func main() {
	cfg := config.Load()

	observability.Start(cfg.MetricsPort)

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}

	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create pgx pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("failed to reach postgres: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	openaiClient := openai.NewClient(cfg.OpenAIKey)

	rawRepo := &repository.RawPageRepository{DB: sqlDB}
	vectorRepo := &repository.VectorRepository{DB: pool}
	embedder := embeddings.NewClient(openaiClient)
	indexer := &embeddings.Indexer{Embedder: embedder, Vectors: vectorRepo, Raw: rawRepo}

	pl := &pipeline.Pipeline{
		Search:       search.NewClient(cfg.SerpAPIKey, &search.Cache{Client: redisClient}),
		Fetcher:      fetcher.New(time.Duration(cfg.FetchTimeoutSec) * time.Second),
		Store:        rawRepo,
		Indexer:      indexer,
		Domains:      cfg.TrustedDomains,
		FetchTimeout: time.Duration(cfg.FetchTimeoutSec) * time.Second,
		Workers:      cfg.WorkerCount,
	}

	engine := &qa.Engine{
		Vectors:  vectorRepo,
		Embedder: embedder,
		LLM:      openaiClient,
		Sessions: &qa.SessionStore{Client: redisClient},
		TopK:     3,
		MinScore: 0.15,
	}

	http.HandleFunc("/search", searchHandler(pl))
	http.HandleFunc("/chat", chatHandler(engine))
	http.HandleFunc("/view", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeFile(w, r, "./views/index.html")
	})

	log.Printf("shopping assistant listening on :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, nil))
}

// searchHandler runs the query pipeline. The request context doubles as the
// pipeline's cancellation: a client that gives up (or fires a new query)
// abandons the in-flight fetches, and their partial results are discarded.
func searchHandler(pl *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
			http.Error(w, "missing query", http.StatusBadRequest)
			return
		}
		if req.Limit <= 0 {
			req.Limit = 5
		}

		records, err := pl.Run(r.Context(), req.Query, req.Limit)
		if errors.Is(err, pipeline.ErrNoResults) {
			writeJSON(w, searchResponse{Products: []productView{}, Message: "no products found for that query"})
			return
		}
		if err != nil {
			log.Printf("[server] search pipeline failed: %v", err)
			http.Error(w, "search failed", http.StatusBadGateway)
			return
		}

		resp := searchResponse{Products: make([]productView, 0, len(records))}
		for _, rec := range records {
			view := productView{ProductRecord: rec}
			if rec.Price != nil {
				view.PriceDisplay = rec.Price.String()
			} else {
				view.PriceDisplay = "price unavailable"
			}
			resp.Products = append(resp.Products, view)
		}
		writeJSON(w, resp)
	}
}

func chatHandler(engine *qa.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
			http.Error(w, "missing message", http.StatusBadRequest)
			return
		}

		answer, err := engine.Answer(r.Context(), req.SessionID, req.Message)
		if err != nil {
			log.Printf("[server] answer failed: %v", err)
			writeJSON(w, chatResponse{
				Answer: "Sorry — I couldn't answer that right now. Please try again in a moment.",
			})
			return
		}
		writeJSON(w, chatResponse{Answer: answer})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
