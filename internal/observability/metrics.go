package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pages_fetched_total",
		Help: "Product pages retrieved successfully",
	})
	FetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_failures_total",
		Help: "Candidate pages dropped on transport failure or timeout",
	})
	ExtractionFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extraction_failures_total",
		Help: "Candidate pages with no product-like content",
	})
	EmbeddingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "embeddings_total",
		Help: "Embedding vectors generated",
	})
	EmbeddingFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "embedding_failures_total",
		Help: "Embedding calls that failed",
	})
	IndexFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "index_failures_total",
		Help: "Vector store writes that failed",
	})
	RecordsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "records_indexed_total",
		Help: "Product records fully indexed",
	})
	AnswersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "answers_total",
		Help: "Grounded answers produced",
	})
	AnswerFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "answer_failures_total",
		Help: "Questions the assistant could not answer",
	})
)

func Start(port string) {
	prometheus.MustRegister(
		PagesFetched,
		FetchFailures,
		ExtractionFailures,
		EmbeddingsTotal,
		EmbeddingFailures,
		IndexFailures,
		RecordsIndexed,
		AnswersTotal,
		AnswerFailures,
	)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
