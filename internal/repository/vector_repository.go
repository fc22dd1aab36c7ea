package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopqa/internal/model"
)

// VectorResult is one retrieved product with its similarity score.
type VectorResult struct {
	SourceURL       string
	Title           string
	Price           *float64
	Currency        string
	PriceConfidence string
	ImageURL        string
	Content         string
	Score           float64
}

// VectorRepository stores embedded record chunks in a pgvector column.
// Writes replace all rows for a source URL wholesale: records are immutable,
// a re-extracted record supersedes the old one entirely.
type VectorRepository struct {
	DB *pgxpool.Pool
}

// pgvector expects the literal "[v1,v2,...]" form.
func vectorLiteral(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Replace deletes every chunk stored for the record's URL and inserts the
// new chunks in the same transaction, so retrieval never sees a mix of old
// and new content.
func (r *VectorRepository) Replace(ctx context.Context, rec *model.ProductRecord, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("vector replace %s: %d chunks with %d embeddings", rec.SourceURL, len(chunks), len(embeddings))
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM product_vectors WHERE source_url = $1`, rec.SourceURL); err != nil {
		return err
	}

	var amount *float64
	currency := ""
	if rec.Price != nil {
		amount = &rec.Price.Amount
		currency = rec.Price.Currency
	}
	imageURL := ""
	if len(rec.Images) > 0 {
		imageURL = rec.Images[0]
	}

	for i, chunk := range chunks {
		// Strip invalid byte sequences so Postgres does not reject the row.
		content := strings.ToValidUTF8(chunk, "")
		_, err := tx.Exec(ctx, `
			INSERT INTO product_vectors
			(id, source_url, title, price, currency, price_confidence, image_url, content, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		`, uuid.New(), rec.SourceURL, rec.Title, amount, currency, string(rec.PriceConfidence), imageURL, content, vectorLiteral(embeddings[i]))
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// SearchSimilar returns the closest distinct products above minScore,
// best match first.
func (r *VectorRepository) SearchSimilar(ctx context.Context, embedding []float32, minScore float64, limit int) ([]VectorResult, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT source_url, title, price, currency, price_confidence, image_url, content, score
		FROM (
			SELECT DISTINCT ON (source_url) source_url, title, price, currency, price_confidence, image_url, content,
			       1 - (embedding <=> $1) AS score
			FROM product_vectors
			ORDER BY source_url, embedding <=> $1 ASC
		) sub
		WHERE score > $2
		ORDER BY score DESC
		LIMIT $3
	`, vectorLiteral(embedding), minScore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []VectorResult
	for rows.Next() {
		var v VectorResult
		if err := rows.Scan(&v.SourceURL, &v.Title, &v.Price, &v.Currency, &v.PriceConfidence, &v.ImageURL, &v.Content, &v.Score); err != nil {
			continue
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

// ChunksByURL reconstructs the stored document for one product, in insert
// order.
func (r *VectorRepository) ChunksByURL(ctx context.Context, sourceURL string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT content FROM product_vectors WHERE source_url = $1 ORDER BY created_at ASC
	`, sourceURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err == nil {
			contents = append(contents, content)
		}
	}
	return contents, rows.Err()
}
