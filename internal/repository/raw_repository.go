package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"shopqa/internal/model"
)

// RawPageRepository stores fetched pages and their extracted records, keyed
// by source URL. sync_status 'S' means the record is waiting to be indexed;
// 'N' means its vectors are current.
type RawPageRepository struct {
	DB *sql.DB
}

func (r *RawPageRepository) Save(p model.RawPage) error {
	recordJSON, err := json.Marshal(p.Record)
	if err != nil {
		return fmt.Errorf("raw save %s: %w", p.SourceURL, err)
	}

	var exists bool
	err = r.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM raw_pages WHERE source_url = $1)", p.SourceURL).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = r.DB.Exec(`
			UPDATE raw_pages
			SET html = $1, record = $2, sync_status = 'S', fetched_at = NOW()
			WHERE source_url = $3
		`, p.HTML, recordJSON, p.SourceURL)
	} else {
		_, err = r.DB.Exec(`
			INSERT INTO raw_pages
			(id, source_url, html, record, sync_status, fetched_at)
			VALUES ($1, $2, $3, $4, 'S', NOW())
		`, p.ID, p.SourceURL, p.HTML, recordJSON)
	}

	return err
}

// ListPending returns the pages whose records still need (re)indexing.
func (r *RawPageRepository) ListPending() ([]model.RawPage, error) {
	rows, err := r.DB.Query(`
		SELECT id, source_url, html, record
		FROM raw_pages
		WHERE sync_status = 'S'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.RawPage
	for rows.Next() {
		var p model.RawPage
		var recordJSON []byte
		if err := rows.Scan(&p.ID, &p.SourceURL, &p.HTML, &recordJSON); err != nil {
			continue
		}
		if err := json.Unmarshal(recordJSON, &p.Record); err != nil {
			continue
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

func (r *RawPageRepository) MarkIndexed(sourceURL string) error {
	_, err := r.DB.Exec(`
		UPDATE raw_pages
		SET sync_status = 'N'
		WHERE source_url = $1
	`, sourceURL)
	return err
}
