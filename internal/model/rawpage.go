package model

// RawPage is a fetched page plus the record extracted from it, as persisted
// by the pipeline. The raw HTML is kept for auditability and so records can
// be rebuilt without refetching; sync status tracks whether the record has
// been pushed into the vector store yet.
type RawPage struct {
	ID        string
	SourceURL string
	HTML      string
	Record    ProductRecord
}
