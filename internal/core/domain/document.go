package domain

import "time"

type UploadStatus string

const (
	StatusUploaded  UploadStatus = "uploaded"
	StatusProcessed UploadStatus = "processed"
	StatusFailed    UploadStatus = "failed"
)

// UploadRecord is the placeholder created at upload time. It survives until
// processing succeeds and the record is swapped for ProcessedChunk rows.
type UploadRecord struct {
	ID            string       `json:"id"`
	Filename      string       `json:"filename"`
	Status        UploadStatus `json:"status"`
	FailureReason string       `json:"failure_reason,omitempty"`
	BlobRef       string       `json:"blob_ref"`
	UploadedAt    time.Time    `json:"uploaded_at"`
}

// Summary keys stay absent when the model omitted them; they are never
// synthesized.
type Summary struct {
	Short string `json:"short,omitempty"`
	Long  string `json:"long,omitempty"`
}

// Dates carries the three schema dates as "YYYY-MM-DD" strings. A nil field
// serializes as JSON null and round-trips back to nil, never to "".
type Dates struct {
	Issued     *string `json:"issued"`
	Deadline   *string `json:"deadline"`
	ReviewDate *string `json:"review_date"`
}

// Analysis is the Structured Analyzer result. Every field is populated with
// its documented default when the model output omitted the key.
type Analysis struct {
	Summary    Summary  `json:"summary"`
	Tags       []string `json:"tags"`
	Dates      Dates    `json:"dates"`
	Department string   `json:"department"`
	Category   string   `json:"category"`
}

// ProcessedChunk is the enriched, queryable unit derived from one upload.
// Immutable after insertion.
type ProcessedChunk struct {
	ID          string    `json:"id"`
	SourceDocID string    `json:"source_doc_id"`
	Filename    string    `json:"filename"`
	Content     string    `json:"content"`
	Summary     Summary   `json:"summary"`
	Tags        []string  `json:"tags"`
	Dates       Dates     `json:"dates"`
	Department  string    `json:"department"`
	Category    string    `json:"category"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadResult is the gateway response for a processed upload.
type UploadResult struct {
	Message       string `json:"message"`
	DocID         string `json:"doc_id"`
	ChunksCreated int    `json:"chunks_created"`
}

// ProcessedEvent is published after a successful placeholder swap.
type ProcessedEvent struct {
	DocID         string    `json:"doc_id"`
	Filename      string    `json:"filename"`
	ChunksCreated int       `json:"chunks_created"`
	ProcessedAt   time.Time `json:"processed_at"`
}
