package ports

import (
	"context"
	"io"

	"github.com/kochimetro/docflow/internal/core/domain"
)

// BlobStore stores raw uploaded bytes keyed by an opaque reference. The
// original filename round-trips with the bytes.
type BlobStore interface {
	Put(ctx context.Context, name string, data io.Reader) (string, error)
	Get(ctx context.Context, ref string) ([]byte, string, error)
}

// RecordStore persists upload placeholders and processed chunks.
type RecordStore interface {
	CreateUpload(ctx context.Context, rec *domain.UploadRecord) error
	GetUpload(ctx context.Context, id string) (*domain.UploadRecord, error)
	MarkUploadFailed(ctx context.Context, id, reason string) error
	// SwapUploadForChunks inserts the chunks and deletes the placeholder in a
	// single transaction, so a crash can never lose both.
	SwapUploadForChunks(ctx context.Context, uploadID string, chunks []domain.ProcessedChunk) error
	ListChunksBySource(ctx context.Context, sourceDocID string) ([]domain.ProcessedChunk, error)
	DeleteDocument(ctx context.Context, sourceDocID string) (int64, error)
}

// TextExtractor turns raw bytes into plain text based on the declared filename.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// LanguageDetector reports the ISO 639-3 code of the text's language.
// reliable=false means the caller must fail open and assume English.
type LanguageDetector interface {
	Detect(text string) (lang string, reliable bool)
}

// TextGenerator is the single-shot language model call: prompt in, free-form
// text out. No streaming and no structured-output mode is assumed.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder produces a fixed-length vector for a text.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ContentSplitter splits final text into persistable chunks. A nil or
// disabled splitter means one chunk per document.
type ContentSplitter interface {
	Split(text string) []string
}

// EventPublisher announces completed documents to downstream consumers.
// Best-effort: callers log failures and move on.
type EventPublisher interface {
	PublishDocumentProcessed(ctx context.Context, ev domain.ProcessedEvent) error
}
