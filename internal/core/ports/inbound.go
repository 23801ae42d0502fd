package ports

import (
	"context"
	"io"

	"github.com/kochimetro/docflow/internal/core/domain"
)

// DocumentIngestor is the inbound contract for upload-and-process orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.UploadResult, error)
}

// DocumentProcessor runs the extraction pipeline for already-stored bytes.
type DocumentProcessor interface {
	Process(ctx context.Context, sourceDocID string, data []byte, filename string) ([]domain.ProcessedChunk, error)
}
