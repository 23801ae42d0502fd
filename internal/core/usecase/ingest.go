package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kochimetro/docflow/internal/core/domain"
	"github.com/kochimetro/docflow/internal/core/ports"
)

// IngestDocumentUseCase is the gateway: it stores the raw upload, creates the
// placeholder record, drives the pipeline and swaps the placeholder for the
// enriched chunks. The placeholder is retained with status=failed when any
// stage aborts, so no document ever disappears silently.
type IngestDocumentUseCase struct {
	records  ports.RecordStore
	blobs    ports.BlobStore
	pipeline ports.DocumentProcessor
	events   ports.EventPublisher
	log      *slog.Logger
}

func NewIngestDocumentUseCase(
	records ports.RecordStore,
	blobs ports.BlobStore,
	pipeline ports.DocumentProcessor,
	events ports.EventPublisher,
	log *slog.Logger,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		records:  records,
		blobs:    blobs,
		pipeline: pipeline,
		events:   events,
		log:      log,
	}
}

func (uc *IngestDocumentUseCase) Upload(ctx context.Context, filename string, body io.Reader) (*domain.UploadResult, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload body", err)
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload body", fmt.Errorf("empty file"))
	}

	blobRef, err := uc.blobs.Put(ctx, filename, bytes.NewReader(raw))
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "store raw upload", err)
	}

	rec := &domain.UploadRecord{
		ID:         uuid.NewString(),
		Filename:   filename,
		Status:     domain.StatusUploaded,
		BlobRef:    blobRef,
		UploadedAt: time.Now().UTC(),
	}
	if err := uc.records.CreateUpload(ctx, rec); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "create upload record", err)
	}

	// Round-trip through the blob store rather than reusing the in-memory
	// buffer, so processing sees exactly what later reads will see.
	data, storedName, err := uc.blobs.Get(ctx, blobRef)
	if err != nil {
		uc.markFailed(ctx, rec.ID, domain.WrapError(domain.ErrStorage, "fetch raw upload", err))
		return nil, domain.WrapError(domain.ErrStorage, "fetch raw upload", err)
	}

	chunks, err := uc.pipeline.Process(ctx, rec.ID, data, storedName)
	if err != nil {
		uc.markFailed(ctx, rec.ID, err)
		return nil, err
	}

	if err := uc.records.SwapUploadForChunks(ctx, rec.ID, chunks); err != nil {
		uc.markFailed(ctx, rec.ID, domain.WrapError(domain.ErrStorage, "persist chunks", err))
		return nil, domain.WrapError(domain.ErrStorage, "persist chunks", err)
	}

	uc.publishProcessed(ctx, rec, len(chunks))

	return &domain.UploadResult{
		Message:       "File processed and ingested successfully.",
		DocID:         rec.ID,
		ChunksCreated: len(chunks),
	}, nil
}

func (uc *IngestDocumentUseCase) markFailed(ctx context.Context, id string, cause error) {
	reason := domain.FailureReason(cause)
	if err := uc.records.MarkUploadFailed(ctx, id, reason); err != nil {
		uc.log.Error("mark upload failed", "doc_id", id, "reason", reason, "error", err)
	}
}

func (uc *IngestDocumentUseCase) publishProcessed(ctx context.Context, rec *domain.UploadRecord, chunkCount int) {
	if uc.events == nil {
		return
	}
	ev := domain.ProcessedEvent{
		DocID:         rec.ID,
		Filename:      rec.Filename,
		ChunksCreated: chunkCount,
		ProcessedAt:   time.Now().UTC(),
	}
	if err := uc.events.PublishDocumentProcessed(ctx, ev); err != nil {
		uc.log.Warn("publish processed event", "doc_id", rec.ID, "error", err)
	}
}
