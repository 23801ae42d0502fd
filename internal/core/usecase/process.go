package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kochimetro/docflow/internal/core/domain"
	"github.com/kochimetro/docflow/internal/core/ports"
)

// Pipeline sequences extraction, normalization, analysis and chunk assembly
// for one uploaded document. Each external call is attempted exactly once and
// runs under an explicit deadline; there are no retries here.
type Pipeline struct {
	extractor  ports.TextExtractor
	normalizer *Normalizer
	analyzer   *Analyzer
	splitter   ports.ContentSplitter
	embedder   ports.Embedder
	log        *slog.Logger

	extractTimeout time.Duration
}

func NewPipeline(
	extractor ports.TextExtractor,
	normalizer *Normalizer,
	analyzer *Analyzer,
	splitter ports.ContentSplitter,
	embedder ports.Embedder,
	log *slog.Logger,
	extractTimeout time.Duration,
) *Pipeline {
	if extractTimeout <= 0 {
		extractTimeout = 30 * time.Second
	}
	return &Pipeline{
		extractor:      extractor,
		normalizer:     normalizer,
		analyzer:       analyzer,
		splitter:       splitter,
		embedder:       embedder,
		log:            log,
		extractTimeout: extractTimeout,
	}
}

// Process walks Uploaded -> Extracting -> Normalizing -> Analyzing ->
// Persisted, with Failed terminal from any stage. Returns the chunk sequence
// (length one unless a splitter is configured) or the stage-kinded error.
func (p *Pipeline) Process(ctx context.Context, sourceDocID string, data []byte, filename string) ([]domain.ProcessedChunk, error) {
	text, err := p.extract(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	text = p.normalizer.Normalize(ctx, text)

	analysis, err := p.analyzer.Analyze(ctx, text, filename)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	return p.assembleChunks(ctx, sourceDocID, filename, text, analysis), nil
}

func (p *Pipeline) extract(ctx context.Context, data []byte, filename string) (string, error) {
	extractCtx, cancel := context.WithTimeout(ctx, p.extractTimeout)
	defer cancel()

	text, err := p.extractor.Extract(extractCtx, data, filename)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.WrapError(domain.ErrExtractionTimeout, "extract text", err)
		}
		return "", fmt.Errorf("extract text: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.WrapError(domain.ErrNoExtractableText, "extract text", errors.New("extraction produced empty text"))
	}
	return text, nil
}

func (p *Pipeline) assembleChunks(ctx context.Context, sourceDocID, filename, text string, analysis domain.Analysis) []domain.ProcessedChunk {
	parts := []string{text}
	if p.splitter != nil {
		if split := p.splitter.Split(text); len(split) > 0 {
			parts = split
		}
	}

	now := time.Now().UTC()
	chunks := make([]domain.ProcessedChunk, 0, len(parts))
	for _, part := range parts {
		chunk := domain.ProcessedChunk{
			ID:          uuid.NewString(),
			SourceDocID: sourceDocID,
			Filename:    filename,
			Content:     part,
			Summary:     analysis.Summary,
			Tags:        analysis.Tags,
			Dates:       analysis.Dates,
			Department:  analysis.Department,
			Category:    analysis.Category,
			CreatedAt:   now,
		}
		if p.embedder != nil {
			vector, err := p.embedder.EmbedText(ctx, part)
			if err != nil {
				p.log.Warn("embedding failed, storing chunk without vector", "doc_id", sourceDocID, "error", err)
			} else {
				chunk.Embedding = vector
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
