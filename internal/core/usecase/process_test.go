package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kochimetro/docflow/internal/core/domain"
	"github.com/kochimetro/docflow/internal/core/ports"
)

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, []byte, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type splitterFake struct {
	parts []string
}

func (f *splitterFake) Split(string) []string { return f.parts }

type embedderFake struct {
	vector []float32
	err    error
	calls  int
}

func (f *embedderFake) EmbedText(context.Context, string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func newTestPipeline(extractor *extractorFake, gen *generatorFake, embedder ports.Embedder) *Pipeline {
	log := testLogger()
	normalizer := NewNormalizer(&detectorFake{lang: "eng", reliable: true}, gen, log, 0, 0)
	analyzer := NewAnalyzer(gen, log, 0)
	return NewPipeline(extractor, normalizer, analyzer, nil, embedder, log, 0)
}

func TestProcessProducesSingleChunk(t *testing.T) {
	gen := &generatorFake{
		response: `{"summary":{"short":"s","long":"l"},"tags":["safety"],"dates":{"issued":"2025-09-29"},"department":"Operations","category":"Circular"}`,
	}
	p := newTestPipeline(&extractorFake{text: "  extracted circular text  "}, gen, nil)

	chunks, err := p.Process(context.Background(), "doc-1", []byte("%PDF"), "circular.pdf")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected exactly one chunk, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.SourceDocID != "doc-1" {
		t.Fatalf("expected source doc id doc-1, got %s", chunk.SourceDocID)
	}
	if chunk.Filename != "circular.pdf" {
		t.Fatalf("expected inherited filename, got %s", chunk.Filename)
	}
	if chunk.Content != "extracted circular text" {
		t.Fatalf("expected trimmed extracted text as content, got %q", chunk.Content)
	}
	if chunk.Department != "Operations" || chunk.Category != "Circular" {
		t.Fatalf("unexpected analysis fields: %q/%q", chunk.Department, chunk.Category)
	}
	if chunk.Dates.Issued == nil || *chunk.Dates.Issued != "2025-09-29" {
		t.Fatalf("expected issued date, got %#v", chunk.Dates.Issued)
	}
	if chunk.ID == "" {
		t.Fatalf("expected chunk id")
	}
}

func TestProcessFailsOnEmptyExtraction(t *testing.T) {
	gen := &generatorFake{response: "unused"}
	p := newTestPipeline(&extractorFake{text: "   "}, gen, nil)

	chunks, err := p.Process(context.Background(), "doc-1", []byte("img"), "scan.png")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNoExtractableText) {
		t.Fatalf("expected ErrNoExtractableText, got %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected zero chunks, got %d", len(chunks))
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected no model calls after failed extraction")
	}
}

func TestProcessPropagatesUnsupportedKind(t *testing.T) {
	kindErr := domain.WrapError(domain.ErrUnsupportedFileKind, "select extractor", errors.New(".docx"))
	p := newTestPipeline(&extractorFake{err: kindErr}, &generatorFake{}, nil)

	_, err := p.Process(context.Background(), "doc-1", []byte("zip"), "report.docx")
	if !domain.IsKind(err, domain.ErrUnsupportedFileKind) {
		t.Fatalf("expected ErrUnsupportedFileKind, got %v", err)
	}
}

func TestProcessPropagatesAnalysisFailure(t *testing.T) {
	gen := &generatorFake{response: "no json at all"}
	p := newTestPipeline(&extractorFake{text: "some text"}, gen, nil)

	chunks, err := p.Process(context.Background(), "doc-1", []byte("%PDF"), "a.pdf")
	if !domain.IsKind(err, domain.ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected zero chunks, got %d", len(chunks))
	}
}

func TestProcessSplitsContentWhenConfigured(t *testing.T) {
	gen := &generatorFake{response: `{"department":"Ops"}`}
	log := testLogger()
	normalizer := NewNormalizer(&detectorFake{lang: "eng", reliable: true}, gen, log, 0, 0)
	analyzer := NewAnalyzer(gen, log, 0)
	p := NewPipeline(
		&extractorFake{text: "part one and part two"},
		normalizer,
		analyzer,
		&splitterFake{parts: []string{"part one", "part two"}},
		nil,
		log,
		0,
	)

	chunks, err := p.Process(context.Background(), "doc-1", []byte("%PDF"), "a.pdf")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected two chunks, got %d", len(chunks))
	}
	if chunks[0].Department != chunks[1].Department {
		t.Fatalf("expected shared analysis metadata across chunks")
	}
}

func TestProcessEmbedsChunksWhenEnabled(t *testing.T) {
	gen := &generatorFake{response: `{"department":"Ops"}`}
	embedder := &embedderFake{vector: []float32{0.1, 0.2}}
	p := newTestPipeline(&extractorFake{text: "text"}, gen, embedder)

	chunks, err := p.Process(context.Background(), "doc-1", []byte("%PDF"), "a.pdf")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if embedder.calls != 1 {
		t.Fatalf("expected one embed call, got %d", embedder.calls)
	}
	if len(chunks[0].Embedding) != 2 {
		t.Fatalf("expected embedding on chunk, got %#v", chunks[0].Embedding)
	}
}

func TestProcessToleratesEmbeddingFailure(t *testing.T) {
	gen := &generatorFake{response: `{"department":"Ops"}`}
	embedder := &embedderFake{err: errors.New("embed down")}
	p := newTestPipeline(&extractorFake{text: "text"}, gen, embedder)

	chunks, err := p.Process(context.Background(), "doc-1", []byte("%PDF"), "a.pdf")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if chunks[0].Embedding != nil {
		t.Fatalf("expected no embedding on failure")
	}
}
