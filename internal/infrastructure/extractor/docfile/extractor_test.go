package docfile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/kochimetro/docflow/internal/core/domain"
)

func newTestExtractor(pdfFn, ocrFn func([]byte) (string, error)) *Extractor {
	e := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if pdfFn != nil {
		e.pdfText = pdfFn
	}
	if ocrFn != nil {
		e.ocrText = ocrFn
	}
	return e
}

func TestExtractRoutesPDFByExtension(t *testing.T) {
	var gotPDF []byte
	e := newTestExtractor(
		func(data []byte) (string, error) {
			gotPDF = data
			return "  pdf text  ", nil
		},
		func([]byte) (string, error) {
			t.Fatalf("ocr engine must not run for pdf")
			return "", nil
		},
	)

	text, err := e.Extract(context.Background(), []byte("%PDF"), "Circular.PDF")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "pdf text" {
		t.Fatalf("expected trimmed pdf text, got %q", text)
	}
	if string(gotPDF) != "%PDF" {
		t.Fatalf("pdf engine got wrong bytes")
	}
}

func TestExtractRoutesImagesToOCR(t *testing.T) {
	for _, name := range []string{"scan.png", "scan.jpg", "scan.JPEG", "scan.tiff"} {
		called := false
		e := newTestExtractor(nil, func([]byte) (string, error) {
			called = true
			return "ocr text", nil
		})
		if _, err := e.Extract(context.Background(), []byte("img"), name); err != nil {
			t.Fatalf("Extract(%s) error = %v", name, err)
		}
		if !called {
			t.Fatalf("expected ocr engine for %s", name)
		}
	}
}

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	e := newTestExtractor(nil, nil)

	text, err := e.Extract(context.Background(), []byte("zip"), "report.docx")
	if !domain.IsKind(err, domain.ErrUnsupportedFileKind) {
		t.Fatalf("expected ErrUnsupportedFileKind, got %v", err)
	}
	if text != "" {
		t.Fatalf("expected no partial output, got %q", text)
	}
}

func TestExtractDegradesEngineFailureToEmptyText(t *testing.T) {
	e := newTestExtractor(func([]byte) (string, error) {
		return "", errors.New("corrupt xref table")
	}, nil)

	text, err := e.Extract(context.Background(), []byte("bad"), "broken.pdf")
	if err != nil {
		t.Fatalf("engine failure must not surface as error, got %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractHonorsCancelledContext(t *testing.T) {
	e := newTestExtractor(func([]byte) (string, error) { return "text", nil }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Extract(ctx, []byte("%PDF"), "a.pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
