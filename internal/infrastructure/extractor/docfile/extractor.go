package docfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/kochimetro/docflow/internal/core/domain"
)

// Extractor selects a text engine from the filename extension. Engine
// failures degrade to an empty result with a logged diagnostic; only an
// unrecognized extension is an error, so the orchestrator can distinguish
// "wrong kind of file" from "nothing readable inside it".
type Extractor struct {
	log     *slog.Logger
	pdfText func(data []byte) (string, error)
	ocrText func(data []byte) (string, error)
}

func New(log *slog.Logger) *Extractor {
	return &Extractor{
		log:     log,
		pdfText: pdfText,
		ocrText: ocrText,
	}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var text string
	var err error
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		text, err = e.pdfText(data)
	case ".png", ".jpg", ".jpeg", ".tiff":
		text, err = e.ocrText(data)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFileKind, "select extractor", fmt.Errorf("extension %q", ext))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		e.log.Warn("text extraction failed", "filename", filename, "error", err)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}
