package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kochimetro/docflow/internal/core/domain"
	"github.com/kochimetro/docflow/internal/core/ports"
)

const (
	defaultAnalyzePrefixChars = 4000

	defaultDepartment = "Unknown"
	defaultCategory   = "Uncategorized"
)

// Analyzer turns normalized text into the fixed metadata schema through a
// single model call plus defensive parsing of the free-form response.
type Analyzer struct {
	generator   ports.TextGenerator
	log         *slog.Logger
	prefixChars int
}

func NewAnalyzer(generator ports.TextGenerator, log *slog.Logger, prefixChars int) *Analyzer {
	if prefixChars <= 0 {
		prefixChars = defaultAnalyzePrefixChars
	}
	return &Analyzer{
		generator:   generator,
		log:         log,
		prefixChars: prefixChars,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, text, filename string) (domain.Analysis, error) {
	raw, err := a.generator.Generate(ctx, buildAnalysisPrompt(prefix(text, a.prefixChars)))
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("generate analysis: %w", err)
	}

	span, ok := extractJSONSpan(raw)
	if !ok {
		a.log.Warn("model output contained no JSON object", "filename", filename, "raw_prefix", prefix(raw, 300))
		return domain.Analysis{}, &domain.AnalysisError{
			RawOutput: raw,
			Err:       errors.New("model output contained no JSON object"),
		}
	}

	var payload struct {
		Summary    domain.Summary `json:"summary"`
		Tags       []string       `json:"tags"`
		Dates      domain.Dates   `json:"dates"`
		Department string         `json:"department"`
		Category   string         `json:"category"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		a.log.Warn("model JSON did not parse", "filename", filename, "error", err)
		return domain.Analysis{}, &domain.AnalysisError{
			RawOutput: raw,
			Err:       fmt.Errorf("parse model JSON: %w", err),
		}
	}

	analysis := domain.Analysis{
		Summary:    payload.Summary,
		Tags:       payload.Tags,
		Dates:      normalizeDates(payload.Dates),
		Department: payload.Department,
		Category:   payload.Category,
	}
	if analysis.Tags == nil {
		analysis.Tags = []string{}
	}
	if strings.TrimSpace(analysis.Department) == "" {
		analysis.Department = defaultDepartment
	}
	if strings.TrimSpace(analysis.Category) == "" {
		analysis.Category = defaultCategory
	}
	return analysis, nil
}

func buildAnalysisPrompt(snippet string) string {
	return `You are a strict JSON generator.
Analyze the document text and return ONLY valid JSON (no explanations, no markdown).
Follow this format exactly:

{
  "summary": {
    "short": "...",
    "long": "..."
  },
  "tags": ["...", "..."],
  "dates": {
    "issued": "YYYY-MM-DD or null",
    "deadline": "YYYY-MM-DD or null",
    "review_date": "YYYY-MM-DD or null"
  },
  "department": "...",
  "category": "..."
}

--- DOCUMENT TEXT ---
` + snippet + `
---
`
}

// extractJSONSpan recovers the first-to-last brace span from free-form model
// output. Models routinely wrap JSON in prose or code fences; the greedy span
// keeps nested objects intact. Isolated here so a strict JSON-mode client can
// replace it later.
func extractJSONSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// normalizeDates clears placeholder values like "null" or "" that models emit
// instead of JSON null.
func normalizeDates(d domain.Dates) domain.Dates {
	d.Issued = cleanDate(d.Issued)
	d.Deadline = cleanDate(d.Deadline)
	d.ReviewDate = cleanDate(d.ReviewDate)
	return d
}

func cleanDate(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}

// prefix bounds text to limit bytes, backing off to a rune boundary so a
// multi-byte character is never cut in half. Only a rune split by the cut
// point is trimmed; invalid bytes deeper in the text (damaged PDF layers, OCR
// residue) stay put, so the bound holds regardless of input quality.
func prefix(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := text[:limit]
	for i := 0; i < utf8.UTFMax-1 && len(cut) > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
