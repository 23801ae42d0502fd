package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kochimetro/docflow/internal/core/ports"
)

const (
	defaultDetectPrefixChars    = 500
	defaultTranslatePrefixChars = 2000

	englishISO = "eng"
)

// Normalizer guarantees downstream stages see English text. Detection runs on
// a bounded prefix; an unreliable result fails open and keeps the text as-is,
// so re-running on English text is a no-op.
type Normalizer struct {
	detector       ports.LanguageDetector
	generator      ports.TextGenerator
	log            *slog.Logger
	detectChars    int
	translateChars int
}

func NewNormalizer(detector ports.LanguageDetector, generator ports.TextGenerator, log *slog.Logger, detectChars, translateChars int) *Normalizer {
	if detectChars <= 0 {
		detectChars = defaultDetectPrefixChars
	}
	if translateChars <= 0 {
		translateChars = defaultTranslatePrefixChars
	}
	return &Normalizer{
		detector:       detector,
		generator:      generator,
		log:            log,
		detectChars:    detectChars,
		translateChars: translateChars,
	}
}

// Normalize never fails the pipeline: undetectable language and translation
// errors both fall back to the original text.
func (n *Normalizer) Normalize(ctx context.Context, text string) string {
	lang, reliable := n.detector.Detect(prefix(text, n.detectChars))
	if !reliable {
		n.log.Debug("language undetectable, assuming English")
		return text
	}
	if lang == englishISO {
		return text
	}

	n.log.Info("non-English text detected, translating", "lang", lang)
	translated, err := n.generator.Generate(ctx, buildTranslationPrompt(prefix(text, n.translateChars)))
	if err != nil {
		n.log.Warn("translation failed, keeping original text", "lang", lang, "error", err)
		return text
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		n.log.Warn("translation returned empty output, keeping original text", "lang", lang)
		return text
	}
	return translated
}

func buildTranslationPrompt(snippet string) string {
	return "Translate the following document text into professional, clear English:\n\n---\n" + snippet + "\n---"
}
