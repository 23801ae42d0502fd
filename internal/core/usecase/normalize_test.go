package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type detectorFake struct {
	lang     string
	reliable bool
	seen     string
}

func (f *detectorFake) Detect(text string) (string, bool) {
	f.seen = text
	return f.lang, f.reliable
}

func TestNormalizeEnglishIsIdentity(t *testing.T) {
	gen := &generatorFake{response: "should never be called"}
	n := NewNormalizer(&detectorFake{lang: "eng", reliable: true}, gen, testLogger(), 0, 0)

	input := "This circular announces the new safety drill schedule."
	out := n.Normalize(context.Background(), input)
	if out != input {
		t.Fatalf("expected identical string, got %q", out)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected no model call for English text")
	}
}

func TestNormalizeFailsOpenOnUnreliableDetection(t *testing.T) {
	gen := &generatorFake{response: "unused"}
	n := NewNormalizer(&detectorFake{reliable: false}, gen, testLogger(), 0, 0)

	input := "???"
	if out := n.Normalize(context.Background(), input); out != input {
		t.Fatalf("expected passthrough, got %q", out)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected no model call when detection is unreliable")
	}
}

func TestNormalizeTranslatesNonEnglish(t *testing.T) {
	gen := &generatorFake{response: "  Translated English text.  "}
	n := NewNormalizer(&detectorFake{lang: "mal", reliable: true}, gen, testLogger(), 0, 0)

	out := n.Normalize(context.Background(), "some malayalam text")
	if out != "Translated English text." {
		t.Fatalf("expected trimmed translation, got %q", out)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one translation call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "professional, clear English") {
		t.Fatalf("unexpected translation prompt: %q", gen.prompts[0])
	}
}

func TestNormalizeFallsBackWhenTranslationFails(t *testing.T) {
	gen := &generatorFake{err: errors.New("model down")}
	n := NewNormalizer(&detectorFake{lang: "hin", reliable: true}, gen, testLogger(), 0, 0)

	input := "original non-english text"
	if out := n.Normalize(context.Background(), input); out != input {
		t.Fatalf("expected original text on translation failure, got %q", out)
	}
}

func TestNormalizeBoundsDetectionPrefix(t *testing.T) {
	det := &detectorFake{lang: "eng", reliable: true}
	n := NewNormalizer(det, &generatorFake{}, testLogger(), 50, 0)

	n.Normalize(context.Background(), strings.Repeat("x", 1000))
	if len(det.seen) != 50 {
		t.Fatalf("expected detection on 50-char prefix, got %d", len(det.seen))
	}
}
