package config

import "testing"

func TestLoadUsesPipelineDefaults(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("EMBEDDINGS_ENABLED", "")
	t.Setenv("MODEL_TIMEOUT_SECONDS", "")
	t.Setenv("ANALYZE_PREFIX_CHARS", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.ChunkSize != 0 {
		t.Fatalf("expected splitting disabled by default, got chunk size %d", cfg.ChunkSize)
	}
	if cfg.EmbeddingsEnabled {
		t.Fatalf("expected embeddings disabled by default")
	}
	if cfg.ModelTimeoutSeconds != 60 {
		t.Fatalf("expected default model timeout 60, got %d", cfg.ModelTimeoutSeconds)
	}
	if cfg.AnalyzePrefixChars != 4000 {
		t.Fatalf("expected default analyze prefix 4000, got %d", cfg.AnalyzePrefixChars)
	}
	if cfg.NATSSubject != "documents.processed" {
		t.Fatalf("expected default subject documents.processed, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesPipelineOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "900")
	t.Setenv("CHUNK_OVERLAP", "150")
	t.Setenv("EMBEDDINGS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg := Load()
	if cfg.ChunkSize != 900 || cfg.ChunkOverlap != 150 {
		t.Fatalf("expected chunking overrides, got size=%d overlap=%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if !cfg.EmbeddingsEnabled {
		t.Fatalf("expected embeddings enabled")
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("expected max upload 1048576, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadFallsBackOnUnparsableValues(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("EMBEDDINGS_ENABLED", "maybe")
	t.Setenv("RATE_LIMIT_RPS", "fast")

	cfg := Load()
	if cfg.ChunkSize != 0 {
		t.Fatalf("expected fallback chunk size 0, got %d", cfg.ChunkSize)
	}
	if cfg.EmbeddingsEnabled {
		t.Fatalf("expected fallback embeddings disabled")
	}
	if cfg.RateLimitRPS != 10 {
		t.Fatalf("expected fallback rate limit 10, got %v", cfg.RateLimitRPS)
	}
}
