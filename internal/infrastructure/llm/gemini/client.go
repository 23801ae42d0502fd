package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kochimetro/docflow/internal/core/domain"
	"github.com/kochimetro/docflow/internal/infrastructure/resilience"
)

type Config struct {
	APIKey      string
	GenModel    string
	EmbedModel  string
	CallTimeout time.Duration
	Executor    *resilience.Executor
}

// Client adapts the Gemini API to the TextGenerator and Embedder ports. Each
// call runs once under an explicit deadline; a tripped deadline surfaces as
// the model-timeout error kind.
type Client struct {
	client   *genai.Client
	gen      *genai.GenerativeModel
	embed    *genai.EmbeddingModel
	timeout  time.Duration
	executor *resilience.Executor
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	gen := client.GenerativeModel(cfg.GenModel)
	gen.SetTemperature(0.2)

	return &Client{
		client:   client,
		gen:      gen,
		embed:    client.EmbeddingModel(cfg.EmbedModel),
		timeout:  cfg.CallTimeout,
		executor: cfg.Executor,
	}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := c.execute(ctx, "gemini.generate", func(callCtx context.Context) error {
		resp, err := c.gen.GenerateContent(callCtx, genai.Text(prompt))
		if err != nil {
			return fmt.Errorf("gemini generate: %w", err)
		}
		out = joinTextParts(resp)
		if out == "" {
			return errors.New("gemini returned no text candidates")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty text for embedding")
	}

	var vector []float32
	err := c.execute(ctx, "gemini.embed", func(callCtx context.Context) error {
		resp, err := c.embed.EmbedContent(callCtx, genai.Text(text))
		if err != nil {
			return fmt.Errorf("gemini embed: %w", err)
		}
		if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			return errors.New("gemini returned no embedding values")
		}
		vector = resp.Embedding.Values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var err error
	if c.executor != nil {
		err = c.executor.Execute(callCtx, operation, fn, classifyGeminiError)
	} else {
		err = fn(callCtx)
	}

	// Distinguish the per-call deadline from caller cancellation.
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return domain.WrapError(domain.ErrModelTimeout, operation, err)
	}
	return err
}

func joinTextParts(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func classifyGeminiError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	// Caller cancellation says nothing about Gemini's health.
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{RecordFailure: false}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}
