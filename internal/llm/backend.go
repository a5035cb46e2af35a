package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/merge-warden/internal/config"
)

// TextGenerator is a model that turns a prompt into free text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Backend is one candidate in the ordered backend list.
type Backend struct {
	Name      string
	Provider  string
	Generator TextGenerator
}

type modelGenerator struct {
	model llms.Model
}

// NewModelGenerator adapts a goframe model.
func NewModelGenerator(model llms.Model) TextGenerator {
	return &modelGenerator{model: model}
}

func (g *modelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.model.Call(ctx, prompt)
}

// NewBackends builds the configured backends in priority order. A backend that
// cannot be constructed is skipped with a warning; the adapter still works
// with none through its fallback scorer.
func NewBackends(ctx context.Context, cfg config.AIConfig, httpClient *http.Client, logger *slog.Logger) []Backend {
	backends := make([]Backend, 0, len(cfg.Backends))
	for _, bc := range cfg.Backends {
		model, err := newModel(ctx, cfg, bc, httpClient, logger)
		if err != nil {
			logger.Warn("skipping AI backend", "provider", bc.Provider, "model", bc.Model, "error", err)
			continue
		}
		backends = append(backends, Backend{
			Name:      bc.Provider + "/" + bc.Model,
			Provider:  bc.Provider,
			Generator: NewModelGenerator(model),
		})
	}
	return backends
}

func newModel(ctx context.Context, cfg config.AIConfig, bc config.BackendConfig, httpClient *http.Client, logger *slog.Logger) (llms.Model, error) {
	switch bc.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini api key is not set")
		}
		return gemini.New(ctx, gemini.WithModel(bc.Model), gemini.WithAPIKey(cfg.GeminiAPIKey))
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithHTTPClient(httpClient),
			ollama.WithModel(bc.Model),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported provider %q", bc.Provider)
	}
}
