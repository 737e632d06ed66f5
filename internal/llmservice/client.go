package llmservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"study-assistant/internal/config"
	"study-assistant/internal/models"
)

var thinkTagRe = regexp.MustCompile(models.ThinkTag)

// NewModel builds the langchaingo model for the configured provider.
func NewModel(ctx context.Context, llmConfig *config.LLMConfig) (llms.Model, error) {
	log.Debug().Interface("llmConfig", llmConfig).Msg("Creating generation model")
	switch llmConfig.Provider {
	case config.ProviderGoogleAI, "":
		return googleai.New(ctx,
			googleai.WithAPIKey(llmConfig.Key),
			googleai.WithDefaultModel(llmConfig.Model),
		)
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		return openai.New(opts...)
	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q", llmConfig.Provider)
	}
}

// Client sends one prompt per call to the generation model. It holds no conversation state.
type Client struct {
	model       llms.Model
	modelName   string
	temperature float64
}

func NewClient(model llms.Model, modelName string, temperature float64) *Client {
	return &Client{
		model:       model,
		modelName:   modelName,
		temperature: clampTemperature(temperature),
	}
}

// NewClientFromConfig builds the provider model and wraps it.
func NewClientFromConfig(ctx context.Context, llmConfig *config.LLMConfig) (*Client, error) {
	model, err := NewModel(ctx, llmConfig)
	if err != nil {
		return nil, &models.GenerationError{Op: "create model", Err: err}
	}
	return NewClient(model, llmConfig.Model, llmConfig.Temperature), nil
}

func (c *Client) Model() string        { return c.modelName }
func (c *Client) Temperature() float64 { return c.temperature }

// Generate returns the completion for prompt. Every failure, including an empty completion,
// is a *models.GenerationError. There is a single attempt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	opts := []llms.CallOption{llms.WithTemperature(c.temperature)}
	if c.modelName != "" {
		opts = append(opts, llms.WithModel(c.modelName))
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, opts...)
	if err != nil {
		return "", &models.GenerationError{Op: "generate", Err: err}
	}

	completion = strings.TrimSpace(thinkTagRe.ReplaceAllString(completion, ""))
	if completion == "" {
		return "", &models.GenerationError{Op: "generate", Err: errors.New("empty completion")}
	}

	log.Debug().
		Str("model", c.modelName).
		Int("prompt_chars", len(prompt)).
		Int("completion_chars", len(completion)).
		Dur("took", time.Since(start)).
		Msg("Generated completion")
	return completion, nil
}

func clampTemperature(t float64) float64 {
	return max(0, min(t, 1))
}
