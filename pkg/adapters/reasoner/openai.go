package reasoner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultBaseURL     = "https://api.chatanywhere.tech/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.7
)

// OpenAI implements ports.Reasoner against an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client      openai.Client
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	http        *http.Client
	logger      *slog.Logger
}

// Option configures the OpenAI client.
type Option func(*OpenAI)

// WithBaseURL sets the API root, for example "https://api.openai.com/v1". Empty keeps the default.
func WithBaseURL(u string) Option {
	return func(o *OpenAI) {
		if u != "" {
			o.baseURL = strings.TrimRight(u, "/") + "/"
		}
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(o *OpenAI) {
		o.model = model
	}
}

// WithMaxTokens bounds the response length.
func WithMaxTokens(n int) Option {
	return func(o *OpenAI) {
		o.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *OpenAI) {
		o.temperature = t
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OpenAI) {
		o.http = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *OpenAI) {
		o.logger = logger
	}
}

// NewOpenAI creates a client authenticating with apiKey. An empty key sends no Authorization
// header, for local endpoints that need none.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	o := &OpenAI{
		baseURL:     DefaultBaseURL + "/",
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		http:        http.DefaultClient,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	// Retries are left to the next tick of the agent loop.
	clientOpts := []option.RequestOption{
		option.WithBaseURL(o.baseURL),
		option.WithHTTPClient(o.http),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	} else {
		clientOpts = append(clientOpts, option.WithHeaderDel("authorization"))
	}
	o.client = openai.NewClient(clientOpts...)
	return o
}

// Generate sends history followed by prompt as a user message and returns the first choice.
// Empty content fails with domain.ErrNoResponse.
func (o *OpenAI) Generate(ctx context.Context, prompt string, history []domain.Message) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, message(m))
	}
	messages = append(messages, openai.UserMessage(prompt))

	o.logger.Debug("reasoner request", "model", o.model, "history", len(history))
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(o.temperature),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("reasoner: http %d: %s: %w", apiErr.StatusCode, apiErr.Message, err)
		}
		return "", fmt.Errorf("reasoner request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrNoResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", domain.ErrNoResponse
	}
	return content, nil
}

func message(m domain.Message) openai.ChatCompletionMessageParamUnion {
	switch m.Role {
	case domain.RoleAssistant:
		return openai.AssistantMessage(m.Content)
	case domain.RoleSystem:
		return openai.SystemMessage(m.Content)
	}
	return openai.UserMessage(m.Content)
}
