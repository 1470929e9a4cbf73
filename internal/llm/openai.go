package llm

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompat wraps an OpenAI (or OpenAI-compatible, e.g. a
// self-hosted gateway) chat-completions endpoint as a Capability,
// generalized from the teacher's models/openai client wrapper.
type OpenAICompat struct {
	client openai.Client
	model  string
	price  PricePerToken
}

// openAIConfig accumulates options before the client is built, since
// openai.Client is constructed once from a full option list.
type openAIConfig struct {
	apiKey   string
	model    string
	baseURL  string
	price    PricePerToken
}

// OpenAIOption configures an OpenAICompat backend.
type OpenAIOption func(*openAIConfig)

// WithBaseURL points the client at an OpenAI-compatible endpoint
// instead of api.openai.com.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithPrice sets the $/token rate reported by Price.
func WithPrice(p PricePerToken) OpenAIOption {
	return func(c *openAIConfig) { c.price = p }
}

// NewOpenAICompat builds an OpenAI-compatible capability for the given
// model, authenticating with apiKey (may be empty for local gateways
// that don't check it).
func NewOpenAICompat(apiKey, model string, opts ...OpenAIOption) *OpenAICompat {
	cfg := openAIConfig{
		apiKey: apiKey,
		model:  model,
		price:  PricePerToken{Input: 0.00001, Output: 0.00003},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &OpenAICompat{
		client: openai.NewClient(clientOpts...),
		model:  cfg.model,
		price:  cfg.price,
	}
}

func (o *OpenAICompat) Name() string { return "openai" }

func (o *OpenAICompat) Price() PricePerToken { return o.price }

func (o *OpenAICompat) Generate(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	start := time.Now()
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return Response{}, err
	}

	content := ""
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}

	return Response{
		Content:   content,
		TokensIn:  int(completion.Usage.PromptTokens),
		TokensOut: int(completion.Usage.CompletionTokens),
		Provider:  "openai",
		Model:     model,
		Latency:   time.Since(start),
	}, nil
}
