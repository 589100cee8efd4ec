package services

import (
	"context"
	"fmt"

	appconfig "apex-titan/config"
	"apex-titan/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/openai/openai-go/shared"
)

// openaiClient defines the interface for OpenAI API calls (for testing)
type openaiClient interface {
	StreamChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) *ssestream.Stream[openai.ChatCompletionChunk]
	ListModels(ctx context.Context) error
}

// openaiClientWrapper wraps the openai.Client to implement our interface
type openaiClientWrapper struct {
	client openai.Client
}

func (w *openaiClientWrapper) StreamChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) *ssestream.Stream[openai.ChatCompletionChunk] {
	return w.client.Chat.Completions.NewStreaming(ctx, params)
}

func (w *openaiClientWrapper) ListModels(ctx context.Context) error {
	_, err := w.client.Models.List(ctx)
	return err
}

// OpenAIService is an AdvisorService backed by the OpenAI chat API
type OpenAIService struct {
	client    openaiClient
	model     string
	maxTokens int
}

// NewOpenAIService creates a new OpenAIService instance
func NewOpenAIService(cfg *appconfig.Config) (*OpenAIService, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))

	return &OpenAIService{
		client:    &openaiClientWrapper{client: client},
		model:     cfg.OpenAI.Model,
		maxTokens: cfg.OpenAI.MaxTokens,
	}, nil
}

// newOpenAIServiceWithClient creates an OpenAIService with a custom client (for testing)
func newOpenAIServiceWithClient(client openaiClient, model string, maxTokens int) *OpenAIService {
	return &OpenAIService{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns the advisor identifier used in logs and metrics
func (s *OpenAIService) Name() string {
	return "openai"
}

// Ping verifies the API key by listing available models
func (s *OpenAIService) Ping(ctx context.Context) error {
	if err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai unreachable: %w", err)
	}
	return nil
}

// StreamChat sends the prompt and invokes emit for each content fragment as
// it arrives. Returns the first error from the transport or from emit.
func (s *OpenAIService) StreamChat(ctx context.Context, prompt string, emit func(chunk string) error) error {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerOpenAI, "chat")
	timer := metrics.NewTimer()

	_, err := WithCircuitBreaker(ctx, BreakerOpenAI, func() (struct{}, error) {
		params := openai.ChatCompletionNewParams{
			Model:     shared.ChatModel(s.model),
			MaxTokens: openai.Int(int64(s.maxTokens)),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		}

		stream := s.client.StreamChatCompletion(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			if err := emit(delta); err != nil {
				return struct{}{}, err
			}
		}
		if err := stream.Err(); err != nil {
			return struct{}{}, fmt.Errorf("failed to stream from OpenAI: %w", err)
		}
		return struct{}{}, nil
	})

	timer.ObserveExternalAPI(BreakerOpenAI, "chat")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerOpenAI, "chat", categorizeAPIError(err))
	}
	return err
}
