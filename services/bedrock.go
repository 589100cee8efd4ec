package services

import (
	"context"
	"encoding/json"
	"fmt"

	"apex-titan/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// BedrockService is an AdvisorService backed by Claude models on AWS Bedrock
type BedrockService struct {
	client    *bedrockruntime.Client
	awsConfig aws.Config
	model     string
	maxTokens int
}

// claudeRequest is the request format for Claude models via Bedrock
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeStreamEvent is a single decoded event from the response stream
type claudeStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// NewBedrockService creates a new BedrockService instance
func NewBedrockService(ctx context.Context, region, modelID string, maxTokens int) (*BedrockService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &BedrockService{
		client:    bedrockruntime.NewFromConfig(cfg),
		awsConfig: cfg,
		model:     modelID,
		maxTokens: maxTokens,
	}, nil
}

// Name returns the advisor identifier used in logs and metrics
func (s *BedrockService) Name() string {
	return "bedrock"
}

// Ping verifies that AWS credentials can be resolved
func (s *BedrockService) Ping(ctx context.Context) error {
	if _, err := s.awsConfig.Credentials.Retrieve(ctx); err != nil {
		return fmt.Errorf("unable to resolve AWS credentials: %w", err)
	}
	return nil
}

// StreamChat sends the prompt and invokes emit for each text delta as it
// arrives. Returns the first error from the transport or from emit.
func (s *BedrockService) StreamChat(ctx context.Context, prompt string, emit func(chunk string) error) error {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerBedrock, "chat")
	timer := metrics.NewTimer()

	_, err := WithCircuitBreaker(ctx, BreakerBedrock, func() (struct{}, error) {
		return struct{}{}, s.streamChat(ctx, prompt, emit)
	})

	timer.ObserveExternalAPI(BreakerBedrock, "chat")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerBedrock, "chat", categorizeAPIError(err))
	}
	return err
}

func (s *BedrockService) streamChat(ctx context.Context, prompt string, emit func(chunk string) error) error {
	reqBody, err := json.Marshal(claudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        s.maxTokens,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := s.client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(s.model),
		Body:        reqBody,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to invoke model: %w", err)
	}

	stream := output.GetStream()
	defer stream.Close()

	for event := range stream.Events() {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}

		var decoded claudeStreamEvent
		if err := json.Unmarshal(chunk.Value.Bytes, &decoded); err != nil {
			return fmt.Errorf("failed to decode stream event: %w", err)
		}
		if decoded.Type == "content_block_delta" && decoded.Delta.Text != "" {
			if err := emit(decoded.Delta.Text); err != nil {
				return err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("stream interrupted: %w", err)
	}
	return nil
}
