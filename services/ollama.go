package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"apex-titan/observability"
)

// OllamaService streams chat completions from a local Ollama daemon. It is
// the default AdvisorService and needs no credentials.
type OllamaService struct {
	host       string
	model      string
	httpClient *http.Client
}

// NewOllamaService creates a new OllamaService instance
func NewOllamaService(host, model string) *OllamaService {
	return &OllamaService{
		host:  host,
		model: model,
		// no overall timeout, streams can run for minutes
		httpClient: &http.Client{},
	}
}

// Name returns the advisor identifier used in logs and metrics
func (s *OllamaService) Name() string {
	return "ollama"
}

// Ping checks that the daemon is reachable
func (s *OllamaService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", s.host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatChunk struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error"`
}

// StreamChat sends the prompt and invokes emit for each content fragment as
// it arrives. Returns the first error from the transport or from emit.
func (s *OllamaService) StreamChat(ctx context.Context, prompt string, emit func(chunk string) error) error {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerOllama, "chat")
	timer := metrics.NewTimer()

	_, err := WithCircuitBreaker(ctx, BreakerOllama, func() (struct{}, error) {
		return struct{}{}, s.streamChat(ctx, prompt, emit)
	})

	timer.ObserveExternalAPI(BreakerOllama, "chat")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerOllama, "chat", categorizeAPIError(err))
	}
	return err
}

func (s *OllamaService) streamChat(ctx context.Context, prompt string, emit func(chunk string) error) error {
	payload, err := json.Marshal(ollamaChatRequest{
		Model:    s.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk ollamaChatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("failed to decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama error: %s", chunk.Error)
		}
		if chunk.Message.Content != "" {
			if err := emit(chunk.Message.Content); err != nil {
				return err
			}
		}
		if chunk.Done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream interrupted: %w", err)
	}
	return nil
}
