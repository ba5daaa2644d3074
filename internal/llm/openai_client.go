// ABOUTME: OpenAI client for embeddings and grounded answer generation
// ABOUTME: Wraps go-openai with retry, backoff, and per-attempt timeouts
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/artisan-market/assistant/internal/util"
)

// Generator streams a grounded answer for a (system, user) prompt pair.
// Fragments arrive in reading order; onDelta is called once per fragment.
type Generator interface {
	StreamChat(ctx context.Context, systemPrompt, userPrompt string, onDelta func(string)) error
}

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// Client wraps the OpenAI API client with retry logic
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

var _ Generator = (*Client)(nil)

// NewClient creates an OpenAI client from the given configuration
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		client:         openai.NewClient(cfg.APIKey),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// EmbedBatch embeds all texts in a single API call, returning one vector per
// input in the same order. Retries the whole batch on failure.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts to embed")
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: expected %d embeddings, got %d", attempt+1, len(texts), len(resp.Data))
			continue
		}

		vectors := make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			vectors[i] = d.Embedding
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("failed to embed %d texts after %d attempts: %w", len(texts), c.maxRetries+1, lastErr)
}

// StreamChat streams a chat completion, invoking onDelta for every text
// fragment in arrival order. Failures before the first fragment are retried;
// a mid-stream failure is returned as-is, since fragments already delivered
// to the caller remain valid.
func (c *Client) StreamChat(ctx context.Context, systemPrompt, userPrompt string, onDelta func(string)) error {
	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.2,
		Stream:      true,
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt)); err != nil {
				return err
			}
		}

		stream, err := c.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		delivered, err := consumeStream(stream, onDelta)
		stream.Close()
		if err == nil {
			return nil
		}
		if delivered {
			return fmt.Errorf("generation stream interrupted: %w", err)
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}

	return fmt.Errorf("failed to start generation after %d attempts: %w", c.maxRetries+1, lastErr)
}

// consumeStream drains the completion stream. It reports whether any
// fragment was delivered before the stream ended or failed.
func consumeStream(stream *openai.ChatCompletionStream, onDelta func(string)) (bool, error) {
	delivered := false
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return delivered, nil
		}
		if err != nil {
			return delivered, err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			delivered = true
			onDelta(delta)
		}
	}
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
