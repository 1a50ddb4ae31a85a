// Package openai wraps the hosted chat-completion API behind the engine's
// Completer contract.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

type Client struct {
	client openaigo.Client
	cfg    Config
}

func NewClient(apiKey string, cfg Config, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{
		client: openaigo.NewClient(opts...),
		cfg:    cfg,
	}
}

// Complete sends the composed system prompt and the raw user message to the
// model and returns the reply text verbatim. The call is bounded by the
// configured timeout; callers classify any returned error themselves.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: shared.ChatModel(c.cfg.Model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(systemPrompt),
			openaigo.UserMessage(userMessage),
		},
		Temperature: openaigo.Float(c.cfg.Temperature),
		MaxTokens:   openaigo.Int(c.cfg.MaxTokens),
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", c.cfg.Model)
	}

	slog.Info("Model call succeeded",
		"model", c.cfg.Model,
		"duration", time.Since(start),
		"total_tokens", resp.Usage.TotalTokens)

	return resp.Choices[0].Message.Content, nil
}
