// Package generation provides a text generation client backed by an
// OpenAI-compatible chat completions endpoint.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 60 * time.Second

var ErrEmptyCompletion = errors.New("generation returned no choices")

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls a chat completions API to generate text for task nodes.
type Client struct {
	http   *resty.Client
	model  string
	logger *slog.Logger
}

func NewClient(baseURL, apiKey, model string, logger *slog.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	if apiKey != "" {
		http.SetAuthToken(apiKey)
	}

	return &Client{
		http:   http,
		model:  model,
		logger: logger,
	}
}

func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	var response chatResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		SetError(&response).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	if resp.IsError() {
		if response.Error != nil {
			return "", fmt.Errorf("generation API error (%d): %s", resp.StatusCode(), response.Error.Message)
		}

		return "", fmt.Errorf("generation API error (%d)", resp.StatusCode())
	}

	if len(response.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	c.logger.DebugContext(ctx, "Generated completion", "model", c.model)

	return response.Choices[0].Message.Content, nil
}
