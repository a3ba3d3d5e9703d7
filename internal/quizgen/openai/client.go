// Package openai adapts the OpenAI chat completion API to the quizgen.Client
// contract.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	maxTokens   = 2000
	temperature = 0.7
)

// Client calls the chat completions endpoint with JSON response mode enabled.
type Client struct {
	api   *openai.Client
	model string
}

// New builds a Client for the given API key and model. Model may be empty, in
// which case GPT-4o is used.
func New(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &Client{api: openai.NewClient(apiKey), model: model}, nil
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
