package nvidia

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// NVIDIA NIM exposes an OpenAI-compatible chat completions API,
// so the stock OpenAI client works with a base URL override.
const baseURL = "https://integrate.api.nvidia.com/v1"

type Engine struct {
	APIKey      string
	Model       string
	Temperature float32

	client  *openai.Client
	timeout time.Duration
}

func New(key, model string, temperature float32) *Engine {
	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = baseURL

	return &Engine{
		APIKey:      key,
		Model:       model,
		Temperature: temperature,
		client:      openai.NewClientWithConfig(cfg),
		timeout:     60 * time.Second,
	}
}

func (e *Engine) Name() string { return "nvidia" }

func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) SetModel(m string) { e.Model = m }

func (e *Engine) Complete(ctx context.Context, prompt string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("NVIDIA_API_KEY is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.Model,
		Temperature: e.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("nvidia completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("nvidia completion: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
