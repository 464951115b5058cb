package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	"github.com/bryanwahyu/visual-qc/internal/infra/ai/prompt"
	"github.com/bryanwahyu/visual-qc/internal/infra/ai/retry"
)

const defaultMaxTokens = 4096

// Client is the vision gateway. Each Analyze issues one chat completion per
// attempt, wrapped in the bounded retry policy.
type Client struct {
	*openai.Client
	Model     string
	MaxTokens int
	Retry     retry.Policy
}

func NewClient(apiKey, model string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		Client:    openai.NewClient(apiKey),
		Model:     model,
		MaxTokens: maxTokens,
		Retry:     retry.Default(),
	}
}

// Analyze submits the image plus rule constraints and returns the raw JSON text.
func (c *Client) Analyze(ctx context.Context, image aicheck.ImageRef, rules []aicheck.Rule) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o"
	}

	imageURL := image.URL
	if imageURL == "" {
		imageURL = fmt.Sprintf("data:%s;base64,%s", image.MimeType, image.Base64)
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt(rules)},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetUserPrompt()},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = c.MaxTokens
	} else {
		req.MaxTokens = c.MaxTokens
	}

	var raw string
	err := c.Retry.Do(ctx, func(ctx context.Context) error {
		resp, err := c.CreateChatCompletion(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create chat completion: %w", classify(err))
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("chat completion returned no choices")
		}
		raw = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

// classify maps provider 429s onto the domain quota sentinel.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return fmt.Errorf("%w: %v", aicheck.ErrQuotaExceeded, err)
	}
	return err
}
