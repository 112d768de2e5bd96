package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Bab4nI/Jaba/internal/config"
)

const name = "github.com/Bab4nI/Jaba/internal/assistant"

var tracer = otel.Tracer(name)

//go:generate mockgen -destination ./mock/mock.go -package mock . Client

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of an assistant conversation, OpenAI wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client produces a completion for a conversation history.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var ErrNoChoices = errors.New("assistant returned no choices")

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
// Completions are idempotent so transport failures retry, unlike judge
// submissions.
type HTTPClient struct {
	credentials *config.AssistantConfig
	client      *http.Client
}

var _ Client = (*HTTPClient)(nil)

func Create(credentials *config.AssistantConfig) *HTTPClient {
	client := retryablehttp.NewClient()
	client.RetryMax = credentials.MaxRetries
	client.Logger = nil

	return &HTTPClient{
		credentials: credentials,
		client:      client.StandardClient(),
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation, prefixed with the configured system
// prompt, and returns the assistant's reply.
func (c *HTTPClient) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, span := tracer.Start(ctx, "HTTPClient.Complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("model", c.credentials.Model),
		attribute.Int("messages.count", len(messages)),
	)

	if c.credentials.SystemPrompt != "" {
		messages = append(
			[]Message{{Role: RoleSystem, Content: c.credentials.SystemPrompt}},
			messages...,
		)
	}

	body, err := json.Marshal(completionRequest{
		Model:    c.credentials.Model,
		Messages: messages,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal completion request")
		return "", err
	}

	url := c.credentials.URL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.credentials.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.credentials.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach assistant")
		return "", fmt.Errorf("failed to reach assistant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("assistant returned status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "assistant rejected request")
		return "", err
	}

	var parsed completionResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode completion response")
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		span.RecordError(ErrNoChoices)
		span.SetStatus(codes.Error, "assistant returned no choices")
		return "", ErrNoChoices
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "completed")
	return parsed.Choices[0].Message.Content, nil
}
