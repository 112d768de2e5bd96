package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ensure HTTPClient implements Client interface.
var _ Client = (*HTTPClient)(nil)

// HTTPClient is the production judge client. It deliberately does not retry:
// a failed submit must surface immediately, and polling cadence is owned by
// the caller.
type HTTPClient struct {
	client     *http.Client
	baseURL    string
	authHeader string
	authToken  string
}

func NewHTTPClient(client *http.Client, baseURL, authHeader, authToken string) *HTTPClient {
	return &HTTPClient{
		client:     client,
		baseURL:    baseURL,
		authHeader: authHeader,
		authToken:  authToken,
	}
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	if c.authHeader != "" {
		req.Header.Set(c.authHeader, c.authToken)
	}

	return c.client.Do(req)
}

func (c *HTTPClient) Submit(ctx context.Context, sub Submission) (string, error) {
	ctx, span := tracer.Start(ctx, "HTTPClient.Submit", trace.WithAttributes(
		attribute.Int("language.id", sub.LanguageID),
	))
	defer span.End()

	body, err := json.Marshal(sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal submission")
		return "", err
	}

	url := c.baseURL + "/submissions?base64_encoded=false&wait=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach judge")
		return "", fmt.Errorf("failed to reach judge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = StatusError{Code: resp.StatusCode}
		span.RecordError(err)
		span.SetStatus(codes.Error, "judge rejected submission")
		return "", err
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode submit response")
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}

	if parsed.Token == "" {
		span.RecordError(ErrMissingToken)
		span.SetStatus(codes.Error, "judge returned no token")
		return "", ErrMissingToken
	}

	span.SetAttributes(attribute.String("submission.token", parsed.Token))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "submitted")
	return parsed.Token, nil
}

func (c *HTTPClient) Result(ctx context.Context, token string) (*RawResult, error) {
	ctx, span := tracer.Start(ctx, "HTTPClient.Result", trace.WithAttributes(
		attribute.String("submission.token", token),
	))
	defer span.End()

	url := c.baseURL + "/submissions/" + token + "?base64_encoded=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach judge")
		return nil, fmt.Errorf("failed to reach judge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = StatusError{Code: resp.StatusCode}
		span.RecordError(err)
		span.SetStatus(codes.Error, "judge rejected result request")
		return nil, err
	}

	var raw RawResult
	if err = json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode result response")
		return nil, fmt.Errorf("failed to decode result response: %w", err)
	}

	span.SetAttributes(
		attribute.Int("status.id", raw.Status.ID),
		attribute.Bool("status.terminal", raw.Status.Terminal()),
	)
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched result")
	return &raw, nil
}
