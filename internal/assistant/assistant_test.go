package assistant_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bab4nI/Jaba/internal/assistant"
	"github.com/Bab4nI/Jaba/internal/config"
)

func testConfig(url string) *config.AssistantConfig {
	return &config.AssistantConfig{
		URL:          url,
		APIKey:       "sk-test",
		Model:        "deepseek-chat",
		SystemPrompt: "You are a programming tutor.",
		MaxRetries:   3,
	}
}

func TestCompletePrependsSystemPrompt(t *testing.T) {
	var gotBody struct {
		Model    string              `json:"model"`
		Messages []assistant.Message `json:"messages"`
	}
	var gotAuth string

	e := echo.New()
	e.POST("/chat/completions", func(c echo.Context) error {
		gotAuth = c.Request().Header.Get("Authorization")
		if err := json.NewDecoder(c.Request().Body).Decode(&gotBody); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"choices": []map[string]any{
				{"message": assistant.Message{Role: assistant.RoleAssistant, Content: "try a for loop"}},
			},
		})
	})

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	client := assistant.Create(testConfig(server.URL))

	reply, err := client.Complete(t.Context(), []assistant.Message{
		{Role: assistant.RoleUser, Content: "how do I iterate a slice?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "try a for loop", reply)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "deepseek-chat", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, assistant.RoleSystem, gotBody.Messages[0].Role)
	assert.Equal(t, "You are a programming tutor.", gotBody.Messages[0].Content)
	assert.Equal(t, assistant.RoleUser, gotBody.Messages[1].Role)
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64

	e := echo.New()
	e.POST("/chat/completions", func(c echo.Context) error {
		if calls.Add(1) < 3 {
			return c.NoContent(http.StatusBadGateway)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"choices": []map[string]any{
				{"message": assistant.Message{Role: assistant.RoleAssistant, Content: "ok"}},
			},
		})
	})

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	client := assistant.Create(testConfig(server.URL))

	reply, err := client.Complete(t.Context(), []assistant.Message{
		{Role: assistant.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, int64(3), calls.Load())
}

func TestCompleteNoChoices(t *testing.T) {
	e := echo.New()
	e.POST("/chat/completions", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"choices": []any{}})
	})

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	client := assistant.Create(testConfig(server.URL))

	_, err := client.Complete(t.Context(), []assistant.Message{
		{Role: assistant.RoleUser, Content: "hello"},
	})
	require.ErrorIs(t, err, assistant.ErrNoChoices)
}
