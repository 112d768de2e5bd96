package audit

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bab4nI/Jaba/internal/types"
)

func ptr[T any](v T) *T {
	return &v
}

func captureStdout(fn func()) (string, error) {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	os.Stdout = w

	fn()

	if err := w.Close(); err != nil {
		return "", err
	}
	os.Stdout = orig

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, r); err != nil {
		return "", err
	}

	if err := r.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func TestLogExecutionResultAccepted(t *testing.T) {
	ctx := Context{
		UserID:    ptr("user"),
		ContentID: ptr("content"),
	}
	got, err := captureStdout(func() {
		LogExecutionResult(ctx, 71, types.StatusAccepted, false)
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`{"event":{"language_id":71,"status_id":3,"cached":false},"user_id":"user","content_id":"content","log_context":"audit","version":"\d\.\d\.\d","disposition":"good","event_type":"execution_result","timestamp":\d+}`,
	)
	assert.Regexp(t, expect, got)
}

func TestLogExecutionResultRejected(t *testing.T) {
	ctx := Context{
		UserID: ptr("user"),
	}
	got, err := captureStdout(func() {
		LogExecutionResult(ctx, 60, types.StatusWrongAnswer, true)
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`{"event":{"language_id":60,"status_id":4,"cached":true},"user_id":"user","content_id":null,"log_context":"audit","version":"\d\.\d\.\d","disposition":"bad","event_type":"execution_result","timestamp":\d+}`,
	)
	assert.Regexp(t, expect, got)
}

func TestLogAPIKeysLoaded(t *testing.T) {
	got, err := captureStdout(func() {
		LogAPIKeysLoaded(3)
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`{"event":{"count":3},"user_id":null,"content_id":null,"log_context":"audit","version":"\d\.\d\.\d","disposition":"neutral","event_type":"api_keys_loaded","timestamp":\d+}`,
	)
	assert.Regexp(t, expect, got)
}

func TestLogCoursePublished(t *testing.T) {
	ctx := Context{
		UserID: ptr("user"),
	}
	got, err := captureStdout(func() {
		LogCoursePublished(ctx, "course", true)
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`{"event":{"course_id":"course","published":true},"user_id":"user","content_id":null,"log_context":"audit","version":"\d\.\d\.\d","disposition":"neutral","event_type":"course_published","timestamp":\d+}`,
	)
	assert.Regexp(t, expect, got)
}

func TestLogAttachmentStored(t *testing.T) {
	ctx := Context{
		UserID:    ptr("user"),
		ContentID: ptr("content"),
	}
	got, err := captureStdout(func() {
		LogAttachmentStored(ctx, "abc123", 42)
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`{"event":{"key":"abc123","size":42},"user_id":"user","content_id":"content","log_context":"audit","version":"\d\.\d\.\d","disposition":"neutral","event_type":"attachment_stored","timestamp":\d+}`,
	)
	assert.Regexp(t, expect, got)
}
