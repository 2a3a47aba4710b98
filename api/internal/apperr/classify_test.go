package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRateLimit(t *testing.T) {
	for _, msg := range []string{
		"request failed with status 429",
		"quota exceeded for project",
		"rate limit reached, try later",
		"too many requests",
	} {
		resp := Classify(errors.New(msg), "OpenAI", "image generation")
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, msg)
		assert.Equal(t, "Rate Limit Error", resp.Error, msg)
	}
}

func TestClassifyAuth(t *testing.T) {
	for _, msg := range []string{
		"invalid api key provided",
		"unauthorized request",
	} {
		resp := Classify(errors.New(msg), "fal.ai", "video generation")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, msg)
		assert.Equal(t, "Authentication Error", resp.Error, msg)
	}
}

func TestClassifyTypedErrorShortCircuits(t *testing.T) {
	// a typed content-policy error whose text mentions quota must still be
	// classified by its kind, not by text matching
	err := New(KindContentPolicy, "quota mentioned but policy tagged")
	resp := Classify(err, "Google AI", "imagen")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Content Policy Violation", resp.Error)
}

func TestClassifyWrappedTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(KindTimeout, "poll", errors.New("deadline exceeded")))
	resp := Classify(err, "fal.ai", "kling_text")
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestClassifyMentionsService(t *testing.T) {
	resp := Classify(errors.New("rate limit"), "Google AI", "imagen")
	assert.Contains(t, resp.Message, "Google AI")
}

func TestClassifyDeterministic(t *testing.T) {
	err := errors.New("connection refused by upstream")
	a := Classify(err, "fal.ai", "music generation")
	b := Classify(err, "fal.ai", "music generation")
	assert.Equal(t, a, b)
}

func TestClassifyUnknownErrorIs500(t *testing.T) {
	resp := Classify(errors.New("something inexplicable"), "SomeService", "op")
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Service Error", resp.Error)
}

func TestClassifyNilError(t *testing.T) {
	resp := Classify(nil, "OpenAI", "chat")
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestClassifyStatusMatchesCategory(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:        http.StatusBadRequest,
		KindAuth:              http.StatusUnauthorized,
		KindForbidden:         http.StatusForbidden,
		KindRateLimit:         http.StatusTooManyRequests,
		KindNotFound:          http.StatusNotFound,
		KindContentPolicy:     http.StatusBadRequest,
		KindTimeout:           http.StatusGatewayTimeout,
		KindNetwork:           http.StatusServiceUnavailable,
		KindUnavailable:       http.StatusServiceUnavailable,
		KindStoragePermission: http.StatusForbidden,
		KindStorageFull:       http.StatusInsufficientStorage,
	}
	for kind, want := range cases {
		resp := Classify(New(kind, "x"), "svc", "op")
		assert.Equal(t, want, resp.StatusCode, kind.category())
	}
}

func TestClassifyStoragePermission(t *testing.T) {
	resp := Classify(errors.New("bucket attrs: access denied"), "Google Cloud Storage", "file deletion")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Storage Permission Error", resp.Error)
}
