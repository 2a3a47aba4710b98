package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "/chat/completions", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
}

func TestChat(t *testing.T) {
	srv := chatServer(t, "  a detailed answer \n")
	defer srv.Close()

	got, err := New("test-key").WithBaseURL(srv.URL).Chat(context.Background(), "gpt-4o", "sys", "user", 100)
	require.NoError(t, err)
	assert.Equal(t, "a detailed answer", got, "reply is trimmed")
}

func TestChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	_, err := New("test-key").WithBaseURL(srv.URL).Chat(context.Background(), "gpt-4o", "sys", "user", 100)
	var e *apperr.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindEmptyResult, e.Kind)
}

func TestChatMissingKey(t *testing.T) {
	_, err := New("").Chat(context.Background(), "gpt-4o", "sys", "user", 100)
	var e *apperr.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindAuth, e.Kind)
}

func TestPostErrorKinds(t *testing.T) {
	cases := map[int]apperr.Kind{
		http.StatusUnauthorized:    apperr.KindAuth,
		http.StatusTooManyRequests: apperr.KindRateLimit,
		http.StatusBadRequest:      apperr.KindContentPolicy,
		http.StatusInternalServerError: apperr.KindService,
	}
	for code, want := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
		}))
		_, err := New("test-key").WithBaseURL(srv.URL).Chat(context.Background(), "gpt-4o", "s", "u", 10)
		srv.Close()

		var e *apperr.E
		require.ErrorAs(t, err, &e, "status %d", code)
		assert.Equal(t, want, e.Kind, "status %d", code)
	}
}

func TestDalleGenerate(t *testing.T) {
	png := []byte("fake-png-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/generations", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1024x1792", body["size"])
		assert.Contains(t, body["prompt"], "in anime style")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"b64_json": base64.StdEncoding.EncodeToString(png)},
			},
		})
	}))
	defer srv.Close()

	base := t.TempDir()
	st, err := storage.NewStore(nil, "http://localhost:8080",
		filepath.Join(base, "img"), filepath.Join(base, "vid"), filepath.Join(base, "aud"))
	require.NoError(t, err)

	gen := NewDalleGenerator(New("test-key").WithBaseURL(srv.URL), "dall-e-3", st)
	res, err := gen.Generate(context.Background(), media.Request{
		Prompt: "a fox", Style: "Anime", Shape: "portrait",
	})
	require.NoError(t, err)
	assert.Equal(t, media.KindImage, res.Kind)
	assert.Equal(t, "OpenAI", res.Provider)
	assert.True(t, strings.HasPrefix(res.Filename, "dalle_"))
	assert.Contains(t, res.MediaURL, "/images/")
}
