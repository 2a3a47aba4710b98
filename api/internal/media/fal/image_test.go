package fal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
)

func newLocalStore(t *testing.T) *storage.Store {
	t.Helper()
	base := t.TempDir()
	st, err := storage.NewStore(nil, "http://localhost:8080",
		filepath.Join(base, "img"), filepath.Join(base, "vid"), filepath.Join(base, "aud"))
	require.NoError(t, err)
	return st
}

// modelServer fakes the whole flow: queue submit, one poll, result payload
// and the media download.
func modelServer(t *testing.T, capture *map[string]any) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/fal-ai/"):
			if capture != nil {
				require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
			}
			_ = json.NewEncoder(w).Encode(queueSubmit{
				RequestID:   "req-1",
				StatusURL:   srv.URL + "/status",
				ResponseURL: srv.URL + "/response",
			})
		case r.URL.Path == "/status":
			_ = json.NewEncoder(w).Encode(queueStatus{Status: "COMPLETED"})
		case r.URL.Path == "/response":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"images": []map[string]any{
					{"url": srv.URL + "/media/out.png", "content_type": "image/png"},
				},
				"video": map[string]any{"url": srv.URL + "/media/out.mp4"},
			})
		case r.URL.Path == "/media/out.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		case r.URL.Path == "/media/out.mp4":
			w.Header().Set("Content-Type", "video/mp4")
			_, _ = w.Write([]byte("mp4-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	return srv
}

func TestImageGeneratorEndToEnd(t *testing.T) {
	var args map[string]any
	srv := modelServer(t, &args)
	defer srv.Close()

	client := New("test-key").WithEndpoint(srv.URL).WithPollInterval(time.Millisecond)
	gen := NewImageGenerator(client, ImageConfig{
		Model: "fal-ai/test-model", Feature: "test_image",
		ExtraArgs: map[string]any{"guidance_scale": 7.5},
	}, newLocalStore(t))

	res, err := gen.Generate(context.Background(), media.Request{
		Prompt: "a fox", Style: "Anime", Shape: "landscape",
	})
	require.NoError(t, err)

	assert.Equal(t, "a fox, in anime style", args["prompt"])
	assert.Equal(t, "16:9", args["aspect_ratio"])
	assert.Equal(t, 7.5, args["guidance_scale"])

	assert.Equal(t, media.KindImage, res.Kind)
	assert.Equal(t, "fal.ai", res.Provider)
	assert.True(t, strings.HasPrefix(res.Filename, "test_image_"))
	assert.Contains(t, res.MediaURL, "/images/")
}

func TestVideoGeneratorRequiresImage(t *testing.T) {
	gen := NewVideoGenerator(New("test-key"), VideoConfig{
		Model: "fal-ai/test-model", Feature: "test_video", RequiresImage: true,
	}, newLocalStore(t))

	_, err := gen.Generate(context.Background(), media.Request{Prompt: "move it"})
	var e *apperr.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindValidation, e.Kind)
}

func TestVideoGeneratorEndToEnd(t *testing.T) {
	var args map[string]any
	srv := modelServer(t, &args)
	defer srv.Close()

	client := New("test-key").WithEndpoint(srv.URL).WithPollInterval(time.Millisecond)
	gen := NewVideoGenerator(client, VideoConfig{
		Model: "fal-ai/test-model", Feature: "test_video", RequiresImage: true,
	}, newLocalStore(t))

	res, err := gen.Generate(context.Background(), media.Request{
		Prompt: "make it move",
		Shape:  "portrait",
		Files: []media.Upload{{
			Filename: "ref.png", ContentType: "image/png", Data: []byte("not-a-real-png"),
		}},
	})
	require.NoError(t, err)

	imageURL, _ := args["image_url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "data:image/png;base64,"), imageURL)

	assert.Equal(t, media.KindVideo, res.Kind)
	assert.Contains(t, res.MediaURL, "/videos/")
}
