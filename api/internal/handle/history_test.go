package handle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-proxy/api/internal/media"
	"media-proxy/api/internal/store"
)

type fakeHistory struct {
	recorded []store.HistoryEntry
	entries  []store.HistoryEntry
	err      error

	gotFeature string
	gotLimit   int
}

func (f *fakeHistory) Record(ctx context.Context, e store.HistoryEntry) {
	f.recorded = append(f.recorded, e)
}

func (f *fakeHistory) Recent(ctx context.Context, feature string, limit int) ([]store.HistoryEntry, error) {
	f.gotFeature = feature
	f.gotLimit = limit
	return f.entries, f.err
}

func getHistory(t *testing.T, h *Handle, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.GenerationHistory(rec, req)
	return rec
}

func TestGenerationHistory(t *testing.T) {
	hist := &fakeHistory{entries: []store.HistoryEntry{
		{Feature: "imagen", Provider: "Google AI", Prompt: "a fox", MediaURL: "http://x/1.jpg", CreatedAt: time.Now()},
		{Feature: "imagen", Provider: "Google AI", Prompt: "a cat", MediaURL: "http://x/2.jpg", CreatedAt: time.Now()},
	}}
	h := &Handle{History: hist}

	rec := getHistory(t, h, "/api/v1/history?feature=imagen&limit=5")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "imagen", hist.gotFeature)
	assert.Equal(t, 5, hist.gotLimit)
}

func TestGenerationHistoryLimits(t *testing.T) {
	hist := &fakeHistory{}
	h := &Handle{History: hist}

	rec := getHistory(t, h, "/api/v1/history?feature=imagen")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultHistoryLimit, hist.gotLimit)

	rec = getHistory(t, h, "/api/v1/history?feature=imagen&limit=9999")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxHistoryLimit, hist.gotLimit, "limit is capped")

	rec = getHistory(t, h, "/api/v1/history?feature=imagen&limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerationHistoryRequiresFeature(t *testing.T) {
	h := &Handle{History: &fakeHistory{}}
	rec := getHistory(t, h, "/api/v1/history")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "feature", body["field"])
}

func TestGenerationHistoryUnconfigured(t *testing.T) {
	h := &Handle{}
	rec := getHistory(t, h, "/api/v1/history?feature=imagen")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateRecordsHistory(t *testing.T) {
	hist := &fakeHistory{}
	gen := &fakeGen{res: media.Result{
		MediaURL: "http://x/1.jpg",
		Kind:     media.KindImage,
		Provider: "fal.ai",
		Model:    "fal-ai/test",
	}}
	h := &Handle{History: hist}
	handler := h.Generate(gen, GenOptions{Feature: "test", Service: "fal.ai", URLField: "image_url"})

	rec := postJSON(t, handler, "/api/v1/test", map[string]string{"prompt": "a fox"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, hist.recorded, 1)
	assert.Equal(t, "test", hist.recorded[0].Feature)
	assert.Equal(t, "a fox", hist.recorded[0].Prompt)
	assert.Equal(t, "http://x/1.jpg", hist.recorded[0].MediaURL)
}
