package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-proxy/api/internal/media"
)

type fakeUploader struct {
	url string
	err error

	gotObject string
}

func (f *fakeUploader) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	f.gotObject = objectName
	return f.url, f.err
}

func newTestStore(t *testing.T, cloud Uploader) *Store {
	t.Helper()
	base := t.TempDir()
	st, err := NewStore(cloud, "http://localhost:8080",
		filepath.Join(base, "img"), filepath.Join(base, "vid"), filepath.Join(base, "aud"))
	require.NoError(t, err)
	return st
}

func TestSaveCloudFirst(t *testing.T) {
	up := &fakeUploader{url: "https://storage.googleapis.com/b/image/x.png"}
	st := newTestStore(t, up)

	url, err := st.Save(context.Background(), media.KindImage, "x.png", []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, up.url, url)
	assert.Equal(t, "image/x.png", up.gotObject)

	// nothing written locally on cloud success
	_, statErr := os.Stat(filepath.Join(st.ImagesDir, "x.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveFallsBackToLocal(t *testing.T) {
	st := newTestStore(t, &fakeUploader{err: errors.New("bucket permission denied")})

	url, err := st.Save(context.Background(), media.KindImage, "x.png", []byte("data"), "image/png")
	require.NoError(t, err, "cloud failure must be absorbed by the local fallback")
	assert.Equal(t, "http://localhost:8080/images/x.png", url)

	data, err := os.ReadFile(filepath.Join(st.ImagesDir, "x.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)
}

func TestSaveLocalOnly(t *testing.T) {
	st := newTestStore(t, nil)

	url, err := st.Save(context.Background(), media.KindVideo, "v.mp4", []byte("mp4"), "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/videos/v.mp4", url)

	url, err = st.Save(context.Background(), media.KindAudio, "a.mp3", []byte("mp3"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/audio/a.mp3", url)
}
