// Package storage persists generated media: cloud object storage first,
// local disk as the fallback served from the static mounts.
package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
)

// Uploader is what Store needs from cloud storage. *GCS satisfies it; tests
// substitute a stub.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// Store writes media bytes and hands back exactly one URL: the cloud URL
// when the upload succeeds, otherwise a BASE_URL-rooted local one.
type Store struct {
	Cloud   Uploader // nil means local-only
	BaseURL string

	ImagesDir string
	VideosDir string
	AudioDir  string
}

func NewStore(cloud Uploader, baseURL, imagesDir, videosDir, audioDir string) (*Store, error) {
	for _, dir := range []string{imagesDir, videosDir, audioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create media dir %s: %w", dir, err)
		}
	}
	return &Store{
		Cloud:     cloud,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ImagesDir: imagesDir,
		VideosDir: videosDir,
		AudioDir:  audioDir,
	}, nil
}

// Save persists data under filename. Cloud upload failures are logged and
// absorbed by the local fallback; only a local write failure is an error.
func (s *Store) Save(ctx context.Context, kind media.Kind, filename string, data []byte, contentType string) (string, error) {
	if s.Cloud != nil {
		objectName := string(kind) + "/" + filename
		url, err := s.Cloud.Upload(ctx, objectName, data, contentType)
		if err == nil {
			log.Printf("uploaded %s to cloud storage: %s", filename, url)
			return url, nil
		}
		log.Printf("cloud upload failed for %s, falling back to local disk: %v", filename, err)
	}

	dir, mount := s.localTarget(kind)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperr.Wrap(apperr.KindStorage, "local media write", err)
	}
	url := fmt.Sprintf("%s/%s/%s", s.BaseURL, mount, filename)
	log.Printf("saved %s locally, served at %s", path, url)
	return url, nil
}

func (s *Store) localTarget(kind media.Kind) (dir, mount string) {
	switch kind {
	case media.KindVideo:
		return s.VideosDir, "videos"
	case media.KindAudio:
		return s.AudioDir, "audio"
	default:
		return s.ImagesDir, "images"
	}
}
