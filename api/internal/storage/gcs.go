package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"media-proxy/api/internal/apperr"
)

// GCS wraps the cloud storage client. Constructed once in main and shared;
// the client is safe for concurrent use.
type GCS struct {
	client *gstorage.Client
	bucket string
}

func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Upload writes data under objectName and returns the public URL.
func (g *GCS) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	w := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", apperr.Wrap(apperr.KindStorage, "gcs write", err)
	}
	if err := w.Close(); err != nil {
		return "", apperr.Wrap(apperr.KindStorage, "gcs close", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectName), nil
}

// DeleteResult mirrors the delete endpoint's response body.
type DeleteResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	DeletedFileURL string `json:"deleted_file_url"`
	BucketName     string `json:"bucket_name,omitempty"`
	FilePath       string `json:"file_path,omitempty"`
	ErrorType      string `json:"error_type,omitempty"`
}

// Delete removes the object the URL points at. Missing objects and
// permission failures are reported in the result, not as errors.
func (g *GCS) Delete(ctx context.Context, fileURL string) (DeleteResult, error) {
	bucket, object, err := ParseURL(fileURL)
	if err != nil {
		return DeleteResult{}, err
	}
	res := DeleteResult{DeletedFileURL: fileURL, BucketName: bucket, FilePath: object}

	obj := g.client.Bucket(bucket).Object(object)
	if _, err := obj.Attrs(ctx); err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			res.Message = "File not found in Google Cloud Storage"
			res.ErrorType = "not_found"
			return res, nil
		}
		return res, apperr.Wrap(apperr.KindStorage, "gcs attrs", err)
	}
	if err := obj.Delete(ctx); err != nil {
		return res, apperr.Wrap(apperr.KindStorage, "gcs delete", err)
	}
	res.Success = true
	res.Message = "File deleted successfully from Google Cloud Storage"
	return res, nil
}

// FolderDeleteResult mirrors the folder-deletion response body.
type FolderDeleteResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	FolderURL    string `json:"folder_url"`
	BucketName   string `json:"bucket_name,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	DeletedCount int    `json:"deleted_count"`
	FailedCount  int    `json:"failed_count,omitempty"`
}

// DeleteFolder removes every object under the URL's path prefix. Individual
// delete failures are counted, not fatal; an empty prefix match is reported
// in the result like a missing object.
func (g *GCS) DeleteFolder(ctx context.Context, folderURL string) (FolderDeleteResult, error) {
	bucket, prefix, err := ParseURL(folderURL)
	if err != nil {
		return FolderDeleteResult{}, err
	}
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	res := FolderDeleteResult{FolderURL: folderURL, BucketName: bucket, Prefix: prefix}

	b := g.client.Bucket(bucket)
	it := b.Objects(ctx, &gstorage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return res, apperr.Wrap(apperr.KindStorage, "gcs list", err)
		}
		if err := b.Object(attrs.Name).Delete(ctx); err != nil {
			log.Printf("folder delete: %s failed: %v", attrs.Name, err)
			res.FailedCount++
			continue
		}
		res.DeletedCount++
	}

	if res.DeletedCount == 0 && res.FailedCount == 0 {
		res.Message = "No files found under the folder prefix"
		return res, nil
	}
	res.Success = res.FailedCount == 0
	res.Message = fmt.Sprintf("Deleted %d files from folder", res.DeletedCount)
	if res.FailedCount > 0 {
		res.Message = fmt.Sprintf("Deleted %d files from folder, %d failed", res.DeletedCount, res.FailedCount)
	}
	return res, nil
}

// Health verifies the bucket is reachable with the current credentials.
func (g *GCS) Health(ctx context.Context) error {
	if _, err := g.client.Bucket(g.bucket).Attrs(ctx); err != nil {
		return apperr.Wrap(apperr.KindStorage, "gcs bucket attrs", err)
	}
	return nil
}

func (g *GCS) Bucket() string { return g.bucket }

// ParseURL extracts (bucket, object) from the storage URL formats we emit:
// gs://bucket/path, https://storage.googleapis.com/bucket/path and
// https://storage.cloud.google.com/bucket/path.
func ParseURL(fileURL string) (bucket, object string, err error) {
	fileURL = strings.TrimSpace(fileURL)
	if strings.HasPrefix(fileURL, "gs://") {
		rest := strings.TrimPrefix(fileURL, "gs://")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", apperr.New(apperr.KindValidation, "invalid gs:// URL format")
		}
		return parts[0], parts[1], nil
	}

	u, perr := url.Parse(fileURL)
	if perr != nil {
		return "", "", apperr.Wrap(apperr.KindValidation, "invalid file URL", perr)
	}
	switch u.Host {
	case "storage.googleapis.com", "storage.cloud.google.com":
	default:
		return "", "", apperr.New(apperr.KindValidation, "unsupported storage URL format")
	}
	if u.Scheme != "https" {
		return "", "", apperr.New(apperr.KindValidation, "storage URLs must use HTTPS")
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperr.New(apperr.KindValidation, "invalid storage URL format")
	}
	return parts[0], parts[1], nil
}
