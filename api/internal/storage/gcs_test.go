package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		in     string
		bucket string
		object string
	}{
		{"gs://my-bucket/image/pic.png", "my-bucket", "image/pic.png"},
		{"https://storage.googleapis.com/my-bucket/image/pic.png", "my-bucket", "image/pic.png"},
		{"https://storage.cloud.google.com/my-bucket/video/clip.mp4", "my-bucket", "video/clip.mp4"},
		{"  gs://my-bucket/a/b/c.jpg  ", "my-bucket", "a/b/c.jpg"},
	}
	for _, tc := range cases {
		bucket, object, err := ParseURL(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.bucket, bucket, tc.in)
		assert.Equal(t, tc.object, object, tc.in)
	}
}

func TestParseURLRejects(t *testing.T) {
	for _, in := range []string{
		"gs://only-bucket",
		"gs:///no-bucket",
		"http://storage.googleapis.com/b/o", // https required
		"https://example.com/b/o",
		"not a url at all",
		"https://storage.googleapis.com/bucket-only",
	} {
		_, _, err := ParseURL(in)
		assert.Error(t, err, in)
	}
}
