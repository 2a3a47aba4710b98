package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPickMIME(t *testing.T) {
	assert.Equal(t, "image/png", PickMIME("image/png", []byte("whatever")))
	assert.Equal(t, "image/jpeg", PickMIME("", nil))

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}
	assert.Equal(t, "image/png", PickMIME("  ", pngHeader))

	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0}
	assert.Equal(t, "image/jpeg", PickMIME("", jpegHeader))

	// bytes the magic-number check does not know fall through to net/http
	assert.Equal(t, "text/plain; charset=utf-8", PickMIME("", []byte("plain text payload")))
}

func TestSniffMimeHTTP(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffMimeHTTP([]byte{0xFF, 0xD8, 0xFF}))
	assert.Equal(t, "image/png", SniffMimeHTTP([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}))
	assert.Equal(t, "application/octet-stream", SniffMimeHTTP([]byte("neither")))
}

func TestExtensionForMIME(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionForMIME("image/jpeg"))
	assert.Equal(t, ".mp4", ExtensionForMIME("video/mp4"))
	assert.Equal(t, ".mp3", ExtensionForMIME("audio/mpeg"))
	assert.Equal(t, ".png", ExtensionForMIME("application/octet-stream"))
}

func TestMakeDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,aGk=", MakeDataURL("image/png", "aGk="))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "long st...", Truncate("long string here", 10))
}

func TestTruncateMultibyte(t *testing.T) {
	s := strings.Repeat("é", 20)
	got := Truncate(s, 10)

	assert.True(t, utf8.ValidString(got), "cut must land on a rune boundary")
	assert.Equal(t, 10, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 7)+"...", got)

	assert.Equal(t, "ééé", Truncate(s, 3))
	assert.True(t, utf8.ValidString(Truncate("абвгдежз", 5)))
}
