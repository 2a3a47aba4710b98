package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypes(t *testing.T) {
	allowed := []string{"image/jpeg", "image/png"}

	assert.Nil(t, FileTypes(nil, allowed, "image_files"))
	assert.Nil(t, FileTypes([]File{{Filename: "a.png", ContentType: "image/png"}}, allowed, "image_files"))

	verr := FileTypes([]File{{Filename: "a.gif", ContentType: "image/gif"}}, allowed, "image_files")
	require.NotNil(t, verr)
	assert.Equal(t, "Invalid File Type", verr.Category)
	assert.Equal(t, "image_files", verr.Field)

	// with several files the field pinpoints the offender
	verr = FileTypes([]File{
		{Filename: "a.png", ContentType: "image/png"},
		{Filename: "b.gif", ContentType: "image/gif"},
	}, allowed, "image_files")
	require.NotNil(t, verr)
	assert.Equal(t, "image_files[1]", verr.Field)
}

func TestFileCountBoundary(t *testing.T) {
	files := make([]File, 4)
	assert.Nil(t, FileCount(files, 4, "image_files"), "exactly max passes")

	verr := FileCount(append(files, File{}), 4, "image_files")
	require.NotNil(t, verr)
	assert.Equal(t, "Too Many Files", verr.Category)
	assert.Equal(t, "image_files", verr.Field)
}

func TestParameterChoice(t *testing.T) {
	options := []string{"square", "portrait", "landscape"}
	assert.Nil(t, ParameterChoice("square", options, "shape"))

	verr := ParameterChoice("round", options, "shape")
	require.NotNil(t, verr)
	assert.Equal(t, "Invalid Parameter Value", verr.Category)
	assert.Equal(t, "shape", verr.Field)
}

func TestRequiredFieldsMissingVsEmpty(t *testing.T) {
	// absent key is missing
	verr := RequiredFields(map[string]string{}, []string{"prompt"})
	require.NotNil(t, verr)
	assert.Equal(t, "prompt", verr.Field)
	require.Len(t, verr.Details, 1)
	assert.Equal(t, "missing_fields", verr.Details[0]["type"])

	// whitespace-only value is empty, never missing
	verr = RequiredFields(map[string]string{"prompt": "   "}, []string{"prompt"})
	require.NotNil(t, verr)
	require.Len(t, verr.Details, 1)
	assert.Equal(t, "empty_fields", verr.Details[0]["type"])

	// both groups reported in one error
	verr = RequiredFields(map[string]string{"prompt": ""}, []string{"prompt", "file_url"})
	require.NotNil(t, verr)
	assert.Len(t, verr.Details, 2)
	assert.Empty(t, verr.Field, "no single offender to name")
}

func TestRequiredFieldsOK(t *testing.T) {
	assert.Nil(t, RequiredFields(map[string]string{"prompt": "a cat"}, []string{"prompt"}))
}
