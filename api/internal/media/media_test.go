package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, "1:1", AspectRatio("square"))
	assert.Equal(t, "9:16", AspectRatio("portrait"))
	assert.Equal(t, "16:9", AspectRatio("landscape"))
}

func TestStyledPrompt(t *testing.T) {
	assert.Equal(t, "a red fox, in anime style", StyledPrompt("a red fox", "Anime"))
	assert.Equal(t, "a red fox", StyledPrompt("a red fox", ""))
	assert.Equal(t, "a red fox", StyledPrompt("a red fox", "   "))
}

func TestFilename(t *testing.T) {
	a := Filename("flux_srpo", ".png")
	b := Filename("flux_srpo", ".png")

	assert.True(t, strings.HasPrefix(a, "flux_srpo_"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b, "filenames must be unique")
	assert.NotContains(t, a, "/")
}
