// Package media defines the request/result types shared by every provider
// adapter and the Generator interface the routes are written against.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Styles is the fixed vocabulary appended to prompts before submission.
var Styles = []string{"Photo", "Illustration", "Comic", "Anime", "Abstract", "Fantasy", "PopArt"}

// Shapes are aspect-ratio categories mapped to provider-specific parameters.
var Shapes = []string{"square", "portrait", "landscape"}

// Kind says where generated bytes are persisted and which static mount
// serves the local fallback.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Upload is a user-provided reference file, already read into memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Request is built once per HTTP call and discarded with the response.
type Request struct {
	Prompt string
	Style  string
	Shape  string
	Files  []Upload

	// Extra carries feature-specific inputs (e.g. the music style prompt).
	Extra map[string]string
}

// Result is constructed by a generator and mapped onto the response schema
// by the route. Exactly one URL, never persisted beyond the response.
type Result struct {
	MediaURL string
	Kind     Kind
	Filename string

	Provider string
	Model    string

	// Interpretation holds feature metadata such as the dream reading or
	// the enhanced prompt text.
	Interpretation string
}

// Generator is the one capability every provider implements: generate media
// from a validated request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// AspectRatio maps a shape to the ratio string the Google and fal APIs take.
func AspectRatio(shape string) string {
	switch shape {
	case "square":
		return "1:1"
	case "portrait":
		return "9:16"
	default:
		return "16:9"
	}
}

// StyledPrompt folds the style vocabulary into the prompt text.
func StyledPrompt(prompt, style string) string {
	if strings.TrimSpace(style) == "" {
		return prompt
	}
	return fmt.Sprintf("%s, in %s style", prompt, strings.ToLower(style))
}

// Filename builds a unique media filename: <feature>_<ts>_<uuid8><ext>.
func Filename(feature, ext string) string {
	ts := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s%s", feature, ts, uuid.NewString()[:8], ext)
}
