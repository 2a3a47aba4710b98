// Package gemini holds the Google adapters: Imagen images, Veo videos and
// the flash-image ("nanobanana") model.
package gemini

import (
	"context"

	"google.golang.org/genai"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
)

// ImagenGenerator produces images with the Imagen models.
type ImagenGenerator struct {
	Client *genai.Client
	Model  string
	Store  *storage.Store

	// PromptPrefix is prepended to the user prompt (the dream interpreter
	// wraps prompts in its own framing).
	PromptPrefix string
	Feature      string
}

func NewImagenGenerator(client *genai.Client, model string, store *storage.Store) *ImagenGenerator {
	return &ImagenGenerator{Client: client, Model: model, Store: store, Feature: "imagen"}
}

func (g *ImagenGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	prompt := media.StyledPrompt(req.Prompt, req.Style)
	if g.PromptPrefix != "" {
		prompt = g.PromptPrefix + req.Prompt + ", in " + req.Style + " style"
	}

	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    media.AspectRatio(req.Shape),
		OutputMIMEType: "image/jpeg",
	}
	resp, err := g.Client.Models.GenerateImages(ctx, g.Model, prompt, cfg)
	if err != nil {
		return media.Result{}, apperr.Wrap(apperr.KindUnknown, "imagen generate", err)
	}
	if len(resp.GeneratedImages) == 0 {
		return media.Result{}, apperr.New(apperr.KindEmptyResult, "imagen returned no images")
	}

	img := resp.GeneratedImages[0].Image
	filename := media.Filename(g.Feature, ".jpg")
	url, err := g.Store.Save(ctx, media.KindImage, filename, img.ImageBytes, "image/jpeg")
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{
		MediaURL: url,
		Kind:     media.KindImage,
		Filename: filename,
		Provider: "Google AI",
		Model:    g.Model,
	}, nil
}
