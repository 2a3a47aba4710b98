package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
)

// dalleSizes maps shape categories onto the sizes DALL-E 3 accepts.
var dalleSizes = map[string]string{
	"square":    "1024x1024",
	"portrait":  "1024x1792",
	"landscape": "1792x1024",
}

// DalleGenerator produces images through the images/generations endpoint.
type DalleGenerator struct {
	Client *Client
	Model  string
	Store  *storage.Store
}

func NewDalleGenerator(client *Client, model string, store *storage.Store) *DalleGenerator {
	return &DalleGenerator{Client: client, Model: model, Store: store}
}

func (g *DalleGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	size, ok := dalleSizes[req.Shape]
	if !ok {
		size = dalleSizes["square"]
	}

	var out struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	body := map[string]any{
		"model":           g.Model,
		"prompt":          media.StyledPrompt(req.Prompt, req.Style),
		"n":               1,
		"size":            size,
		"response_format": "b64_json",
	}
	if err := g.Client.post(ctx, "/images/generations", body, &out); err != nil {
		return media.Result{}, err
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return media.Result{}, apperr.New(apperr.KindEmptyResult, "openai returned no images")
	}
	data, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return media.Result{}, fmt.Errorf("openai image decode: %w", err)
	}

	filename := media.Filename("dalle", ".png")
	url, err := g.Store.Save(ctx, media.KindImage, filename, data, "image/png")
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{
		MediaURL: url,
		Kind:     media.KindImage,
		Filename: filename,
		Provider: "OpenAI",
		Model:    g.Model,
	}, nil
}
