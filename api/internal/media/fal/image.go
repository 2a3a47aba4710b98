package fal

import (
	"context"
	"encoding/base64"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/imaging"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
	"media-proxy/api/internal/util"
)

// imageResponse is the common envelope of fal image models.
type imageResponse struct {
	Images []struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type,omitempty"`
	} `json:"images"`
}

// ImageConfig parameterizes one hosted image model instead of duplicating a
// service per endpoint.
type ImageConfig struct {
	// Model is the queue path, e.g. "fal-ai/flux-1/srpo".
	Model   string
	Feature string

	// Edit models take reference images as data URLs.
	AcceptsImages bool
	MaxImages     int

	// ExtraArgs are fixed model parameters (inference steps, guidance).
	ExtraArgs map[string]any
}

// ImageGenerator runs a fal-hosted image model and persists the first image.
type ImageGenerator struct {
	Client *Client
	Config ImageConfig
	Store  *storage.Store
}

func NewImageGenerator(client *Client, cfg ImageConfig, store *storage.Store) *ImageGenerator {
	return &ImageGenerator{Client: client, Config: cfg, Store: store}
}

func (g *ImageGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	args := map[string]any{
		"prompt":       media.StyledPrompt(req.Prompt, req.Style),
		"aspect_ratio": media.AspectRatio(req.Shape),
		"num_images":   1,
	}
	for k, v := range g.Config.ExtraArgs {
		args[k] = v
	}
	if g.Config.AcceptsImages && len(req.Files) > 0 {
		urls := make([]string, 0, len(req.Files))
		for _, f := range req.Files {
			data := imaging.ShrinkToFit(f.Data, imaging.MaxDimension)
			mime := util.PickMIME(f.ContentType, data)
			urls = append(urls, util.MakeDataURL(mime, base64.StdEncoding.EncodeToString(data)))
		}
		args["image_urls"] = urls
	}

	var out imageResponse
	if err := g.Client.Run(ctx, g.Config.Model, args, &out); err != nil {
		return media.Result{}, err
	}
	if len(out.Images) == 0 || out.Images[0].URL == "" {
		return media.Result{}, apperr.New(apperr.KindEmptyResult, "no images generated by fal.ai")
	}

	data, contentType, err := g.Client.Download(ctx, out.Images[0].URL)
	if err != nil {
		return media.Result{}, err
	}
	contentType = util.PickMIME(contentType, data)

	filename := media.Filename(g.Config.Feature, util.ExtensionForMIME(contentType))
	url, err := g.Store.Save(ctx, media.KindImage, filename, data, contentType)
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{
		MediaURL: url,
		Kind:     media.KindImage,
		Filename: filename,
		Provider: "fal.ai",
		Model:    g.Config.Model,
	}, nil
}
