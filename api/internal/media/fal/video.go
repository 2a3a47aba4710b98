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

type videoResponse struct {
	Video struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type,omitempty"`
	} `json:"video"`
}

// VideoConfig parameterizes one hosted video model (kling, pixverse, wan).
type VideoConfig struct {
	Model   string
	Feature string

	// RequiresImage marks image→video models; the reference upload is sent
	// as a data URL under "image_url".
	RequiresImage bool

	ExtraArgs map[string]any
}

type VideoGenerator struct {
	Client *Client
	Config VideoConfig
	Store  *storage.Store
}

func NewVideoGenerator(client *Client, cfg VideoConfig, store *storage.Store) *VideoGenerator {
	return &VideoGenerator{Client: client, Config: cfg, Store: store}
}

func (g *VideoGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	args := map[string]any{
		"prompt":       media.StyledPrompt(req.Prompt, req.Style),
		"aspect_ratio": media.AspectRatio(req.Shape),
	}
	for k, v := range g.Config.ExtraArgs {
		args[k] = v
	}
	if g.Config.RequiresImage {
		if len(req.Files) == 0 {
			return media.Result{}, apperr.New(apperr.KindValidation, "image file is required")
		}
		f := req.Files[0]
		data := imaging.ShrinkToFit(f.Data, imaging.MaxDimension)
		mime := util.PickMIME(f.ContentType, data)
		args["image_url"] = util.MakeDataURL(mime, base64.StdEncoding.EncodeToString(data))
	}

	var out videoResponse
	if err := g.Client.Run(ctx, g.Config.Model, args, &out); err != nil {
		return media.Result{}, err
	}
	if out.Video.URL == "" {
		return media.Result{}, apperr.New(apperr.KindEmptyResult, "no videos generated by fal.ai")
	}

	data, contentType, err := g.Client.Download(ctx, out.Video.URL)
	if err != nil {
		return media.Result{}, err
	}
	if contentType == "" {
		contentType = "video/mp4"
	}

	filename := media.Filename(g.Config.Feature, ".mp4")
	url, err := g.Store.Save(ctx, media.KindVideo, filename, data, contentType)
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{
		MediaURL: url,
		Kind:     media.KindVideo,
		Filename: filename,
		Provider: "fal.ai",
		Model:    g.Config.Model,
	}, nil
}
