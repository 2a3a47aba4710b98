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

// AvatarGenerator drives the OmniHuman model: a face image plus a speech
// audio clip in, a talking-head video out. Files[0] is the image, Files[1]
// the audio.
type AvatarGenerator struct {
	Client *Client
	Model  string
	Store  *storage.Store
}

func NewAvatarGenerator(client *Client, store *storage.Store) *AvatarGenerator {
	return &AvatarGenerator{Client: client, Model: "fal-ai/bytedance/omnihuman", Store: store}
}

func (g *AvatarGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	if len(req.Files) < 2 {
		return media.Result{}, apperr.New(apperr.KindValidation, "image and audio files are required")
	}
	img, audio := req.Files[0], req.Files[1]

	imgData := imaging.ShrinkToFit(img.Data, imaging.MaxDimension)
	args := map[string]any{
		"image_url": util.MakeDataURL(util.PickMIME(img.ContentType, imgData),
			base64.StdEncoding.EncodeToString(imgData)),
		"audio_url": util.MakeDataURL(audio.ContentType,
			base64.StdEncoding.EncodeToString(audio.Data)),
	}

	var out videoResponse
	if err := g.Client.Run(ctx, g.Model, args, &out); err != nil {
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

	filename := media.Filename("avatar", ".mp4")
	url, err := g.Store.Save(ctx, media.KindVideo, filename, data, contentType)
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{
		MediaURL: url,
		Kind:     media.KindVideo,
		Filename: filename,
		Provider: "fal.ai",
		Model:    g.Model,
	}, nil
}
