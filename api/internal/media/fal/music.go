package fal

import (
	"context"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
	"media-proxy/api/internal/util"
)

type musicResponse struct {
	Audio struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type,omitempty"`
	} `json:"audio"`
}

// MusicGenerator runs MiniMax music. Prompt carries the verses; the music
// style rides in Extra["lyrics_prompt"], already enhanced upstream.
type MusicGenerator struct {
	Client *Client
	Model  string
	Store  *storage.Store
}

func NewMusicGenerator(client *Client, store *storage.Store) *MusicGenerator {
	return &MusicGenerator{Client: client, Model: "fal-ai/minimax-music", Store: store}
}

func (g *MusicGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	style := req.Extra["lyrics_prompt"]
	if style == "" {
		// the model rejects requests without a style description
		style = "A melodic and harmonious composition"
	}
	args := map[string]any{
		"prompt":        req.Prompt,
		"lyrics_prompt": style,
	}

	var out musicResponse
	if err := g.Client.Run(ctx, g.Model, args, &out); err != nil {
		return media.Result{}, err
	}
	if out.Audio.URL == "" {
		return media.Result{}, apperr.New(apperr.KindEmptyResult, "no audio generated by fal.ai")
	}

	data, contentType, err := g.Client.Download(ctx, out.Audio.URL)
	if err != nil {
		return media.Result{}, err
	}
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	filename := media.Filename("minimax_music", util.ExtensionForMIME(contentType))
	url, err := g.Store.Save(ctx, media.KindAudio, filename, data, contentType)
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{
		MediaURL: url,
		Kind:     media.KindAudio,
		Filename: filename,
		Provider: "fal.ai",
		Model:    g.Model,
	}, nil
}
