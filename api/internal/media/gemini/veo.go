package gemini

import (
	"context"
	"log"
	"time"

	"google.golang.org/genai"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
)

// VeoGenerator drives the asynchronous Veo video models: start the
// operation, poll at a fixed interval, download the first video.
type VeoGenerator struct {
	Client       *genai.Client
	Model        string
	Store        *storage.Store
	PollInterval time.Duration
	Feature      string
}

func NewVeoGenerator(client *genai.Client, model, feature string, store *storage.Store) *VeoGenerator {
	return &VeoGenerator{
		Client:       client,
		Model:        model,
		Store:        store,
		PollInterval: 10 * time.Second,
		Feature:      feature,
	}
}

func (g *VeoGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	duration := int32(8)
	cfg := &genai.GenerateVideosConfig{
		AspectRatio:      media.AspectRatio(req.Shape),
		NumberOfVideos:   1,
		DurationSeconds:  &duration,
		PersonGeneration: "ALLOW_ALL",
	}

	op, err := g.Client.Models.GenerateVideos(ctx, g.Model, media.StyledPrompt(req.Prompt, req.Style), nil, cfg)
	if err != nil {
		return media.Result{}, apperr.Wrap(apperr.KindUnknown, "veo generate", err)
	}

	// Fixed-interval poll under the request deadline; a cancelled context
	// surfaces as a timeout rather than a generic failure.
	for !op.Done {
		log.Printf("video is being generated, checking again in %s", g.PollInterval)
		select {
		case <-ctx.Done():
			return media.Result{}, apperr.Wrap(apperr.KindTimeout, "veo poll", ctx.Err())
		case <-time.After(g.PollInterval):
		}
		op, err = g.Client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return media.Result{}, apperr.Wrap(apperr.KindUnknown, "veo poll", err)
		}
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return media.Result{}, apperr.New(apperr.KindEmptyResult, "no videos were generated")
	}

	video := op.Response.GeneratedVideos[0].Video
	data := video.VideoBytes
	if len(data) == 0 {
		data, err = g.Client.Files.Download(ctx, video, nil)
		if err != nil {
			return media.Result{}, apperr.Wrap(apperr.KindUnknown, "veo download", err)
		}
	}

	filename := media.Filename(g.Feature, ".mp4")
	url, err := g.Store.Save(ctx, media.KindVideo, filename, data, "video/mp4")
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{
		MediaURL: url,
		Kind:     media.KindVideo,
		Filename: filename,
		Provider: "Google AI",
		Model:    g.Model,
	}, nil
}
