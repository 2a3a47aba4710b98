package gemini

import (
	"context"
	"strings"

	ggenai "github.com/google/generative-ai-go/genai"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/imaging"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/storage"
	"media-proxy/api/internal/util"
)

// NanoBananaGenerator uses the Gemini flash-image model, which returns the
// image inline in the content parts. An optional reference image guides the
// generation.
type NanoBananaGenerator struct {
	Client *ggenai.Client
	Model  string
	Store  *storage.Store
}

func NewNanoBananaGenerator(client *ggenai.Client, model string, store *storage.Store) *NanoBananaGenerator {
	return &NanoBananaGenerator{Client: client, Model: model, Store: store}
}

func (g *NanoBananaGenerator) Generate(ctx context.Context, req media.Request) (media.Result, error) {
	m := g.Client.GenerativeModel(strings.TrimSpace(g.Model))

	prompt := media.StyledPrompt(req.Prompt, req.Style)
	parts := []ggenai.Part{ggenai.Text(prompt)}
	if len(req.Files) > 0 {
		ref := req.Files[0]
		data := imaging.ShrinkToFit(ref.Data, imaging.MaxDimension)
		parts = []ggenai.Part{
			ggenai.Text(prompt + ". Use the provided image as visual reference for style and composition."),
			ggenai.Blob{MIMEType: util.PickMIME(ref.ContentType, data), Data: data},
		}
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return media.Result{}, apperr.Wrap(apperr.KindUnknown, "gemini generate", err)
	}

	blob, ok := firstBlob(resp)
	if !ok {
		return media.Result{}, apperr.New(apperr.KindEmptyResult, "no image data received from gemini")
	}

	filename := media.Filename("nanobanana", util.ExtensionForMIME(blob.MIMEType))
	url, err := g.Store.Save(ctx, media.KindImage, filename, blob.Data, blob.MIMEType)
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

func firstBlob(resp *ggenai.GenerateContentResponse) (ggenai.Blob, bool) {
	if resp == nil {
		return ggenai.Blob{}, false
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			switch b := p.(type) {
			case ggenai.Blob:
				if len(b.Data) > 0 {
					return b, true
				}
			case *ggenai.Blob:
				if b != nil && len(b.Data) > 0 {
					return *b, true
				}
			}
		}
	}
	return ggenai.Blob{}, false
}
