// Package dream composes two provider calls: an OpenAI reading of the
// dream and an Imagen visualization of it.
package dream

import (
	"context"
	"fmt"
	"log"

	"media-proxy/api/internal/media"
	"media-proxy/api/internal/media/openai"
	"media-proxy/api/internal/util"
)

const interpreterSystem = "You are a dream analyst. Provide a brief, insightful dream interpretation."

// Service interprets a dream and renders it. The image generator is any
// media.Generator so tests can stub it.
type Service struct {
	Chat      *openai.Client
	ChatModel string
	Image     media.Generator
}

func New(chat *openai.Client, chatModel string, image media.Generator) *Service {
	return &Service{Chat: chat, ChatModel: chatModel, Image: image}
}

type Result struct {
	ImageURL       string
	Interpretation string
	Filename       string
}

func (s *Service) Interpret(ctx context.Context, req media.Request) (Result, error) {
	interpretation, err := s.Chat.Chat(ctx, s.ChatModel, interpreterSystem,
		"Interpret this dream: "+req.Prompt, 200)
	if err != nil {
		// the image is the product; a failed reading degrades to a canned one
		log.Printf("dream interpretation failed, using fallback text: %v", err)
		interpretation = fmt.Sprintf("A dream about %s often represents subconscious thoughts and emotions.",
			util.Truncate(req.Prompt, 30))
	}

	imageReq := req
	imageReq.Prompt = fmt.Sprintf("Dreamy, surreal visualization of: %s. Ethereal, mystical atmosphere.", req.Prompt)
	res, err := s.Image.Generate(ctx, imageReq)
	if err != nil {
		return Result{}, err
	}
	return Result{
		ImageURL:       res.MediaURL,
		Interpretation: interpretation,
		Filename:       res.Filename,
	}, nil
}
