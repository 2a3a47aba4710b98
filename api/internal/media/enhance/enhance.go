// Package enhance rewrites short user prompts into detailed generation
// prompts with an OpenAI chat model.
package enhance

import (
	"context"

	"media-proxy/api/internal/media/openai"
)

// Modality selects the system prompt. Image prompts get visual detail,
// audio prompts get mood and instrumentation, video prompts get motion.
type Modality string

const (
	Image Modality = "image"
	Audio Modality = "audio"
	Video Modality = "video"
)

var systemPrompts = map[Modality]string{
	Image: "You are a prompt engineer for image generation models. " +
		"Rewrite the user's prompt into a single detailed image generation prompt. " +
		"Add concrete visual details: subject, setting, lighting, composition, mood. " +
		"Return only the rewritten prompt, no commentary.",
	Audio: "You are a prompt engineer for music generation models. " +
		"Rewrite the user's prompt into a single detailed music description. " +
		"Add genre, mood, tempo, instrumentation. " +
		"Return only the rewritten prompt, no commentary.",
	Video: "You are a prompt engineer for video generation models. " +
		"Rewrite the user's prompt into a single detailed video generation prompt. " +
		"Add subject, motion, camera movement, scene and lighting. " +
		"Return only the rewritten prompt, no commentary.",
}

type Service struct {
	Chat      *openai.Client
	ChatModel string
}

func New(chat *openai.Client, chatModel string) *Service {
	return &Service{Chat: chat, ChatModel: chatModel}
}

// Enhance returns the rewritten prompt for the given modality.
func (s *Service) Enhance(ctx context.Context, modality Modality, prompt string) (string, error) {
	system, ok := systemPrompts[modality]
	if !ok {
		system = systemPrompts[Image]
	}
	return s.Chat.Chat(ctx, s.ChatModel, system, prompt, 300)
}
