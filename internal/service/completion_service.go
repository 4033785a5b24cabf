package service

import (
	"context"
	"fmt"

	"github.com/aulago/campus/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// CompletionService is the boundary to the external text-completion model.
// Callers bound the output length and pick the sampling temperature per
// call; the prompt is plain text.
type CompletionService interface {
	Complete(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error)
}

type geminiCompletionService struct {
	client    *genai.Client
	modelName string
}

func NewCompletionService(cfg *config.Config) (CompletionService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. CompletionService will be non-functional.")
		return &geminiCompletionService{client: nil, modelName: "gemini-1.5-flash"}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiCompletionService{client: client, modelName: "gemini-1.5-flash"}, nil
}

func (s *geminiCompletionService) Complete(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	genModel := s.client.GenerativeModel(s.modelName)
	genModel.SetMaxOutputTokens(maxTokens)
	genModel.SetTemperature(temperature)

	resp, err := genModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	fullText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}
	if fullText == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return fullText, nil
}
