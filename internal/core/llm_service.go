package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"mango.movies/mango/internal/logging"
)

const (
	defaultModelName = "gemini-1.5-flash-latest"

	recommenderSystemInstruction = "You are a movie recommendation expert. " +
		"You only answer with the JSON document the user asks for, with no prose before or after it."
)

var ErrEmptyResponse = errors.New("llm returned no text")

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	Prompt    string
	MaxTokens int32
	// JSON asks the model for an application/json response.
	JSON bool
}

// Completer sends one prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type LLMService struct {
	client    *genai.Client
	modelName string
}

func NewLLMService(ctx context.Context, apiKey, modelName string) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if modelName == "" {
		modelName = defaultModelName
	}
	return &LLMService{client: client, modelName: modelName}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing GenAI client")
		} else {
			logging.Info().Msg("GenAI client closed")
		}
	}
}

// Complete makes exactly one GenerateContent call.
func (s *LLMService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(recommenderSystemInstruction)},
	}

	temp := float32(0.9)
	model.GenerationConfig = genai.GenerationConfig{Temperature: &temp}
	if req.MaxTokens > 0 {
		maxTokens := req.MaxTokens
		model.GenerationConfig.MaxOutputTokens = &maxTokens
	}
	if req.JSON {
		model.GenerationConfig.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			logging.Debug().Str("part_type", fmt.Sprintf("%T", part)).Msg("Skipping non-text Gemini part")
		}
	}

	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
