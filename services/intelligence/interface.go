// File: services/intelligence/interface.go
package ai

import (
	"context"
	"time"

	"calbot/models"
)

// PhraseRequest carries everything the language service needs to turn a tool
// outcome into conversational prose.
type PhraseRequest struct {
	Message string
	Intent  models.Intent
	Outcome string
	History []models.Exchange
}

// LanguageService is the language-understanding collaborator. It returns
// free text with no schema guarantees; callers must defensively parse.
type LanguageService interface {
	// Classify returns the raw intent classification for a message.
	Classify(ctx context.Context, message string) (string, error)

	// ExtractEntities returns the model's structured-entity proposal as
	// text, nominally JSON.
	ExtractEntities(ctx context.Context, message string, intent models.Intent) (string, error)

	// Phrase renders a tool outcome as a natural reply.
	Phrase(ctx context.Context, req PhraseRequest) (string, error)
}

// GeminiService implements LanguageService on top of the Gemini client.
type GeminiService struct {
	client *GeminiClient
	now    func() time.Time
}

// NewGeminiService builds the default language service.
func NewGeminiService(apiKey, modelName string, temperature float64) *GeminiService {
	return &GeminiService{
		client: NewGeminiClient(apiKey, modelName, temperature),
		now:    time.Now,
	}
}

func (s *GeminiService) Classify(ctx context.Context, message string) (string, error) {
	return s.client.GenerateContent(ctx, classifyPrompt(message))
}

func (s *GeminiService) ExtractEntities(ctx context.Context, message string, intent models.Intent) (string, error) {
	return s.client.GenerateContent(ctx, extractPrompt(message, intent, s.now()))
}

func (s *GeminiService) Phrase(ctx context.Context, req PhraseRequest) (string, error) {
	return s.client.GenerateContent(ctx, phrasePrompt(req))
}
