package client

import (
	"context"
	"fmt"

	"learnify-core/internal/domain/entity"
)

// MockResponder is the deterministic last link of the gateway's fallback
// chain. No I/O, never fails: it synthesizes a structurally valid result for
// every feature so the gateway's "always resolves" contract holds offline.
type MockResponder struct{}

func NewMockResponder() *MockResponder { return &MockResponder{} }

func (m *MockResponder) Name() string { return "mock" }

func (m *MockResponder) Call(_ context.Context, feature entity.AIFeature, data map[string]any) (*entity.AIResponse, error) {
	switch feature {
	case entity.FeatureQuizGeneration:
		topic := stringField(data, "topic", "general knowledge")
		difficulty := stringField(data, "difficulty", "medium")
		n := intField(data, "numQuestions", 1)
		questions := make([]entity.QuizQuestion, n)
		for i := range questions {
			questions[i] = entity.QuizQuestion{
				ID:      i + 1,
				Text:    fmt.Sprintf("Sample question about %s (%s)", topic, difficulty),
				Options: []string{"Option A", "Option B", "Option C", "Option D"},
			}
		}
		return &entity.AIResponse{Success: true, Data: entity.QuizGenerationResult{Questions: questions}}, nil

	case entity.FeaturePDFChat:
		query := stringField(data, "query", "")
		return &entity.AIResponse{
			Success: true,
			Data:    entity.PDFChatResult{Response: "Mock response to query: " + query},
		}, nil

	case entity.FeatureLanguageTutor:
		prompt := stringField(data, "prompt", "")
		language := stringField(data, "language", "")
		level := stringField(data, "level", "beginner")
		result := entity.LanguageTutorResult{
			Response:    fmt.Sprintf("Mock %s tutor response for %s level: %s", language, level, prompt),
			Corrections: []entity.Correction{},
		}
		if prompt != "" {
			result.Corrections = []entity.Correction{{Original: prompt, Corrected: "Corrected: " + prompt}}
		}
		return &entity.AIResponse{Success: true, Data: result}, nil
	}
	return &entity.AIResponse{Success: false, Error: "Feature not supported"}, nil
}

func stringField(data map[string]any, key, def string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return def
}

func intField(data map[string]any, key string, def int) int {
	switch v := data[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		// JSON numbers decode as float64.
		if v > 0 {
			return int(v)
		}
	}
	return def
}
