package entity

import (
	"encoding/json"
	"fmt"
)

// AIFeature identifies one of the supported AI capabilities.
type AIFeature string

const (
	FeatureQuizGeneration AIFeature = "quizGeneration"
	FeaturePDFChat        AIFeature = "pdfChat"
	FeatureLanguageTutor  AIFeature = "languageTutor"
)

func (f AIFeature) Valid() bool {
	switch f {
	case FeatureQuizGeneration, FeaturePDFChat, FeatureLanguageTutor:
		return true
	}
	return false
}

// EndpointPath is the provider-relative path serving this feature.
func (f AIFeature) EndpointPath() string {
	switch f {
	case FeatureQuizGeneration:
		return "/quiz/generate"
	case FeaturePDFChat:
		return "/chat/pdf"
	case FeatureLanguageTutor:
		return "/tutor/language"
	}
	return ""
}

// AIPayload is the immutable per-call request envelope.
type AIPayload struct {
	Feature AIFeature      `json:"feature"`
	Data    map[string]any `json:"data"`
}

// AIResponse is the gateway result envelope. Exactly one of Data/Error is
// populated depending on Success.
type AIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type QuizQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type QuizGenerationResult struct {
	Questions []QuizQuestion `json:"questions"`
}

type PDFChatResult struct {
	Response string `json:"response"`
}

type Correction struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
}

type LanguageTutorResult struct {
	Response    string       `json:"response"`
	Corrections []Correction `json:"corrections"`
}

// DecodeFeatureResult validates a raw provider body against the result
// schema for the given feature and returns the typed variant. A body that
// does not decode into the expected shape is a malformed response.
func DecodeFeatureResult(feature AIFeature, raw []byte) (any, error) {
	switch feature {
	case FeatureQuizGeneration:
		var out QuizGenerationResult
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("quiz result: %w", err)
		}
		if len(out.Questions) == 0 {
			return nil, fmt.Errorf("quiz result: no questions")
		}
		return out, nil
	case FeaturePDFChat:
		var out PDFChatResult
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("pdf chat result: %w", err)
		}
		if out.Response == "" {
			return nil, fmt.Errorf("pdf chat result: empty response")
		}
		return out, nil
	case FeatureLanguageTutor:
		var out LanguageTutorResult
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("tutor result: %w", err)
		}
		if out.Response == "" {
			return nil, fmt.Errorf("tutor result: empty response")
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown feature %q", feature)
}
