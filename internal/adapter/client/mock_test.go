package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnify-core/internal/domain/entity"
)

func TestMockQuizGeneration(t *testing.T) {
	m := NewMockResponder()
	resp, err := m.Call(context.Background(), entity.FeatureQuizGeneration, map[string]any{
		"topic":        "algebra",
		"numQuestions": float64(3),
		"difficulty":   "hard",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)

	quiz, ok := resp.Data.(entity.QuizGenerationResult)
	require.True(t, ok)
	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, 1, quiz.Questions[0].ID)
	assert.Contains(t, quiz.Questions[0].Text, "algebra")
	assert.Contains(t, quiz.Questions[0].Text, "hard")
	assert.Len(t, quiz.Questions[0].Options, 4)
}

func TestMockQuizDefaults(t *testing.T) {
	m := NewMockResponder()
	resp, err := m.Call(context.Background(), entity.FeatureQuizGeneration, map[string]any{})
	require.NoError(t, err)

	quiz := resp.Data.(entity.QuizGenerationResult)
	assert.Len(t, quiz.Questions, 1)
	assert.Contains(t, quiz.Questions[0].Text, "medium")
}

func TestMockPDFChatEchoesQuery(t *testing.T) {
	m := NewMockResponder()
	resp, err := m.Call(context.Background(), entity.FeaturePDFChat, map[string]any{"query": "summarize chapter 2"})
	require.NoError(t, err)

	chat := resp.Data.(entity.PDFChatResult)
	assert.Equal(t, "Mock response to query: summarize chapter 2", chat.Response)
}

func TestMockLanguageTutor(t *testing.T) {
	m := NewMockResponder()
	resp, err := m.Call(context.Background(), entity.FeatureLanguageTutor, map[string]any{
		"prompt":   "yo querer manzana",
		"language": "Spanish",
	})
	require.NoError(t, err)

	tutor := resp.Data.(entity.LanguageTutorResult)
	assert.Contains(t, tutor.Response, "Spanish")
	assert.Contains(t, tutor.Response, "beginner")
	require.Len(t, tutor.Corrections, 1)
	assert.Equal(t, "yo querer manzana", tutor.Corrections[0].Original)
}

func TestMockLanguageTutorNoPromptNoCorrections(t *testing.T) {
	m := NewMockResponder()
	resp, err := m.Call(context.Background(), entity.FeatureLanguageTutor, map[string]any{"language": "French"})
	require.NoError(t, err)

	tutor := resp.Data.(entity.LanguageTutorResult)
	assert.Empty(t, tutor.Corrections)
}

func TestMockUnsupportedFeature(t *testing.T) {
	m := NewMockResponder()
	resp, err := m.Call(context.Background(), entity.AIFeature("imageGeneration"), nil)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}
