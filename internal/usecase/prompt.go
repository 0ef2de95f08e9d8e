package usecase

import (
	"fmt"
	"strings"

	"learnify-core/internal/domain/entity"
)

const historyWindow = 6

const platformOverview = `You are an advanced AI learning assistant for Learnify, powered by a hybrid knowledge base system that combines semantic vector search with intelligent text matching.

PLATFORM OVERVIEW:
Learnify is a comprehensive AI-powered learning platform featuring:
- Interactive Quiz System with AI for contextual question generation
- Course Management with progress tracking and multimedia content
- Advanced PDF Tools for document analysis and interactive learning
- Learning Roadmaps with structured skill development paths
- Expert Chat for human mentorship and personalized guidance
- Community Learning with collaborative features and peer interaction
- AI Analytics and personalized recommendations

RESPONSE GUIDELINES:
1. Provide helpful, encouraging, and educational responses
2. Use the provided context to give accurate, specific answers
3. Reference sources naturally when information is available
4. For limited context, provide general guidance about Learnify features
5. Maintain a supportive, professional learning tone
6. Include actionable next steps when possible
7. Format responses clearly with emphasis and structure
8. Consider conversation history for context-aware responses
9. Build upon previous discussions naturally`

func methodExplanation(method entity.SearchMethod) string {
	switch method {
	case entity.MethodHybrid:
		return "(Combined vector semantic search + intelligent text matching)"
	case entity.MethodVector:
		return "(Semantic vector search for deep understanding)"
	default:
		return "(Intelligent text search for fast, accurate results)"
	}
}

// BuildContextualPrompt assembles the system prompt from retrieved knowledge,
// recent conversation history and the static platform description. Pure
// function, no I/O.
func BuildContextualPrompt(userQuery string, items []entity.KnowledgeItem, history []entity.ConversationTurn, method entity.SearchMethod) string {
	sections := make([]string, 0, len(items))
	for i, item := range items {
		similarityText := ""
		if item.Similarity > 0 {
			similarityText = fmt.Sprintf(" (%.1f%%)", item.Similarity*100)
		}
		sections = append(sections, fmt.Sprintf("[Source %d: %s%s]\n%s", i+1, item.Title, similarityText, item.Content))
	}
	context := "No specific content found in knowledge base."
	if len(sections) > 0 {
		context = strings.Join(sections, "\n\n---\n\n")
	}

	conversationContext := ""
	if len(history) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		lines := make([]string, 0, len(recent))
		for _, turn := range recent {
			lines = append(lines, strings.ToUpper(turn.Role)+": "+turn.Content)
		}
		conversationContext = "\n\nCONVERSATION HISTORY:\n" + strings.Join(lines, "\n") + "\n\n"
	}

	var b strings.Builder
	b.WriteString(platformOverview)
	b.WriteString("\n\nKNOWLEDGE BASE CONTEXT:\n")
	b.WriteString(context)
	b.WriteString("\n\nSEARCH METHOD: ")
	b.WriteString(strings.ToUpper(string(method)))
	b.WriteString("\n")
	b.WriteString(methodExplanation(method))
	b.WriteString(conversationContext)
	b.WriteString("\n\nCurrent Query: ")
	b.WriteString(userQuery)
	b.WriteString("\n\nBased on this context, conversation history, and your knowledge of learning platforms, provide a comprehensive response to the user's question. If the context doesn't fully address their question, acknowledge this and provide helpful guidance while highlighting relevant Learnify features.")
	return b.String()
}
