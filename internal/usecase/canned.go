package usecase

import "regexp"

// platformGuideSource is the placeholder source used whenever no knowledge
// items back an answer.
const platformGuideSource = "Learnify Platform Guide"

var (
	platformIdentityPattern = regexp.MustCompile(`(?i)what is learnify|about learnify|learnify platform`)
	greetingPattern         = regexp.MustCompile(`(?i)\b(hello|hi|hey)\b`)
)

const platformIdentityResponse = `**Learnify** is an advanced AI-powered learning platform that revolutionizes education through intelligent technology!

**Core Features:**
- **Smart Quiz System** - Generate custom quizzes using AI from any topic or PDF
- **Course Management** - Structured learning paths with progress tracking and analytics
- **PDF Intelligence** - Interactive document analysis, chat, and study material generation
- **Learning Roadmaps** - Guided skill development from beginner to expert levels
- **Expert Support** - Direct access to human mentors for personalized guidance
- **Community Learning** - Collaborative features with peer interaction and knowledge sharing

**AI-Powered Intelligence:**
Adaptive learning algorithms that personalize your experience, comprehensive analytics to track progress, dynamic difficulty adjustment based on performance, and intelligent recommendations for optimal learning paths.

Ready to transform your learning journey? What subject would you like to explore first?`

const greetingResponse = `Hello! Welcome to Learnify's AI Learning Assistant!

I'm powered by a hybrid knowledge base system that combines:
- **Vector Search** - For deep semantic understanding
- **Text Search** - For fast, accurate results
- **Smart Routing** - Choosing the best method for your query

**I can help you with:**
- Platform features and capabilities
- Learning strategies and study tips
- Course and quiz recommendations
- PDF analysis and document processing
- Technical support and guidance

What would you like to learn about today?`

// KeywordResponse returns a canned answer for a small set of common intents
// (platform identity, greetings). Used only when retrieval found nothing.
func KeywordResponse(query string) (string, bool) {
	switch {
	case platformIdentityPattern.MatchString(query):
		return platformIdentityResponse, true
	case greetingPattern.MatchString(query):
		return greetingResponse, true
	}
	return "", false
}
