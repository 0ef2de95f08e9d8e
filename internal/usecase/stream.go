package usecase

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"learnify-core/internal/domain/entity"
	"learnify-core/internal/domain/repository"
	"learnify-core/internal/resilience"
)

const maxSources = 5

const fallbackMessage = `I'm here to help with your learning on Learnify!

**Learnify Features:**
- **Interactive Quizzes** - AI-generated questions to test knowledge
- **Courses** - Structured learning with progress tracking
- **PDF Tools** - Analyze documents and create study materials
- **Learning Roadmaps** - Guided paths for skill development
- **Expert Chat** - Connect with human experts for guidance
- **Community** - Collaborative learning with peers

What would you like to explore?`

// StreamPipeline turns a user query into a lazy sequence of answer
// fragments followed by exactly one terminal metadata event. Cancelling the
// context stops the upstream read and closes the sequence.
type StreamPipeline struct {
	search *SearchRouter
	chat   repository.ChatClient
	budget repository.TokenBudget

	// pace spaces fragment deliveries for a natural typing feel; wordPace
	// spaces the words of canned and fallback answers. Zero disables either,
	// which non-interactive callers should do.
	pace     time.Duration
	wordPace time.Duration
	sleep    resilience.Sleeper
}

type PipelineOption func(*StreamPipeline)

// WithPacing sets the fragment and word delivery delays.
func WithPacing(pace, wordPace time.Duration) PipelineOption {
	return func(p *StreamPipeline) {
		p.pace = pace
		p.wordPace = wordPace
	}
}

// WithPipelineSleeper overrides the pacing sleeper. Test use only.
func WithPipelineSleeper(s resilience.Sleeper) PipelineOption {
	return func(p *StreamPipeline) { p.sleep = s }
}

func NewStreamPipeline(search *SearchRouter, chat repository.ChatClient, budget repository.TokenBudget, opts ...PipelineOption) *StreamPipeline {
	p := &StreamPipeline{
		search:   search,
		chat:     chat,
		budget:   budget,
		pace:     30 * time.Millisecond,
		wordPace: 50 * time.Millisecond,
		sleep: func(ctx context.Context, d time.Duration) error {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// scoreConfidence grades how well-grounded an answer is in the retrieved
// knowledge and conversation context.
func scoreConfidence(items []entity.KnowledgeItem, history []entity.ConversationTurn) entity.Confidence {
	if len(items) == 0 {
		return entity.ConfidenceLow
	}

	var sum float64
	hasVector := false
	for _, item := range items {
		sum += item.Similarity
		if item.SearchMethod == entity.MethodVector {
			hasVector = true
		}
	}
	avg := sum / float64(len(items))

	switch {
	case avg > 0.8, hasVector && avg > 0.6, len(history) > 0:
		return entity.ConfidenceHigh
	case avg > 0.5, len(items) >= 3:
		return entity.ConfidenceMedium
	default:
		return entity.ConfidenceLow
	}
}

func sourceTitles(items []entity.KnowledgeItem) []string {
	if len(items) == 0 {
		return []string{platformGuideSource}
	}
	titles := make([]string, 0, maxSources)
	for _, item := range items {
		titles = append(titles, item.Title)
		if len(titles) == maxSources {
			break
		}
	}
	return titles
}

// Stream produces the answer to query as a channel of events. The channel
// always ends with one terminal event carrying sources and confidence, even
// when every upstream dependency fails.
func (p *StreamPipeline) Stream(ctx context.Context, query string, history []entity.ConversationTurn) <-chan entity.StreamEvent {
	out := make(chan entity.StreamEvent)
	go func() {
		defer close(out)

		items, method := p.search.Search(ctx, query)
		confidence := scoreConfidence(items, history)

		if len(items) == 0 {
			if canned, ok := KeywordResponse(query); ok {
				p.streamWords(ctx, out, canned, []string{platformGuideSource}, entity.ConfidenceMedium)
				return
			}
		}

		systemPrompt := BuildContextualPrompt(query, items, history, method)
		deltas, err := p.chat.Stream(ctx, systemPrompt, query)
		if err != nil {
			log.WithError(err).Error("streaming completion failed to start")
			p.streamWords(ctx, out, fallbackMessage, []string{platformGuideSource}, entity.ConfidenceMedium)
			return
		}

		for delta := range deltas {
			if delta.Err != nil {
				log.WithError(delta.Err).Error("stream aborted mid-flight")
				p.streamWords(ctx, out, fallbackMessage, []string{platformGuideSource}, entity.ConfidenceMedium)
				return
			}
			if delta.Text == "" {
				continue
			}
			if !p.emit(ctx, out, entity.StreamEvent{Fragment: delta.Text}) {
				return
			}
			if p.pace > 0 {
				if err := p.sleep(ctx, p.pace); err != nil {
					return
				}
			}
		}

		p.emit(ctx, out, entity.StreamEvent{
			Sources:    sourceTitles(items),
			Confidence: confidence,
			Terminal:   true,
		})
	}()
	return out
}

// Answer is the non-streaming form: same search, prompt and fallback
// behavior, returning the complete answer in one value.
func (p *StreamPipeline) Answer(ctx context.Context, query string, history []entity.ConversationTurn) *entity.KnowledgeAnswer {
	items, method := p.search.Search(ctx, query)
	confidence := scoreConfidence(items, history)

	if len(items) == 0 {
		if canned, ok := KeywordResponse(query); ok {
			return &entity.KnowledgeAnswer{
				Content:      canned,
				Sources:      []string{platformGuideSource},
				Confidence:   entity.ConfidenceMedium,
				SearchMethod: entity.MethodText,
			}
		}
	}

	systemPrompt := BuildContextualPrompt(query, items, history, method)
	content, err := p.chat.Complete(ctx, systemPrompt, query)
	if err != nil {
		log.WithError(err).Error("completion failed, serving fallback answer")
		return &entity.KnowledgeAnswer{
			Content:      fallbackMessage,
			Sources:      []string{platformGuideSource},
			Confidence:   entity.ConfidenceMedium,
			SearchMethod: entity.MethodText,
		}
	}

	usage, err := p.budget.CurrentUsage(ctx)
	if err != nil {
		usage = 0
	}
	return &entity.KnowledgeAnswer{
		Content:      content,
		Sources:      sourceTitles(items),
		Confidence:   confidence,
		SearchMethod: method,
		TokenUsage:   usage,
	}
}

// streamWords delivers text word by word at uniform pacing, then the
// terminal event.
func (p *StreamPipeline) streamWords(ctx context.Context, out chan<- entity.StreamEvent, text string, sources []string, confidence entity.Confidence) {
	words := strings.Split(text, " ")
	for i, word := range words {
		fragment := word
		if i > 0 {
			fragment = " " + word
		}
		if !p.emit(ctx, out, entity.StreamEvent{Fragment: fragment}) {
			return
		}
		if p.wordPace > 0 {
			if err := p.sleep(ctx, p.wordPace); err != nil {
				return
			}
		}
	}
	p.emit(ctx, out, entity.StreamEvent{Sources: sources, Confidence: confidence, Terminal: true})
}

func (p *StreamPipeline) emit(ctx context.Context, out chan<- entity.StreamEvent, ev entity.StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
