package usecase

import (
	"context"
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"learnify-core/internal/domain/entity"
	"learnify-core/internal/domain/repository"
)

const (
	maxSearchResults    = 8
	vectorMatchCount    = 5
	supplementCount     = 3
	similarityThreshold = 0.6
)

// Complexity indicators: queries matching any of these go through the
// semantic path when the token budget allows it.
var complexityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)explain|how does|what is the difference|compare|analyze|detailed|comprehensive`),
	regexp.MustCompile(`(?i)relationship|connection|similar|related|analogy`),
	regexp.MustCompile(`(?i)best practice|strategy|approach|methodology`),
	regexp.MustCompile(`(?i)troubleshoot|debug|solve|problem|issue`),
	regexp.MustCompile(`(?i)recommend|suggest|advise|guide`),
}

// Relevance weight by content type, applied during lexical scoring.
var typeRelevance = map[string]float64{
	"page":    0.9,
	"feature": 0.8,
	"guide":   0.7,
	"course":  0.6,
	"quiz":    0.5,
}

// SearchRouter chooses between lexical and semantic retrieval per query and
// merges the results. The shared token budget is the only state that
// survives between calls.
type SearchRouter struct {
	text     repository.TextIndex
	vector   repository.VectorIndex
	embedder repository.Embedder
	budget   repository.TokenBudget
}

func NewSearchRouter(text repository.TextIndex, vector repository.VectorIndex, embedder repository.Embedder, budget repository.TokenBudget) *SearchRouter {
	return &SearchRouter{text: text, vector: vector, embedder: embedder, budget: budget}
}

// estimateTokens approximates 1 token per 4 characters, rounded up.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

func queryTerms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) > 2 {
			terms = append(terms, t)
		}
	}
	return terms
}

// ShouldUseVectorSearch gates the semantic path on the daily budget first,
// then on query complexity (keyword patterns or more than 5 words).
func (r *SearchRouter) ShouldUseVectorSearch(ctx context.Context, query string) bool {
	usage, err := r.budget.CurrentUsage(ctx)
	if err != nil {
		log.WithError(err).Warn("token budget read failed, conserving with text search")
		return false
	}
	if usage >= r.budget.Limit() {
		log.Debug("token limit reached, using text search only")
		return false
	}

	for _, p := range complexityPatterns {
		if p.MatchString(query) {
			return true
		}
	}
	return len(strings.Fields(query)) > 5
}

// Search returns at most 8 ranked knowledge items and the overall method
// used. Vector-path failures degrade silently to lexical search; the caller
// never sees a retrieval error.
func (r *SearchRouter) Search(ctx context.Context, query string) ([]entity.KnowledgeItem, entity.SearchMethod) {
	if r.ShouldUseVectorSearch(ctx, query) {
		vectorResults := r.vectorSearch(ctx, query)
		if len(vectorResults) > 0 {
			return r.supplementWithText(ctx, query, vectorResults), entity.MethodHybrid
		}
		log.Debug("vector search produced no results, falling back to text search")
	}
	return r.textSearch(ctx, query, maxSearchResults), entity.MethodText
}

func (r *SearchRouter) vectorSearch(ctx context.Context, query string) []entity.KnowledgeItem {
	if r.vector == nil || r.embedder == nil {
		return nil
	}

	// Second budget gate: projected usage must fit under the limit before
	// the embedding call is made.
	estimated := estimateTokens(query)
	ok, err := r.budget.TryReserve(ctx, estimated)
	if err != nil || !ok {
		log.WithError(err).Debug("would exceed token limit, skipping vector search")
		return nil
	}

	input := strings.TrimSpace(strings.ReplaceAll(query, "\n", " "))
	vector, reported, err := r.embedder.CreateEmbedding(ctx, input)
	if err != nil {
		log.WithError(err).Warn("vector embedding failed")
		return nil
	}

	// Charge actual usage when the provider reports it, the estimate
	// otherwise. The charge is never rolled back.
	charge := reported
	if charge == 0 {
		charge = estimated
	}
	if err := r.budget.Commit(ctx, charge); err != nil {
		log.WithError(err).Warn("failed to commit token usage")
	}

	items, err := r.vector.Search(ctx, vector, similarityThreshold, vectorMatchCount)
	if err != nil {
		log.WithError(err).Warn("vector search failed")
		return nil
	}
	for i := range items {
		items[i].SearchMethod = entity.MethodVector
	}
	return items
}

// supplementWithText adds up to 3 lexical results not already present,
// tagged hybrid, and truncates the merged list to 8.
func (r *SearchRouter) supplementWithText(ctx context.Context, query string, vectorResults []entity.KnowledgeItem) []entity.KnowledgeItem {
	seen := make(map[string]bool, len(vectorResults))
	for _, item := range vectorResults {
		seen[item.ID] = true
	}

	combined := vectorResults
	for _, item := range r.textSearch(ctx, query, supplementCount) {
		if seen[item.ID] {
			continue
		}
		item.SearchMethod = entity.MethodHybrid
		combined = append(combined, item)
		seen[item.ID] = true
	}
	if len(combined) > maxSearchResults {
		combined = combined[:maxSearchResults]
	}
	return combined
}

func (r *SearchRouter) textSearch(ctx context.Context, query string, limit int) []entity.KnowledgeItem {
	terms := queryTerms(query)
	entries, err := r.text.Candidates(ctx, terms, limit)
	if err != nil {
		log.WithError(err).Warn("text search failed")
		return nil
	}

	queryLower := strings.ToLower(query)
	items := make([]entity.KnowledgeItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, entity.KnowledgeItem{
			ID:           e.ID,
			Content:      e.Content,
			Type:         e.Type,
			Title:        e.Title,
			Similarity:   scoreEntry(e, queryLower, terms),
			SearchMethod: entity.MethodText,
		})
	}
	// Stable sort keeps retrieval order for tied scores.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Similarity > items[j].Similarity
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func scoreEntry(e entity.CatalogEntry, queryLower string, terms []string) float64 {
	titleLower := strings.ToLower(e.Title)
	contentLower := strings.ToLower(e.Content)

	var score float64
	if strings.Contains(titleLower, queryLower) || strings.Contains(contentLower, queryLower) {
		score += 1.0
	}
	for _, term := range terms {
		if strings.Contains(titleLower, term) {
			score += 0.3
		}
		if strings.Contains(contentLower, term) {
			score += 0.1
		}
	}

	if w, ok := typeRelevance[e.Type]; ok {
		score += w
	} else {
		score += 0.4
	}

	for _, term := range terms {
		for _, keyword := range e.Keywords {
			if strings.Contains(strings.ToLower(keyword), term) {
				score += 0.2
				break
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
