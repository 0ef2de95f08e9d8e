package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnify-core/internal/domain/entity"
)

func seededCatalog() *MemoryCatalog {
	c := NewMemoryCatalog()
	c.Seed([]entity.CatalogEntry{
		{ID: "roadmaps", Title: "Learning Roadmaps", Content: "Guided learning paths.", Type: "feature"},
		{ID: "courses", Title: "Course Management", Content: "Create and track courses.", Type: "feature"},
		{ID: "quizzes", Title: "Quiz Generation", Content: "AI generated quizzes on any topic.", Type: "feature"},
	})
	return c
}

func TestCatalogCandidatesMatchTitleOrContent(t *testing.T) {
	c := seededCatalog()

	got, err := c.Candidates(context.Background(), []string{"roadmaps"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "roadmaps", got[0].ID)

	// Content-only match.
	got, err = c.Candidates(context.Background(), []string{"topic"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "quizzes", got[0].ID)
}

func TestCatalogCandidatesInsertionOrderAndLimit(t *testing.T) {
	c := seededCatalog()

	// "learning" hits roadmaps title and content; "course" hits courses.
	got, err := c.Candidates(context.Background(), []string{"learning", "course"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "roadmaps", got[0].ID)
	assert.Equal(t, "courses", got[1].ID)

	got, err = c.Candidates(context.Background(), []string{"learning", "course"}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "roadmaps", got[0].ID)
}

func TestCatalogCandidatesNoMatch(t *testing.T) {
	c := seededCatalog()
	got, err := c.Candidates(context.Background(), []string{"astronomy"}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogAddAssignsID(t *testing.T) {
	c := NewMemoryCatalog()
	c.Add(entity.CatalogEntry{Title: "Untitled", Content: "body"})

	got, err := c.Candidates(context.Background(), []string{"untitled"}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
}

func TestCatalogEntryMatchedOncePerEntry(t *testing.T) {
	c := seededCatalog()

	// Multiple terms hitting the same entry must not duplicate it.
	got, err := c.Candidates(context.Background(), []string{"quiz", "topic", "generated"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "quizzes", got[0].ID)
}
