package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"learnify-core/internal/domain/entity"
)

// MemoryCatalog is an in-process lexical index over knowledge chunks. The
// offline content job normally feeds a real text index; this catalog covers
// local runs and tests.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries []entity.CatalogEntry
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{}
}

func (c *MemoryCatalog) Add(entry entity.CatalogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	c.entries = append(c.entries, entry)
}

func (c *MemoryCatalog) Seed(entries []entity.CatalogEntry) {
	for _, e := range entries {
		c.Add(e)
	}
}

// Candidates returns up to limit entries whose title or content contains any
// of the terms, in insertion order. Scoring and ranking are the router's job.
func (c *MemoryCatalog) Candidates(_ context.Context, terms []string, limit int) ([]entity.CatalogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []entity.CatalogEntry
	for _, e := range c.entries {
		if limit > 0 && len(out) >= limit {
			break
		}
		titleLower := strings.ToLower(e.Title)
		contentLower := strings.ToLower(e.Content)
		for _, term := range terms {
			if strings.Contains(titleLower, term) || strings.Contains(contentLower, term) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}
