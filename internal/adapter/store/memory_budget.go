package store

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// MemoryBudget is the in-process daily token budget used when no Redis is
// configured. Usage is lost on restart. The day rollover is detected lazily
// on every access, with an optional best-effort periodic sweep.
type MemoryBudget struct {
	mu        sync.Mutex
	usage     int
	limit     int
	resetDate string
	now       func() time.Time
}

func NewMemoryBudget(limit int) *MemoryBudget {
	b := &MemoryBudget{limit: limit, now: time.Now}
	b.resetDate = b.today()
	return b
}

// SetClock overrides the budget's clock. Test use only.
func (b *MemoryBudget) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

func (b *MemoryBudget) today() string {
	return b.now().Format("2006-01-02")
}

// resetIfNeeded zeroes usage exactly once per day rollover. Callers hold mu.
func (b *MemoryBudget) resetIfNeeded() {
	today := b.today()
	if b.resetDate != today {
		b.usage = 0
		b.resetDate = today
		log.Debug("daily token usage reset")
	}
}

func (b *MemoryBudget) Limit() int { return b.limit }

func (b *MemoryBudget) CurrentUsage(_ context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetIfNeeded()
	return b.usage, nil
}

func (b *MemoryBudget) TryReserve(_ context.Context, estimated int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetIfNeeded()
	return b.usage+estimated <= b.limit, nil
}

func (b *MemoryBudget) Commit(_ context.Context, actual int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetIfNeeded()
	b.usage += actual
	return nil
}

// StartSweeper runs a best-effort rollover check every interval until ctx is
// done. Rollover detection stays correct without it; this only bounds how
// long a stale counter can linger while the budget sits idle.
func (b *MemoryBudget) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.mu.Lock()
				b.resetIfNeeded()
				b.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()
}
