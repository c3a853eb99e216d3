package stats

import (
	"sync"
	"time"

	"github.com/claude/liftnotes/internal/models"
)

// Fingerprint identifies a document state cheaply: the number of sessions
// and the latest session date.
type Fingerprint struct {
	SessionCount int
	Latest       time.Time
}

// FingerprintOf computes the fingerprint of a parsed document.
func FingerprintOf(sessions []models.TrainingSession) Fingerprint {
	fp := Fingerprint{SessionCount: len(sessions)}
	for _, s := range sessions {
		if s.Date != nil && s.Date.After(fp.Latest) {
			fp.Latest = *s.Date
		}
	}
	return fp
}

// Cache memoises one Summary keyed by Fingerprint. Edits that keep the
// fingerprint unchanged (a new set in the latest session) are invisible to
// it, so callers must call Invalidate after every document change.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	key     Fingerprint
	summary *Summary
	expires time.Time
}

// NewCache creates a cache whose entries expire after ttl. A zero ttl never expires.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached summary for sessions, computing it on a miss.
func (c *Cache) Get(sessions []models.TrainingSession) *Summary {
	fp := FingerprintOf(sessions)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.summary != nil && c.key == fp && (c.ttl == 0 || now.Before(c.expires)) {
		return c.summary
	}

	c.summary = Summarize(sessions)
	c.key = fp
	c.expires = now.Add(c.ttl)
	return c.summary
}

// Invalidate drops the cached summary.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.summary = nil
	c.mu.Unlock()
}
