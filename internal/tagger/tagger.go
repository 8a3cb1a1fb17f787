package tagger

import (
	"context"
	"sync"

	"anglicorpus/internal/vocab"
)

// Cache memoizes successful lookups of another tagger. Failures are not
// cached so a transient outage does not pin a word to a wrong tag.
type Cache struct {
	next vocab.Tagger

	mu   sync.Mutex
	tags map[string]vocab.POS
}

// NewCache wraps next with a per-process cache.
func NewCache(next vocab.Tagger) *Cache {
	return &Cache{next: next, tags: make(map[string]vocab.POS)}
}

// Tag returns the cached tag for word or asks the wrapped tagger.
func (c *Cache) Tag(ctx context.Context, word string) (vocab.POS, error) {
	c.mu.Lock()
	pos, ok := c.tags[word]
	c.mu.Unlock()
	if ok {
		return pos, nil
	}
	pos, err := c.next.Tag(ctx, word)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.tags[word] = pos
	c.mu.Unlock()
	return pos, nil
}
