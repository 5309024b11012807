package store

import (
	"context"
	"fmt"
)

// Counter is the identifier allocator shared by every entity kind.
type Counter struct {
	backend Backend
}

// NewCounter allocates ids from the backend's RegionCounter counter.
func NewCounter(backend Backend) *Counter {
	return &Counter{backend: backend}
}

// Next returns a fresh id. Ids are strictly increasing and never reused.
func (c *Counter) Next(ctx context.Context) (uint64, error) {
	id, err := c.backend.Incr(ctx, RegionCounter)
	if err != nil {
		return 0, fmt.Errorf("increment id counter: %w", err)
	}
	return id, nil
}

// Peek returns the id Next will hand out, as long as nothing else draws
// one first.
func (c *Counter) Peek(ctx context.Context) (uint64, error) {
	id, err := c.backend.Peek(ctx, RegionCounter)
	if err != nil {
		return 0, fmt.Errorf("read id counter: %w", err)
	}
	return id, nil
}
