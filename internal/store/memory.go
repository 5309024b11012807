package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process backend for tests and STORE_BACKEND=memory.
type Memory struct {
	mu       sync.Mutex
	regions  map[Region]map[uint64][]byte
	counters map[Region]uint64
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		regions:  make(map[Region]map[uint64][]byte),
		counters: make(map[Region]uint64),
	}
}

// Get returns a copy of the stored bytes.
func (m *Memory) Get(_ context.Context, region Region, id uint64) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.regions[region][id]
	if !ok {
		return nil, false, nil
	}
	return clone(data), true, nil
}

// Put upserts a record and returns the previous value.
func (m *Memory) Put(_ context.Context, region Region, id uint64, data []byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regions[region]
	if !ok {
		r = make(map[uint64][]byte)
		m.regions[region] = r
	}
	prev, existed := r[id]
	r[id] = clone(data)
	return prev, existed, nil
}

// Delete removes a record and returns it.
func (m *Memory) Delete(_ context.Context, region Region, id uint64) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, existed := m.regions[region][id]
	if existed {
		delete(m.regions[region], id)
	}
	return prev, existed, nil
}

// Scan materializes the whole region in key order.
func (m *Memory) Scan(_ context.Context, region Region) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.regions[region]
	out := make([]Entry, 0, len(r))
	for id, data := range r {
		out = append(out, Entry{ID: id, Data: clone(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Incr hands out the current counter value and advances it.
func (m *Memory) Incr(_ context.Context, region Region) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.counters[region]
	if !ok {
		v = 1
	}
	m.counters[region] = v + 1
	return v, nil
}

// Peek reads the value Incr would hand out next.
func (m *Memory) Peek(_ context.Context, region Region) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.counters[region]; ok {
		return v, nil
	}
	return 1, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
