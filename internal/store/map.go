package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMaxRecordSize is the per-record ceiling on encoded bytes.
const DefaultMaxRecordSize = 2048

// ErrTooLarge is returned when an encoded record exceeds the ceiling.
var ErrTooLarge = errors.New("record exceeds size limit")

// Map is a typed view over one backend region. Values are JSON encoded.
type Map[T any] struct {
	backend Backend
	region  Region
	maxSize int
}

// NewMap builds a Map over region. maxSize <= 0 selects DefaultMaxRecordSize.
func NewMap[T any](backend Backend, region Region, maxSize int) *Map[T] {
	if maxSize <= 0 {
		maxSize = DefaultMaxRecordSize
	}
	return &Map[T]{backend: backend, region: region, maxSize: maxSize}
}

// Region returns the region this map lives in.
func (m *Map[T]) Region() Region { return m.region }

// Check reports ErrTooLarge if v would not fit.
func (m *Map[T]) Check(v T) error {
	_, err := m.encode(v)
	return err
}

// Get looks up id. A miss is not an error.
func (m *Map[T]) Get(ctx context.Context, id uint64) (T, bool, error) {
	var zero T
	data, ok, err := m.backend.Get(ctx, m.region, id)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := m.decode(id, data)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Insert upserts v under id and returns the value it replaced, if any.
func (m *Map[T]) Insert(ctx context.Context, id uint64, v T) (T, bool, error) {
	var zero T
	data, err := m.encode(v)
	if err != nil {
		return zero, false, err
	}
	prev, existed, err := m.backend.Put(ctx, m.region, id, data)
	if err != nil || !existed {
		return zero, false, err
	}
	old, err := m.decode(id, prev)
	if err != nil {
		return zero, true, err
	}
	return old, true, nil
}

// Remove deletes id and returns the removed value, if any.
func (m *Map[T]) Remove(ctx context.Context, id uint64) (T, bool, error) {
	var zero T
	prev, existed, err := m.backend.Delete(ctx, m.region, id)
	if err != nil || !existed {
		return zero, false, err
	}
	old, err := m.decode(id, prev)
	if err != nil {
		return zero, true, err
	}
	return old, true, nil
}

// List returns every value in ascending id order.
func (m *Map[T]) List(ctx context.Context) ([]T, error) {
	entries, err := m.backend.Scan(ctx, m.region)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		v, err := m.decode(e.ID, e.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Map[T]) encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", m.region, err)
	}
	if len(data) > m.maxSize {
		return nil, fmt.Errorf("%w: %s record is %d bytes, limit %d", ErrTooLarge, m.region, len(data), m.maxSize)
	}
	return data, nil
}

func (m *Map[T]) decode(id uint64, data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s record id=%d: %w", m.region, id, err)
	}
	return v, nil
}
