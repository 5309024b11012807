// Package attendance implements the student, lecture, attendance record and
// messaging operations over the entity stores.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"classroll/internal/model"
	"classroll/internal/store"
)

// Notifier is told about every reminder that was stored.
type Notifier interface {
	Notify(ctx context.Context, msg model.Message) error
}

// Service bundles the four entity services. Every operation runs under one
// lock, so an operation's writes are visible in full to every later one.
type Service struct {
	Students   *Students
	Lectures   *Lectures
	Attendance *Records
	Messages   *Messages
}

// Option configures a Service.
type Option func(*core)

// WithNotifier publishes created reminders to n.
func WithNotifier(n Notifier) Option {
	return func(c *core) { c.notifier = n }
}

// WithLogger sets the logger used for reminder publish failures.
func WithLogger(log zerolog.Logger) Option {
	return func(c *core) { c.log = log }
}

// NewService creates a service backed by stores.
func NewService(stores Stores, opts ...Option) *Service {
	c := &core{stores: stores, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return &Service{
		Students:   &Students{c: c},
		Lectures:   &Lectures{c: c},
		Attendance: &Records{c: c},
		Messages:   &Messages{c: c},
	}
}

type core struct {
	mu       sync.Mutex
	stores   Stores
	notifier Notifier
	log      zerolog.Logger
}

func create[T any](ctx context.Context, c *core, op, entity string, m *store.Map[T], build func(id uint64) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return insertNew(ctx, c, op, entity, m, build)
}

// insertNew sizes the record with the id the counter hands out next and only
// then draws it, so a rejected record never consumes an id. c.mu must be held.
func insertNew[T any](ctx context.Context, c *core, op, entity string, m *store.Map[T], build func(id uint64) T) (T, error) {
	var zero T
	next, err := c.stores.IDs.Peek(ctx)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	if err := m.Check(build(next)); err != nil {
		return zero, storeErr(op, entity, err)
	}
	id, err := c.stores.IDs.Next(ctx)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	v := build(id)
	if _, _, err := m.Insert(ctx, id, v); err != nil {
		return zero, storeErr(op, entity, err)
	}
	return v, nil
}

func get[T any](ctx context.Context, c *core, op, entity string, m *store.Map[T], id uint64) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lookup(ctx, op, entity, m, id)
}

// lookup expects c.mu to be held.
func lookup[T any](ctx context.Context, op, entity string, m *store.Map[T], id uint64) (T, error) {
	v, ok, err := m.Get(ctx, id)
	if err != nil {
		return v, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return v, notFound(op, entity, id)
	}
	return v, nil
}

// replace overwrites an existing record; a missing id is reported without
// writing anything.
func replace[T any](ctx context.Context, c *core, op, entity string, m *store.Map[T], id uint64, v T) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := lookup(ctx, op, entity, m, id); err != nil {
		return zero, err
	}
	if _, _, err := m.Insert(ctx, id, v); err != nil {
		return zero, storeErr(op, entity, err)
	}
	return v, nil
}

func remove[T any](ctx context.Context, c *core, op, entity string, m *store.Map[T], id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, existed, err := m.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !existed {
		return notFound(op, entity, id)
	}
	return nil
}

func list[T any](ctx context.Context, c *core, op string, m *store.Map[T]) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := m.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return all, nil
}

func storeErr(op, entity string, err error) error {
	if errors.Is(err, store.ErrTooLarge) {
		return tooLarge(op, entity, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
