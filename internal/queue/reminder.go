package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"classroll/internal/model"
)

// TypeReminder tags messages carrying a stored model.Message.
const TypeReminder = "reminder"

// Notifier publishes stored reminders onto a Queue.
type Notifier struct {
	q Queue
}

// NewNotifier wraps q.
func NewNotifier(q Queue) *Notifier {
	return &Notifier{q: q}
}

// Notify enqueues msg for delivery.
func (n *Notifier) Notify(ctx context.Context, msg model.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}
	return n.q.Publish(ctx, Message{ID: uuid.NewString(), Type: TypeReminder, Body: body})
}

// DecodeReminder extracts the stored message from a reminder.
func DecodeReminder(msg Message) (model.Message, error) {
	if msg.Type != TypeReminder {
		return model.Message{}, fmt.Errorf("queue: %q is not a reminder", msg.Type)
	}
	var out model.Message
	if err := json.Unmarshal(msg.Body, &out); err != nil {
		return model.Message{}, fmt.Errorf("decode reminder %s: %w", msg.ID, err)
	}
	return out, nil
}
