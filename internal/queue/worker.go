package queue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"classroll/internal/model"
)

// Handler processes one decoded reminder.
type Handler func(ctx context.Context, msg model.Message) error

// Run consumes q until ctx is done and hands every reminder to h. Failures
// are logged and the message is dropped.
func Run(ctx context.Context, q Queue, h Handler, log zerolog.Logger) error {
	msgs, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("queue consume init: %w", err)
	}
	for m := range msgs {
		if m.Type != TypeReminder {
			log.Debug().Str("type", m.Type).Str("queue_id", m.ID).Msg("skipping message")
			continue
		}
		rem, err := DecodeReminder(m)
		if err != nil {
			log.Warn().Err(err).Str("queue_id", m.ID).Msg("bad reminder payload")
			continue
		}
		if err := h(ctx, rem); err != nil {
			log.Warn().Err(err).Str("queue_id", m.ID).Uint64("message_id", rem.ID).Msg("reminder delivery failed")
		}
	}
	return nil
}

// StudentLookup resolves the receiver of a reminder.
type StudentLookup interface {
	Get(ctx context.Context, id uint64) (model.Student, error)
}

// LogDelivery returns a Handler that resolves the receiving student and
// records the delivery in the log.
func LogDelivery(students StudentLookup, log zerolog.Logger) Handler {
	return func(ctx context.Context, msg model.Message) error {
		st, err := students.Get(ctx, msg.ReceiverID)
		if err != nil {
			return fmt.Errorf("resolve receiver: %w", err)
		}
		log.Info().
			Uint64("message_id", msg.ID).
			Uint64("sender_id", msg.SenderID).
			Uint64("student_id", st.ID).
			Str("contact", st.ContactDetails).
			Msg("reminder delivered")
		return nil
	}
}
