package attendance

import (
	"context"
	"fmt"

	"classroll/internal/model"
)

const messageEntity = "Message"

// SystemSender is the sender id used when no caller identity is available.
const SystemSender uint64 = 0

// Messages manages messages sent to students.
type Messages struct {
	c *core
}

// SendReminder stores a message for an existing student and hands it to the
// notifier. A notifier failure is logged and does not fail the call.
func (m *Messages) SendReminder(ctx context.Context, studentID uint64, content string, media *model.MultimediaContent, senderID uint64) (model.Message, error) {
	const op = "send_reminder_to_student"
	msg, err := m.store(ctx, op, studentID, content, media, senderID)
	if err != nil {
		return model.Message{}, err
	}

	if n := m.c.notifier; n != nil {
		if err := n.Notify(ctx, msg); err != nil {
			m.c.log.Warn().Err(err).Uint64("message_id", msg.ID).Msg("reminder publish failed")
		}
	}
	return msg, nil
}

func (m *Messages) store(ctx context.Context, op string, studentID uint64, content string, media *model.MultimediaContent, senderID uint64) (model.Message, error) {
	c := m.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := lookup(ctx, op, studentEntity, c.stores.Students, studentID); err != nil {
		return model.Message{}, err
	}
	if content == "" {
		return model.Message{}, invalidInput(op, "Reminder content cannot be empty")
	}

	build := func(id uint64) model.Message {
		return model.Message{
			ID:                id,
			SenderID:          senderID,
			ReceiverID:        studentID,
			Content:           content,
			MultimediaContent: media,
		}
	}
	return insertNew(ctx, c, op, messageEntity, c.stores.Messages, build)
}

// Get returns the message with id.
func (m *Messages) Get(ctx context.Context, id uint64) (model.Message, error) {
	return get(ctx, m.c, "get_message", messageEntity, m.c.stores.Messages, id)
}

// Update replaces the content and media of a message. Only the
// sender, identified by callerID, may do so; sender and receiver are kept.
func (m *Messages) Update(ctx context.Context, callerID, id uint64, content string, media *model.MultimediaContent) (model.Message, error) {
	const op = "update_message"
	if content == "" {
		return model.Message{}, invalidInput(op, "Message content cannot be empty")
	}

	c := m.c
	c.mu.Lock()
	defer c.mu.Unlock()

	msg, err := lookup(ctx, op, messageEntity, c.stores.Messages, id)
	if err != nil {
		return model.Message{}, err
	}
	if !CanEdit(callerID, msg) {
		return model.Message{}, invalidInput(op, fmt.Sprintf("caller %d is not the sender of message id=%d", callerID, id))
	}
	msg.Content = content
	msg.MultimediaContent = media
	if _, _, err := c.stores.Messages.Insert(ctx, id, msg); err != nil {
		return model.Message{}, storeErr(op, messageEntity, err)
	}
	return msg, nil
}

// CanEdit reports whether callerID may change msg.
func CanEdit(callerID uint64, msg model.Message) bool {
	return callerID == msg.SenderID
}

// Delete removes a message.
func (m *Messages) Delete(ctx context.Context, id uint64) error {
	return remove(ctx, m.c, "delete_message", messageEntity, m.c.stores.Messages, id)
}

// List returns every message ordered by id.
func (m *Messages) List(ctx context.Context) ([]model.Message, error) {
	return list(ctx, m.c, "list_messages", m.c.stores.Messages)
}
