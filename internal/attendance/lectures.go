package attendance

import (
	"context"

	"classroll/internal/model"
)

const lectureEntity = "Lecture"

// Lectures manages scheduled lectures.
type Lectures struct {
	c *core
}

// LectureInput carries the writable lecture fields. StudentID and
// LecturerID are stored as given.
type LectureInput struct {
	StudentID         uint64
	LecturerID        uint64
	DateTime          uint64
	Topic             string
	MultimediaContent *model.MultimediaContent
}

func (in LectureInput) validate(op string) error {
	if in.Topic == "" {
		return invalidInput(op, "Topic cannot be empty")
	}
	return nil
}

func (in LectureInput) build(id uint64) model.Lecture {
	return model.Lecture{
		ID:                id,
		StudentID:         in.StudentID,
		LecturerID:        in.LecturerID,
		DateTime:          in.DateTime,
		Topic:             in.Topic,
		MultimediaContent: in.MultimediaContent,
	}
}

// Schedule creates a lecture.
func (l *Lectures) Schedule(ctx context.Context, in LectureInput) (model.Lecture, error) {
	const op = "schedule_lecture"
	if err := in.validate(op); err != nil {
		return model.Lecture{}, err
	}
	return create(ctx, l.c, op, lectureEntity, l.c.stores.Lectures, in.build)
}

// Get returns the lecture with id.
func (l *Lectures) Get(ctx context.Context, id uint64) (model.Lecture, error) {
	return get(ctx, l.c, "get_lecture", lectureEntity, l.c.stores.Lectures, id)
}

// Update replaces every field of an existing lecture.
func (l *Lectures) Update(ctx context.Context, id uint64, in LectureInput) (model.Lecture, error) {
	const op = "update_lecture"
	if err := in.validate(op); err != nil {
		return model.Lecture{}, err
	}
	return replace(ctx, l.c, op, lectureEntity, l.c.stores.Lectures, id, in.build(id))
}

// Delete removes a lecture.
func (l *Lectures) Delete(ctx context.Context, id uint64) error {
	return remove(ctx, l.c, "delete_lecture", lectureEntity, l.c.stores.Lectures, id)
}

// List returns every lecture ordered by id.
func (l *Lectures) List(ctx context.Context) ([]model.Lecture, error) {
	return list(ctx, l.c, "list_lectures", l.c.stores.Lectures)
}
