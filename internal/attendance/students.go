package attendance

import (
	"context"

	"classroll/internal/model"
)

const studentEntity = "Student"

// Students manages student records.
type Students struct {
	c *core
}

// StudentInput carries the writable student fields.
type StudentInput struct {
	Name              string
	ContactDetails    string
	AttendanceHistory string
}

func (in StudentInput) validate(op string) error {
	if in.Name == "" {
		return invalidInput(op, "Name cannot be empty")
	}
	return nil
}

func (in StudentInput) build(id uint64) model.Student {
	return model.Student{
		ID:                id,
		Name:              in.Name,
		ContactDetails:    in.ContactDetails,
		AttendanceHistory: in.AttendanceHistory,
	}
}

// Register creates a student.
func (s *Students) Register(ctx context.Context, in StudentInput) (model.Student, error) {
	const op = "register_student"
	if err := in.validate(op); err != nil {
		return model.Student{}, err
	}
	return create(ctx, s.c, op, studentEntity, s.c.stores.Students, in.build)
}

// Get returns the student with id.
func (s *Students) Get(ctx context.Context, id uint64) (model.Student, error) {
	return get(ctx, s.c, "get_student", studentEntity, s.c.stores.Students, id)
}

// Update replaces every field of an existing student.
func (s *Students) Update(ctx context.Context, id uint64, in StudentInput) (model.Student, error) {
	const op = "update_student"
	if err := in.validate(op); err != nil {
		return model.Student{}, err
	}
	return replace(ctx, s.c, op, studentEntity, s.c.stores.Students, id, in.build(id))
}

// Delete removes a student. Lectures, records and messages that reference
// the student are left in place.
func (s *Students) Delete(ctx context.Context, id uint64) error {
	return remove(ctx, s.c, "delete_student", studentEntity, s.c.stores.Students, id)
}

// List returns every student ordered by id.
func (s *Students) List(ctx context.Context) ([]model.Student, error) {
	return list(ctx, s.c, "list_students", s.c.stores.Students)
}
