package attendance

import (
	"context"

	"classroll/internal/model"
)

const recordEntity = "Attendance record"

// Records manages attendance records. No field is required.
type Records struct {
	c *core
}

// RecordInput carries the writable attendance record fields.
type RecordInput struct {
	StudentID        uint64
	AttendanceStatus string
}

func (in RecordInput) build(id uint64) model.AttendanceRecord {
	return model.AttendanceRecord{
		ID:               id,
		StudentID:        in.StudentID,
		AttendanceStatus: in.AttendanceStatus,
	}
}

// Mark creates an attendance record.
func (r *Records) Mark(ctx context.Context, in RecordInput) (model.AttendanceRecord, error) {
	return create(ctx, r.c, "mark_attendance", recordEntity, r.c.stores.Attendance, in.build)
}

// Get returns the attendance record with id.
func (r *Records) Get(ctx context.Context, id uint64) (model.AttendanceRecord, error) {
	return get(ctx, r.c, "get_attendance_record", recordEntity, r.c.stores.Attendance, id)
}

// Update replaces every field of an existing attendance record.
func (r *Records) Update(ctx context.Context, id uint64, in RecordInput) (model.AttendanceRecord, error) {
	return replace(ctx, r.c, "update_attendance_record", recordEntity, r.c.stores.Attendance, id, in.build(id))
}

// Delete removes an attendance record.
func (r *Records) Delete(ctx context.Context, id uint64) error {
	return remove(ctx, r.c, "delete_attendance_record", recordEntity, r.c.stores.Attendance, id)
}

// List returns every attendance record ordered by id.
func (r *Records) List(ctx context.Context) ([]model.AttendanceRecord, error) {
	return list(ctx, r.c, "list_attendance_records", r.c.stores.Attendance)
}
