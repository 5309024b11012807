package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroll/internal/model"
	"classroll/internal/store"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *store.Memory) {
	t.Helper()
	backend := store.NewMemory()
	return NewService(NewStores(backend, 0), opts...), backend
}

func strPtr(s string) *string { return &s }

func TestStudentLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	alice, err := svc.Students.Register(ctx, StudentInput{Name: "Alice", ContactDetails: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, model.Student{ID: 1, Name: "Alice", ContactDetails: "555-0100"}, alice)

	got, err := svc.Students.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	require.NoError(t, svc.Students.Delete(ctx, 1))

	_, err = svc.Students.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "get_student: Student with id=1 not found", err.Error())

	err = svc.Students.Delete(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterStudent_EmptyName(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	_, err := svc.Students.Register(ctx, StudentInput{ContactDetails: "555-0100"})
	require.ErrorIs(t, err, ErrInvalidInput)

	all, err := svc.Students.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// the rejected call must not have drawn an id
	next, err := backend.Incr(ctx, store.RegionCounter)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)
}

func TestUpdateStudent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	st, err := svc.Students.Register(ctx, StudentInput{Name: "Bob", ContactDetails: "bob@example.com", AttendanceHistory: "present"})
	require.NoError(t, err)

	updated, err := svc.Students.Update(ctx, st.ID, StudentInput{Name: "Robert"})
	require.NoError(t, err)
	// fields not supplied again are cleared
	assert.Equal(t, model.Student{ID: st.ID, Name: "Robert"}, updated)

	got, err := svc.Students.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = svc.Students.Update(ctx, st.ID, StudentInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateMissingDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Students.Update(ctx, 42, StudentInput{Name: "Ghost"})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Students.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Lectures.Update(ctx, 42, LectureInput{Topic: "Ghosts"})
	require.ErrorIs(t, err, ErrNotFound)
	lectures, err := svc.Lectures.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, lectures)

	_, err = svc.Attendance.Update(ctx, 42, RecordInput{AttendanceStatus: "absent"})
	require.ErrorIs(t, err, ErrNotFound)
	records, err := svc.Attendance.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestScheduleLecture(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Lectures.Schedule(ctx, LectureInput{StudentID: 1, LecturerID: 2, DateTime: 1700000000})
	require.ErrorIs(t, err, ErrInvalidInput)
	all, err := svc.Lectures.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	media := &model.MultimediaContent{VideoURL: strPtr("https://cdn.example.com/intro.mp4")}
	lec, err := svc.Lectures.Schedule(ctx, LectureInput{StudentID: 1, LecturerID: 2, DateTime: 1700000000, Topic: "Graphs", MultimediaContent: media})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), lec.ID)

	got, err := svc.Lectures.Get(ctx, lec.ID)
	require.NoError(t, err)
	assert.Equal(t, lec, got)

	updated, err := svc.Lectures.Update(ctx, lec.ID, LectureInput{StudentID: 3, LecturerID: 2, DateTime: 1700003600, Topic: "Trees"})
	require.NoError(t, err)
	assert.Nil(t, updated.MultimediaContent)
	assert.Equal(t, "Trees", updated.Topic)

	require.NoError(t, svc.Lectures.Delete(ctx, lec.ID))
	_, err = svc.Lectures.Get(ctx, lec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttendanceRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	// no validation on records, not even the student reference
	rec, err := svc.Attendance.Mark(ctx, RecordInput{StudentID: 999})
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceRecord{ID: 1, StudentID: 999}, rec)

	updated, err := svc.Attendance.Update(ctx, rec.ID, RecordInput{StudentID: 999, AttendanceStatus: "late"})
	require.NoError(t, err)
	assert.Equal(t, "late", updated.AttendanceStatus)

	got, err := svc.Attendance.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, svc.Attendance.Delete(ctx, rec.ID))
	assert.ErrorIs(t, svc.Attendance.Delete(ctx, rec.ID), ErrNotFound)
}

func TestIDsSharedAcrossKinds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	st, err := svc.Students.Register(ctx, StudentInput{Name: "Alice"})
	require.NoError(t, err)
	lec, err := svc.Lectures.Schedule(ctx, LectureInput{Topic: "Sets"})
	require.NoError(t, err)
	rec, err := svc.Attendance.Mark(ctx, RecordInput{StudentID: st.ID, AttendanceStatus: "present"})
	require.NoError(t, err)
	msg, err := svc.Messages.SendReminder(ctx, st.ID, "Quiz tomorrow", nil, 0)
	require.NoError(t, err)
	st2, err := svc.Students.Register(ctx, StudentInput{Name: "Bea"})
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, []uint64{st.ID, lec.ID, rec.ID, msg.ID, st2.ID})
}

func TestListAfterCreatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var ids []uint64
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		st, err := svc.Students.Register(ctx, StudentInput{Name: name})
		require.NoError(t, err)
		ids = append(ids, st.ID)
	}
	require.NoError(t, svc.Students.Delete(ctx, ids[1]))
	require.NoError(t, svc.Students.Delete(ctx, ids[3]))
	_, err := svc.Students.Update(ctx, ids[4], StudentInput{Name: "E2"})
	require.NoError(t, err)

	all, err := svc.Students.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "C", all[1].Name)
	assert.Equal(t, "E2", all[2].Name)
}

func TestTooLarge(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	_, err := svc.Students.Register(ctx, StudentInput{Name: "Alice", ContactDetails: strings.Repeat("9", 3000)})
	require.ErrorIs(t, err, ErrTooLarge)
	assert.True(t, errors.Is(err, store.ErrTooLarge))
	assert.Equal(t, "too_large", KindName(err))

	next, err := backend.Incr(ctx, store.RegionCounter)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next, "oversize create must not consume an id")

	st, err := svc.Students.Register(ctx, StudentInput{Name: "Alice"})
	require.NoError(t, err)
	_, err = svc.Students.Update(ctx, st.ID, StudentInput{Name: strings.Repeat("A", 4096)})
	require.ErrorIs(t, err, ErrTooLarge)

	got, err := svc.Students.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestRecordAtSizeLimitIsAccepted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	empty, err := json.Marshal(model.Student{ID: 1})
	require.NoError(t, err)
	name := strings.Repeat("n", store.DefaultMaxRecordSize-len(empty))

	exact, err := json.Marshal(model.Student{ID: 1, Name: name})
	require.NoError(t, err)
	require.Len(t, exact, store.DefaultMaxRecordSize)

	st, err := svc.Students.Register(ctx, StudentInput{Name: name})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.ID)

	// the same body is one byte longer once the id reaches two digits
	for i := 0; i < 8; i++ {
		_, err := svc.Lectures.Schedule(ctx, LectureInput{Topic: "t"})
		require.NoError(t, err)
	}
	_, err = svc.Students.Register(ctx, StudentInput{Name: name})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "ok", KindName(nil))
	assert.Equal(t, "not_found", KindName(notFound("op", "Student", 1)))
	assert.Equal(t, "invalid_input", KindName(invalidInput("op", "bad")))
	assert.Equal(t, "internal", KindName(errors.New("boom")))
}

type failingBackend struct {
	*store.Memory
}

func (failingBackend) Incr(context.Context, store.Region) (uint64, error) {
	return 0, errors.New("disk gone")
}

func TestAllocatorFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewStores(failingBackend{store.NewMemory()}, 0))

	_, err := svc.Students.Register(ctx, StudentInput{Name: "Alice"})
	require.Error(t, err)
	assert.Equal(t, "internal", KindName(err))
	assert.Contains(t, err.Error(), "disk gone")
}
