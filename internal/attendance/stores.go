package attendance

import (
	"classroll/internal/model"
	"classroll/internal/store"
)

// Stores groups the id allocator and the four entity maps over one backend.
type Stores struct {
	IDs        *store.Counter
	Students   *store.Map[model.Student]
	Lectures   *store.Map[model.Lecture]
	Attendance *store.Map[model.AttendanceRecord]
	Messages   *store.Map[model.Message]
}

// NewStores lays out every region on backend. maxRecordSize <= 0 selects
// store.DefaultMaxRecordSize.
func NewStores(backend store.Backend, maxRecordSize int) Stores {
	return Stores{
		IDs:        store.NewCounter(backend),
		Students:   store.NewMap[model.Student](backend, store.RegionStudents, maxRecordSize),
		Lectures:   store.NewMap[model.Lecture](backend, store.RegionLectures, maxRecordSize),
		Attendance: store.NewMap[model.AttendanceRecord](backend, store.RegionAttendance, maxRecordSize),
		Messages:   store.NewMap[model.Message](backend, store.RegionMessages, maxRecordSize),
	}
}
