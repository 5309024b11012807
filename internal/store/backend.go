// Package store implements the durable region storage behind every entity
// kind: raw backends (memory, SQL, Redis), the shared id counter and the
// typed, size-bounded Map used by the services.
package store

import (
	"context"
	"fmt"
)

// Region addresses one logical key space inside a backend. Regions never
// collide, so a single database or Redis instance can hold all of them.
type Region uint8

const (
	RegionCounter    Region = 0
	RegionStudents   Region = 1
	RegionLectures   Region = 2
	RegionAttendance Region = 3
	RegionMessages   Region = 4
)

func (r Region) String() string {
	switch r {
	case RegionCounter:
		return "counter"
	case RegionStudents:
		return "students"
	case RegionLectures:
		return "lectures"
	case RegionAttendance:
		return "attendance"
	case RegionMessages:
		return "messages"
	default:
		return fmt.Sprintf("region(%d)", uint8(r))
	}
}

// Entry is a stored record as returned by Scan.
type Entry struct {
	ID   uint64
	Data []byte
}

// Backend is the raw persistence contract shared by all implementations.
// Put and Delete report the previous value so callers can tell an insert
// from an overwrite. Scan returns entries in ascending id order.
type Backend interface {
	Get(ctx context.Context, region Region, id uint64) ([]byte, bool, error)
	Put(ctx context.Context, region Region, id uint64, data []byte) ([]byte, bool, error)
	Delete(ctx context.Context, region Region, id uint64) ([]byte, bool, error)
	Scan(ctx context.Context, region Region) ([]Entry, error)
	// Incr returns the current counter value of region and stores value+1.
	// A fresh counter starts at 1.
	Incr(ctx context.Context, region Region) (uint64, error)
	// Peek returns the value the next Incr will hand out without advancing.
	Peek(ctx context.Context, region Region) (uint64, error)
	Close() error
}
