package manifest

import (
	"errors"
	"time"
)

// Status tags a manifest record as a boarding or an alighting scan.
type Status string

const (
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
)

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusCheckedIn || s == StatusCheckedOut
}

// Caller errors, not faults; the handler layer maps them to 400. Anything
// else coming out of the ledger is a store fault and propagates unchanged.
var (
	ErrDuplicateCheckIn   = errors.New("student already checked in today")
	ErrDuplicateCheckOut  = errors.New("student already checked out today")
	ErrMissingIdentifiers = errors.New("student, bus and assistant ids required")
)

// StudentRef is the read-only student projection joined onto list results.
type StudentRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Grade string `json:"grade,omitempty"`
}

// BusRef is the read-only bus projection joined onto list results.
type BusRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PlateNumber string `json:"plateNumber"`
}

// UserRef is the read-only assistant projection joined onto list results.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Record is a single attendance event. Records are append-only: once
// written they are never updated or deleted.
type Record struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	BusID       int64     `json:"busId"`
	AssistantID int64     `json:"assistantId"`
	Status      Status    `json:"status"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Date        time.Time `json:"date"`

	Student   *StudentRef `json:"student,omitempty"`
	Bus       *BusRef     `json:"bus,omitempty"`
	Assistant *UserRef    `json:"assistant,omitempty"`
}
