package manifest

import (
	"context"
	"time"
)

// Store persists manifest records. Insert must be atomic with respect to the
// per-day uniqueness rule: two concurrent inserts for the same student,
// status and day key must yield exactly one success and one conflict.
type Store interface {
	// Insert appends rec and returns it with its store-assigned id. A
	// uniqueness conflict is reported as ErrDuplicateCheckIn or
	// ErrDuplicateCheckOut according to rec.Status.
	Insert(ctx context.Context, rec Record, dayKey string) (Record, error)
	// FindByStudentStatusWindow returns the record for the student with the
	// given status whose date falls inside [start, end], or nil when absent.
	FindByStudentStatusWindow(ctx context.Context, studentID int64, status Status, start, end time.Time) (*Record, error)
	// ListByBus returns the bus's records enriched with student and
	// assistant, newest first.
	ListByBus(ctx context.Context, busID int64) ([]Record, error)
	// ListByStudent returns the student's records enriched with bus and
	// assistant, newest first.
	ListByStudent(ctx context.Context, studentID int64) ([]Record, error)
}

// Service is the manifest ledger: it owns the per-student, per-day state
// machine for check-in and check-out scans.
type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewService creates a ledger over store. Day boundaries are computed in
// loc; pass nil for server-local time.
func NewService(store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, now: time.Now}
}

// RecordCheckIn records a boarding scan for the student. At most one
// check-in per student per calendar day; a second attempt fails with
// ErrDuplicateCheckIn and writes nothing.
func (s *Service) RecordCheckIn(ctx context.Context, studentID, busID, assistantID int64, lat, lng float64) (Record, error) {
	return s.record(ctx, studentID, busID, assistantID, lat, lng, StatusCheckedIn)
}

// RecordCheckOut records an alighting scan. It does not require a prior
// check-in: the two axes are independent per-day uniqueness constraints
// with no ordering between them.
func (s *Service) RecordCheckOut(ctx context.Context, studentID, busID, assistantID int64, lat, lng float64) (Record, error) {
	return s.record(ctx, studentID, busID, assistantID, lat, lng, StatusCheckedOut)
}

func (s *Service) record(ctx context.Context, studentID, busID, assistantID int64, lat, lng float64, status Status) (Record, error) {
	if studentID == 0 || busID == 0 || assistantID == 0 {
		return Record{}, ErrMissingIdentifiers
	}

	now := s.now()
	start, end := DayWindow(now, s.loc)

	// Early duplicate check for the common sequential case. Correctness does
	// not depend on it: the store's unique index closes the race between
	// concurrent scans, and Insert reports the same duplicate error.
	existing, err := s.store.FindByStudentStatusWindow(ctx, studentID, status, start, end)
	if err != nil {
		return Record{}, err
	}
	if existing != nil {
		return Record{}, duplicateErr(status)
	}

	rec := Record{
		StudentID:   studentID,
		BusID:       busID,
		AssistantID: assistantID,
		Status:      status,
		Latitude:    lat,
		Longitude:   lng,
		Date:        now.In(s.loc),
	}
	return s.store.Insert(ctx, rec, DayKey(now, s.loc))
}

// ListByBus returns every record for the bus, newest first, each enriched
// with its student and assistant. A bus with no records yields an empty
// slice, not an error.
func (s *Service) ListByBus(ctx context.Context, busID int64) ([]Record, error) {
	return s.store.ListByBus(ctx, busID)
}

// ListByStudent returns every record for the student, newest first, each
// enriched with its bus and assistant.
func (s *Service) ListByStudent(ctx context.Context, studentID int64) ([]Record, error) {
	return s.store.ListByStudent(ctx, studentID)
}

func duplicateErr(status Status) error {
	if status == StatusCheckedOut {
		return ErrDuplicateCheckOut
	}
	return ErrDuplicateCheckIn
}
