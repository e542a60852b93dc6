package manifest

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is a mutex-guarded in-memory Store with the same uniqueness
// semantics as the Postgres repository. It backs tests and the memory
// store backend for local development.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	records []Record
	byDay   map[dayAxis]struct{}

	students   map[int64]StudentRef
	buses      map[int64]BusRef
	assistants map[int64]UserRef
}

type dayAxis struct {
	studentID int64
	status    Status
	dayKey    string
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		nextID:     1,
		byDay:      make(map[dayAxis]struct{}),
		students:   make(map[int64]StudentRef),
		buses:      make(map[int64]BusRef),
		assistants: make(map[int64]UserRef),
	}
}

// PutStudent registers reference data used to enrich list results.
func (m *MemStore) PutStudent(s StudentRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.ID] = s
}

// PutBus registers reference data used to enrich list results.
func (m *MemStore) PutBus(b BusRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[b.ID] = b
}

// PutAssistant registers reference data used to enrich list results.
func (m *MemStore) PutAssistant(u UserRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assistants[u.ID] = u
}

// Insert appends rec, assigning a monotone id. The day-axis map makes the
// uniqueness check and the append a single critical section.
func (m *MemStore) Insert(ctx context.Context, rec Record, dayKey string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	axis := dayAxis{studentID: rec.StudentID, status: rec.Status, dayKey: dayKey}
	if _, exists := m.byDay[axis]; exists {
		return Record{}, duplicateErr(rec.Status)
	}

	rec.ID = m.nextID
	m.nextID++
	m.byDay[axis] = struct{}{}
	m.records = append(m.records, rec)
	return rec, nil
}

// FindByStudentStatusWindow scans for the student's record with the given
// status inside [start, end].
func (m *MemStore) FindByStudentStatusWindow(ctx context.Context, studentID int64, status Status, start, end time.Time) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		rec := m.records[i]
		if rec.StudentID != studentID || rec.Status != status {
			continue
		}
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		out := rec
		return &out, nil
	}
	return nil, nil
}

// ListByBus returns the bus's records enriched with student and assistant,
// newest first.
func (m *MemStore) ListByBus(ctx context.Context, busID int64) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []Record{}
	for _, rec := range m.records {
		if rec.BusID != busID {
			continue
		}
		if s, ok := m.students[rec.StudentID]; ok {
			ref := s
			rec.Student = &ref
		}
		if a, ok := m.assistants[rec.AssistantID]; ok {
			ref := a
			rec.Assistant = &ref
		}
		res = append(res, rec)
	}
	sortNewestFirst(res)
	return res, nil
}

// ListByStudent returns the student's records enriched with bus and
// assistant, newest first.
func (m *MemStore) ListByStudent(ctx context.Context, studentID int64) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []Record{}
	for _, rec := range m.records {
		if rec.StudentID != studentID {
			continue
		}
		if b, ok := m.buses[rec.BusID]; ok {
			ref := b
			rec.Bus = &ref
		}
		if a, ok := m.assistants[rec.AssistantID]; ok {
			ref := a
			rec.Assistant = &ref
		}
		res = append(res, rec)
	}
	sortNewestFirst(res)
	return res, nil
}

// Len reports the number of stored records.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func sortNewestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Date.Equal(recs[j].Date) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].Date.After(recs[j].Date)
	})
}
