package roster

import (
	"context"
	"sync"
	"time"
)

// MemDirectory is an in-memory Directory for tests and the memory store
// backend. Each entity type has its own id sequence, mirroring the
// per-table sequences of the Postgres repository.
type MemDirectory struct {
	mu sync.Mutex

	nextUserID    int64
	nextBusID     int64
	nextParentID  int64
	nextStudentID int64

	users    map[int64]User
	buses    map[int64]Bus
	parents  map[int64]Parent
	students map[int64]Student
	byEmail  map[string]int64
}

// NewMemDirectory creates an empty directory.
func NewMemDirectory() *MemDirectory {
	return &MemDirectory{
		nextUserID:    1,
		nextBusID:     1,
		nextParentID:  1,
		nextStudentID: 1,
		users:         make(map[int64]User),
		buses:         make(map[int64]Bus),
		parents:       make(map[int64]Parent),
		students:      make(map[int64]Student),
		byEmail:       make(map[string]int64),
	}
}

// CreateUser inserts a user, enforcing email uniqueness.
func (d *MemDirectory) CreateUser(ctx context.Context, u User) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[u.Email]; exists {
		return User{}, ErrEmailTaken
	}
	u.ID = d.nextUserID
	d.nextUserID++
	u.CreatedAt = time.Now()
	d.users[u.ID] = u
	d.byEmail[u.Email] = u.ID
	return u, nil
}

// GetUserByEmail returns the user with the given email, or nil.
func (d *MemDirectory) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := d.users[id]
	return &u, nil
}

// CreateBus inserts a bus.
func (d *MemDirectory) CreateBus(ctx context.Context, b Bus) (Bus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b.ID = d.nextBusID
	d.nextBusID++
	b.CreatedAt = time.Now()
	d.buses[b.ID] = b
	return b, nil
}

// ListBuses returns all buses in id order.
func (d *MemDirectory) ListBuses(ctx context.Context) ([]Bus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := []Bus{}
	for _, id := range idRange(d.nextBusID) {
		if b, ok := d.buses[id]; ok {
			res = append(res, b)
		}
	}
	return res, nil
}

// GetBus returns a single bus by id, or nil.
func (d *MemDirectory) GetBus(ctx context.Context, id int64) (*Bus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.buses[id]; ok {
		return &b, nil
	}
	return nil, nil
}

// CreateParent inserts a parent.
func (d *MemDirectory) CreateParent(ctx context.Context, p Parent) (Parent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p.ID = d.nextParentID
	d.nextParentID++
	p.CreatedAt = time.Now()
	d.parents[p.ID] = p
	return p, nil
}

// ListParents returns all parents in id order.
func (d *MemDirectory) ListParents(ctx context.Context) ([]Parent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := []Parent{}
	for _, id := range idRange(d.nextParentID) {
		if p, ok := d.parents[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

// GetParent returns a single parent by id, or nil.
func (d *MemDirectory) GetParent(ctx context.Context, id int64) (*Parent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.parents[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// CreateStudent inserts a student.
func (d *MemDirectory) CreateStudent(ctx context.Context, s Student) (Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s.ID = d.nextStudentID
	d.nextStudentID++
	s.CreatedAt = time.Now()
	d.students[s.ID] = s
	return s, nil
}

// ListStudents returns all students in id order.
func (d *MemDirectory) ListStudents(ctx context.Context) ([]Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := []Student{}
	for _, id := range idRange(d.nextStudentID) {
		if s, ok := d.students[id]; ok {
			res = append(res, s)
		}
	}
	return res, nil
}

// GetStudent returns a single student by id, or nil.
func (d *MemDirectory) GetStudent(ctx context.Context, id int64) (*Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.students[id]; ok {
		return &s, nil
	}
	return nil, nil
}

// idRange enumerates 1..next-1 in order; rows are never deleted here so
// the range covers every live id.
func idRange(next int64) []int64 {
	ids := make([]int64, 0, next-1)
	for id := int64(1); id < next; id++ {
		ids = append(ids, id)
	}
	return ids
}
