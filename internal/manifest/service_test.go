package manifest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemStore, func(time.Time)) {
	t.Helper()
	store := NewMemStore()
	svc := NewService(store, time.UTC)
	clock := time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	setClock := func(at time.Time) { clock = at }
	return svc, store, setClock
}

func TestRecordCheckIn(t *testing.T) {
	svc, _, _ := newTestService(t)

	rec, err := svc.RecordCheckIn(context.Background(), 1, 7, 3, -1.2921, 36.8219)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, StatusCheckedIn, rec.Status)
	assert.Equal(t, -1.2921, rec.Latitude)
	assert.Equal(t, 36.8219, rec.Longitude)
	assert.False(t, rec.Date.IsZero())
}

func TestDuplicateCheckInRejectedWithoutWrite(t *testing.T) {
	svc, store, setClock := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	require.NoError(t, err)

	setClock(time.Date(2024, 3, 15, 7, 5, 0, 0, time.UTC))
	_, err = svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	assert.ErrorIs(t, err, ErrDuplicateCheckIn)
	assert.Equal(t, 1, store.Len())
}

func TestCheckOutIndependentOfCheckIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// No ordering between the two axes: a check-out with no prior check-in
	// is accepted.
	rec, err := svc.RecordCheckOut(ctx, 2, 7, 3, -1.30, 36.82)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, rec.Status)

	_, err = svc.RecordCheckOut(ctx, 2, 7, 3, -1.30, 36.82)
	assert.ErrorIs(t, err, ErrDuplicateCheckOut)

	// The check-in axis is untouched.
	_, err = svc.RecordCheckIn(ctx, 2, 7, 3, -1.30, 36.82)
	assert.NoError(t, err)
}

func TestCheckInAllowedNextDay(t *testing.T) {
	svc, _, setClock := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	require.NoError(t, err)

	setClock(time.Date(2024, 3, 16, 7, 0, 0, 0, time.UTC))
	_, err = svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	assert.NoError(t, err)
}

func TestMissingIdentifiersRejected(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, err := svc.RecordCheckIn(context.Background(), 0, 7, 3, 0, 0)
	assert.ErrorIs(t, err, ErrMissingIdentifiers)
	assert.Equal(t, 0, store.Len())
}

// faultStore fails every operation with a fixed error, standing in for a
// store whose backend is unreachable.
type faultStore struct {
	err error
}

func (f *faultStore) Insert(ctx context.Context, rec Record, dayKey string) (Record, error) {
	return Record{}, f.err
}

func (f *faultStore) FindByStudentStatusWindow(ctx context.Context, studentID int64, status Status, start, end time.Time) (*Record, error) {
	return nil, f.err
}

func (f *faultStore) ListByBus(ctx context.Context, busID int64) ([]Record, error) {
	return nil, f.err
}

func (f *faultStore) ListByStudent(ctx context.Context, studentID int64) ([]Record, error) {
	return nil, f.err
}

// insertFaultStore answers lookups from the wrapped MemStore but fails the
// insert itself, exercising the write-path fault branch.
type insertFaultStore struct {
	*MemStore
	err error
}

func (f *insertFaultStore) Insert(ctx context.Context, rec Record, dayKey string) (Record, error) {
	return Record{}, f.err
}

func TestStoreFaultsPropagateUnchanged(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewService(&faultStore{err: storeErr}, time.UTC)
	ctx := context.Background()

	_, err := svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrDuplicateCheckIn)

	_, err = svc.RecordCheckOut(ctx, 1, 7, 3, -1.2921, 36.8219)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.ListByBus(ctx, 7)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.ListByStudent(ctx, 1)
	assert.ErrorIs(t, err, storeErr)
}

func TestInsertFaultPropagatesAfterCleanLookup(t *testing.T) {
	storeErr := errors.New("write timeout")
	svc := NewService(&insertFaultStore{MemStore: NewMemStore(), err: storeErr}, time.UTC)

	_, err := svc.RecordCheckIn(context.Background(), 1, 7, 3, -1.2921, 36.8219)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrDuplicateCheckIn)
}

func TestListByBusOrderingAndEnrichment(t *testing.T) {
	svc, store, setClock := newTestService(t)
	ctx := context.Background()

	store.PutStudent(StudentRef{ID: 1, Name: "Emma Student", Grade: "Grade 5"})
	store.PutStudent(StudentRef{ID: 2, Name: "Liam Student", Grade: "Grade 6"})
	store.PutAssistant(UserRef{ID: 3, Name: "Alice Assistant", Role: "assistant"})

	_, err := svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	require.NoError(t, err)
	setClock(time.Date(2024, 3, 15, 7, 10, 0, 0, time.UTC))
	_, err = svc.RecordCheckIn(ctx, 2, 7, 3, -1.30, 36.82)
	require.NoError(t, err)

	recs, err := svc.ListByBus(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	for i := 1; i < len(recs); i++ {
		assert.False(t, recs[i-1].Date.Before(recs[i].Date), "expected non-increasing dates")
	}
	assert.Equal(t, int64(2), recs[0].StudentID)
	require.NotNil(t, recs[0].Student)
	assert.Equal(t, "Liam Student", recs[0].Student.Name)
	require.NotNil(t, recs[0].Assistant)
	assert.Equal(t, "assistant", recs[0].Assistant.Role)
}

func TestListByBusEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	recs, err := svc.ListByBus(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestConcurrentCheckInsSingleWinner(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
		}(i)
	}
	wg.Wait()

	successes, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateCheckIn):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, duplicates)
	assert.Equal(t, 1, store.Len())
}

// Full scan day: morning check-in, rejected repeat, afternoon check-out,
// history listed newest first.
func TestScanDayScenario(t *testing.T) {
	svc, store, setClock := newTestService(t)
	ctx := context.Background()

	store.PutBus(BusRef{ID: 7, Name: "Morning Express", PlateNumber: "KAA123X"})
	store.PutAssistant(UserRef{ID: 3, Name: "Alice Assistant", Role: "assistant"})

	rec, err := svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, rec.Status)

	setClock(time.Date(2024, 3, 15, 7, 5, 0, 0, time.UTC))
	_, err = svc.RecordCheckIn(ctx, 1, 7, 3, -1.2921, 36.8219)
	assert.ErrorIs(t, err, ErrDuplicateCheckIn)

	setClock(time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC))
	rec, err = svc.RecordCheckOut(ctx, 1, 7, 3, -1.2922, 36.8220)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, rec.Status)

	recs, err := svc.ListByStudent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, StatusCheckedOut, recs[0].Status)
	assert.Equal(t, StatusCheckedIn, recs[1].Status)
	require.NotNil(t, recs[0].Bus)
	assert.Equal(t, "KAA123X", recs[0].Bus.PlateNumber)
}
