package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDirectoryUserEmailUnique(t *testing.T) {
	dir := NewMemDirectory()
	ctx := context.Background()

	u, err := dir.CreateUser(ctx, User{Name: "Alice Assistant", Email: "alice@example.com", Role: RoleAssistant})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = dir.CreateUser(ctx, User{Name: "Other", Email: "alice@example.com", Role: RoleDriver})
	assert.ErrorIs(t, err, ErrEmailTaken)

	found, err := dir.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	missing, err := dir.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemDirectoryStudentLookup(t *testing.T) {
	dir := NewMemDirectory()
	ctx := context.Background()

	bus, err := dir.CreateBus(ctx, Bus{Name: "Morning Express", PlateNumber: "KAA123X", Capacity: 40})
	require.NoError(t, err)
	parent, err := dir.CreateParent(ctx, Parent{Name: "Jane Parent", Phone: "0700000001"})
	require.NoError(t, err)
	student, err := dir.CreateStudent(ctx, Student{Name: "Emma Student", Grade: "Grade 5", BusID: bus.ID, ParentID: parent.ID})
	require.NoError(t, err)

	got, err := dir.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, parent.ID, got.ParentID)

	students, err := dir.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}
