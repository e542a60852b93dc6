package manifest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for a unique index conflict.
const uniqueViolation = "23505"

// dayConstraint is the unique index enforcing at most one record per
// student, status and day key.
const dayConstraint = "manifests_student_status_day_key"

// Repository persists manifest records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new record. The duplicate-per-day rule is enforced by the
// manifests_student_status_day_key unique index, so the check and the write
// are a single atomic operation; a conflict comes back as the matching
// duplicate error.
func (r *Repository) Insert(ctx context.Context, rec Record, dayKey string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO manifests (student_id, bus_id, assistant_id, status, latitude, longitude, date, day_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, rec.StudentID, rec.BusID, rec.AssistantID, rec.Status, rec.Latitude, rec.Longitude, rec.Date, dayKey)
	if err := row.Scan(&rec.ID); err != nil {
		if isDayConflict(err) {
			return Record{}, duplicateErr(rec.Status)
		}
		return Record{}, err
	}
	return rec, nil
}

// GetByID returns a single record by id. Used by the notifier worker when
// it dequeues a manifest id.
func (r *Repository) GetByID(ctx context.Context, id int64) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, bus_id, assistant_id, status, latitude, longitude, date
		FROM manifests WHERE id = $1
	`, id)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.StudentID, &rec.BusID, &rec.AssistantID, &rec.Status, &rec.Latitude, &rec.Longitude, &rec.Date); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// FindByStudentStatusWindow returns the student's record with the given
// status inside [start, end], or nil when there is none.
func (r *Repository) FindByStudentStatusWindow(ctx context.Context, studentID int64, status Status, start, end time.Time) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, bus_id, assistant_id, status, latitude, longitude, date
		FROM manifests
		WHERE student_id = $1 AND status = $2 AND date BETWEEN $3 AND $4
		ORDER BY date DESC
		LIMIT 1
	`, studentID, status, start, end)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.StudentID, &rec.BusID, &rec.AssistantID, &rec.Status, &rec.Latitude, &rec.Longitude, &rec.Date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListByBus returns the bus's records joined with student and assistant,
// newest first.
func (r *Repository) ListByBus(ctx context.Context, busID int64) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.student_id, m.bus_id, m.assistant_id, m.status, m.latitude, m.longitude, m.date,
		       s.name, s.grade, u.name, u.role
		FROM manifests m
		JOIN students s ON s.id = m.student_id
		JOIN users u ON u.id = m.assistant_id
		WHERE m.bus_id = $1
		ORDER BY m.date DESC, m.id DESC
	`, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Record{}
	for rows.Next() {
		var rec Record
		var student StudentRef
		var assistant UserRef
		var grade sql.NullString
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.BusID, &rec.AssistantID, &rec.Status,
			&rec.Latitude, &rec.Longitude, &rec.Date, &student.Name, &grade, &assistant.Name, &assistant.Role); err != nil {
			return nil, err
		}
		student.ID = rec.StudentID
		student.Grade = grade.String
		assistant.ID = rec.AssistantID
		rec.Student = &student
		rec.Assistant = &assistant
		res = append(res, rec)
	}
	return res, rows.Err()
}

// ListByStudent returns the student's records joined with bus and
// assistant, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID int64) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.student_id, m.bus_id, m.assistant_id, m.status, m.latitude, m.longitude, m.date,
		       b.name, b.plate_number, u.name, u.role
		FROM manifests m
		JOIN buses b ON b.id = m.bus_id
		JOIN users u ON u.id = m.assistant_id
		WHERE m.student_id = $1
		ORDER BY m.date DESC, m.id DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Record{}
	for rows.Next() {
		var rec Record
		var bus BusRef
		var assistant UserRef
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.BusID, &rec.AssistantID, &rec.Status,
			&rec.Latitude, &rec.Longitude, &rec.Date, &bus.Name, &bus.PlateNumber, &assistant.Name, &assistant.Role); err != nil {
			return nil, err
		}
		bus.ID = rec.BusID
		assistant.ID = rec.AssistantID
		rec.Bus = &bus
		rec.Assistant = &assistant
		res = append(res, rec)
	}
	return res, rows.Err()
}

func isDayConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == dayConstraint
}
