package roster

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists roster data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user. A duplicate email comes back as ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, u.Name, u.Email, u.PasswordHash, u.Role)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

// GetUserByEmail returns the user with the given email, or nil.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1
	`, email)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateBus inserts a bus.
func (r *Repository) CreateBus(ctx context.Context, b Bus) (Bus, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO buses (name, plate_number, capacity, route, driver_id, assistant_id)
		VALUES ($1,$2,$3,$4,NULLIF($5,0),NULLIF($6,0))
		RETURNING id, created_at
	`, b.Name, b.PlateNumber, b.Capacity, b.Route, b.DriverID, b.AssistantID)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		return Bus{}, err
	}
	return b, nil
}

// ListBuses returns all buses.
func (r *Repository) ListBuses(ctx context.Context) ([]Bus, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, plate_number, capacity, COALESCE(route, ''),
		       COALESCE(driver_id, 0), COALESCE(assistant_id, 0), created_at
		FROM buses ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Bus{}
	for rows.Next() {
		var b Bus
		if err := rows.Scan(&b.ID, &b.Name, &b.PlateNumber, &b.Capacity, &b.Route, &b.DriverID, &b.AssistantID, &b.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// GetBus returns a single bus by id, or nil.
func (r *Repository) GetBus(ctx context.Context, id int64) (*Bus, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, plate_number, capacity, COALESCE(route, ''),
		       COALESCE(driver_id, 0), COALESCE(assistant_id, 0), created_at
		FROM buses WHERE id = $1
	`, id)
	var b Bus
	if err := row.Scan(&b.ID, &b.Name, &b.PlateNumber, &b.Capacity, &b.Route, &b.DriverID, &b.AssistantID, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// CreateParent inserts a parent.
func (r *Repository) CreateParent(ctx context.Context, p Parent) (Parent, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO parents (name, phone, email)
		VALUES ($1,$2,NULLIF($3,''))
		RETURNING id, created_at
	`, p.Name, p.Phone, p.Email)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return Parent{}, err
	}
	return p, nil
}

// ListParents returns all parents.
func (r *Repository) ListParents(ctx context.Context) ([]Parent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, COALESCE(email, ''), created_at
		FROM parents ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Parent{}
	for rows.Next() {
		var p Parent
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// GetParent returns a single parent by id, or nil.
func (r *Repository) GetParent(ctx context.Context, id int64) (*Parent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, COALESCE(email, ''), created_at
		FROM parents WHERE id = $1
	`, id)
	var p Parent
	if err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreateStudent inserts a student.
func (r *Repository) CreateStudent(ctx context.Context, s Student) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (name, grade, latitude, longitude, bus_id, parent_id)
		VALUES ($1,NULLIF($2,''),$3,$4,NULLIF($5,0),NULLIF($6,0))
		RETURNING id, created_at
	`, s.Name, s.Grade, s.Latitude, s.Longitude, s.BusID, s.ParentID)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		return Student{}, err
	}
	return s, nil
}

// ListStudents returns all students.
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(grade, ''), latitude, longitude,
		       COALESCE(bus_id, 0), COALESCE(parent_id, 0), created_at
		FROM students ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Student{}
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Grade, &s.Latitude, &s.Longitude, &s.BusID, &s.ParentID, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// GetStudent returns a single student by id, or nil.
func (r *Repository) GetStudent(ctx context.Context, id int64) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(grade, ''), latitude, longitude,
		       COALESCE(bus_id, 0), COALESCE(parent_id, 0), created_at
		FROM students WHERE id = $1
	`, id)
	var s Student
	if err := row.Scan(&s.ID, &s.Name, &s.Grade, &s.Latitude, &s.Longitude, &s.BusID, &s.ParentID, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
