// Package roster holds the reference entities the manifest ledger points
// at: users (drivers and assistants), buses, parents and students. The
// ledger references them by id only and never cascades into them.
package roster

import (
	"context"
	"errors"
	"time"
)

// User roles.
const (
	RoleDriver    = "driver"
	RoleAssistant = "assistant"
	RoleAdmin     = "admin"
)

// ErrEmailTaken is returned when registering a user with an email that
// already exists.
var ErrEmailTaken = errors.New("email already registered")

// User is an authenticated staff member.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Bus is a vehicle on a route with an assigned driver and assistant.
type Bus struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PlateNumber string    `json:"plateNumber"`
	Capacity    int       `json:"capacity"`
	Route       string    `json:"route,omitempty"`
	DriverID    int64     `json:"driverId,omitempty"`
	AssistantID int64     `json:"assistantId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Parent is the guardian contacted about a student's scans.
type Parent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Student rides a bus and belongs to a parent. The coordinates are the
// student's home stop, not a live position.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Grade     string    `json:"grade,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	BusID     int64     `json:"busId,omitempty"`
	ParentID  int64     `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Directory is the read/write contract over roster data.
type Directory interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	CreateBus(ctx context.Context, b Bus) (Bus, error)
	ListBuses(ctx context.Context) ([]Bus, error)
	GetBus(ctx context.Context, id int64) (*Bus, error)

	CreateParent(ctx context.Context, p Parent) (Parent, error)
	ListParents(ctx context.Context) ([]Parent, error)
	GetParent(ctx context.Context, id int64) (*Parent, error)

	CreateStudent(ctx context.Context, s Student) (Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id int64) (*Student, error)
}
