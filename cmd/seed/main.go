package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/rs/zerolog"

	"busmanifest/internal/auth"
	"busmanifest/internal/config"
	"busmanifest/internal/manifest"
	"busmanifest/internal/roster"
	"busmanifest/internal/store"
)

// Seed applies the schema and loads the demo fixture: two drivers, two
// assistants, one bus, two parents, three students and a morning's worth
// of manifests.
func main() {
	cfg := config.Load()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	ctx := context.Background()

	schema, err := os.ReadFile("migrations/schema.sql")
	if err != nil {
		log.Fatal().Err(err).Msg("read schema failed")
	}
	if _, err := db.Client.ExecContext(ctx, string(schema)); err != nil {
		log.Fatal().Err(err).Msg("apply schema failed")
	}

	// Cleanup before seeding, children first.
	for _, table := range []string{"manifests", "students", "parents", "buses", "users"} {
		if _, err := db.Client.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("cleanup failed")
		}
	}

	if err := seed(ctx, db.Client, cfg.Location()); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("seeding completed")
}

func seed(ctx context.Context, db *sql.DB, loc *time.Location) error {
	dir := roster.NewRepository(db)

	driver1, err := createUser(ctx, dir, "John Driver", "john.driver@example.com", "driver123", roster.RoleDriver)
	if err != nil {
		return err
	}
	if _, err := createUser(ctx, dir, "Mike Driver", "mike.driver@example.com", "driver123", roster.RoleDriver); err != nil {
		return err
	}
	assistant1, err := createUser(ctx, dir, "Alice Assistant", "alice.assistant@example.com", "assistant123", roster.RoleAssistant)
	if err != nil {
		return err
	}
	if _, err := createUser(ctx, dir, "Bob Assistant", "bob.assistant@example.com", "assistant123", roster.RoleAssistant); err != nil {
		return err
	}

	bus, err := dir.CreateBus(ctx, roster.Bus{
		Name:        "Morning Express",
		PlateNumber: "KAA123X",
		Capacity:    40,
		Route:       "Route A - City to School",
		DriverID:    driver1.ID,
		AssistantID: assistant1.ID,
	})
	if err != nil {
		return err
	}

	parent1, err := dir.CreateParent(ctx, roster.Parent{Name: "Jane Parent", Phone: "0700000001", Email: "jane.parent@example.com"})
	if err != nil {
		return err
	}
	parent2, err := dir.CreateParent(ctx, roster.Parent{Name: "Paul Parent", Phone: "0700000002", Email: "paul.parent@example.com"})
	if err != nil {
		return err
	}

	students := []roster.Student{
		{Name: "Emma Student", Grade: "Grade 5", Latitude: -1.2921, Longitude: 36.8219, BusID: bus.ID, ParentID: parent1.ID},
		{Name: "Liam Student", Grade: "Grade 6", Latitude: -1.3000, Longitude: 36.8200, BusID: bus.ID, ParentID: parent1.ID},
		{Name: "Sophia Student", Grade: "Grade 4", Latitude: -1.3100, Longitude: 36.8300, BusID: bus.ID, ParentID: parent2.ID},
	}
	ids := make([]int64, 0, len(students))
	for _, s := range students {
		created, err := dir.CreateStudent(ctx, s)
		if err != nil {
			return err
		}
		ids = append(ids, created.ID)
	}

	ledger := manifest.NewService(manifest.NewRepository(db), loc)
	scans := []struct {
		student int64
		status  manifest.Status
		lat     float64
		lng     float64
	}{
		{ids[0], manifest.StatusCheckedIn, -1.2921, 36.8219},
		{ids[0], manifest.StatusCheckedOut, -1.2922, 36.8220},
		{ids[1], manifest.StatusCheckedIn, -1.3000, 36.8200},
		{ids[2], manifest.StatusCheckedIn, -1.3100, 36.8300},
	}
	for _, sc := range scans {
		var err error
		if sc.status == manifest.StatusCheckedIn {
			_, err = ledger.RecordCheckIn(ctx, sc.student, bus.ID, assistant1.ID, sc.lat, sc.lng)
		} else {
			_, err = ledger.RecordCheckOut(ctx, sc.student, bus.ID, assistant1.ID, sc.lat, sc.lng)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func createUser(ctx context.Context, dir *roster.Repository, name, email, password, role string) (roster.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return roster.User{}, err
	}
	return dir.CreateUser(ctx, roster.User{Name: name, Email: email, PasswordHash: hash, Role: role})
}
