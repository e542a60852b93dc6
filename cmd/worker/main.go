package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"busmanifest/internal/config"
	"busmanifest/internal/manifest"
	"busmanifest/internal/notify"
	"busmanifest/internal/queue"
	"busmanifest/internal/roster"
	"busmanifest/internal/store"
)

// Worker consumes recorded manifest ids and notifies the student's parent
// about the scan. Failures are logged and skipped; the ledger itself is
// never retried or mutated from here.
func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "busmanifest:scans")
	}

	manifests := manifest.NewRepository(db.Client)
	dir := roster.NewRepository(db.Client)
	gateway := notify.New(cfg.NotifyURL, cfg.NotifySkip)

	// Check the gateway on startup; scans queue up while it is down.
	if !cfg.NotifySkip {
		if err := gateway.Health(ctx); err != nil {
			log.Warn().Err(err).Msg("notify gateway not available, will retry per message")
		} else {
			log.Info().Msg("notify gateway connected")
		}
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume init failed")
	}

	log.Info().Msg("worker started, waiting for messages")
	for msg := range messages {
		if msg.Type != "manifest" {
			continue
		}

		id, err := strconv.ParseInt(string(msg.Body), 10, 64)
		if err != nil {
			log.Warn().Str("body", string(msg.Body)).Msg("discarding malformed message")
			continue
		}

		if err := notifyParent(ctx, manifests, dir, gateway, id); err != nil {
			log.Error().Err(err).Int64("manifest_id", id).Msg("notification failed")
			continue
		}
		log.Info().Int64("manifest_id", id).Msg("parent notified")

		time.Sleep(10 * time.Millisecond)
	}

	log.Info().Msg("worker stopped")
}

func notifyParent(ctx context.Context, manifests *manifest.Repository, dir *roster.Repository, gateway *notify.Client, id int64) error {
	rec, err := manifests.GetByID(ctx, id)
	if err != nil {
		return err
	}

	student, err := dir.GetStudent(ctx, rec.StudentID)
	if err != nil {
		return err
	}
	if student == nil || student.ParentID == 0 {
		// Nothing to notify; not an error.
		return nil
	}

	parent, err := dir.GetParent(ctx, student.ParentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil
	}

	busName := ""
	if bus, err := dir.GetBus(ctx, rec.BusID); err == nil && bus != nil {
		busName = bus.Name
	}

	return gateway.Send(ctx, notify.Notification{
		ParentName:  parent.Name,
		Phone:       parent.Phone,
		Email:       parent.Email,
		StudentName: student.Name,
		BusName:     busName,
		Status:      string(rec.Status),
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		When:        rec.Date,
	})
}
