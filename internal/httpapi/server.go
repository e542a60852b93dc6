// Package httpapi mounts the service's REST surface on gin. Handler logic
// stays thin: request decoding, auth, and error-to-status mapping; all
// attendance rules live in the manifest ledger.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"busmanifest/internal/auth"
	"busmanifest/internal/config"
	"busmanifest/internal/httpmiddleware"
	"busmanifest/internal/manifest"
	"busmanifest/internal/metrics"
	"busmanifest/internal/queue"
	"busmanifest/internal/roster"
)

// Server wires the ledger, roster and supporting infrastructure into gin
// handlers.
type Server struct {
	cfg    config.App
	log    zerolog.Logger
	ledger *manifest.Service
	dir    roster.Directory
	queue  queue.Queue
	rec    *metrics.Recorder
}

// NewServer builds a server. queue and rec may be nil; publishing and
// metrics become no-ops.
func NewServer(cfg config.App, log zerolog.Logger, ledger *manifest.Service, dir roster.Directory, q queue.Queue, rec *metrics.Recorder) *Server {
	return &Server{cfg: cfg, log: log, ledger: ledger, dir: dir, queue: q, rec: rec}
}

// Register mounts all /api routes on r.
func (s *Server) Register(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("", auth.RequireAuth(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))

	protected.POST("/manifests/checkin", s.handleScan(manifest.StatusCheckedIn))
	protected.POST("/manifests/checkout", s.handleScan(manifest.StatusCheckedOut))
	protected.GET("/manifests/bus/:busId", s.handleListByBus)
	protected.GET("/manifests/student/:studentId", s.handleListByStudent)

	protected.POST("/buses", s.handleCreateBus)
	protected.GET("/buses", s.handleListBuses)
	protected.GET("/buses/:id", s.handleGetBus)
	protected.POST("/parents", s.handleCreateParent)
	protected.GET("/parents", s.handleListParents)
	protected.POST("/students", s.handleCreateStudent)
	protected.GET("/students", s.handleListStudents)
	protected.GET("/students/:id", s.handleGetStudent)
}

// reqLog returns the server logger tagged with the request id and, on
// protected routes, the authenticated caller.
func (s *Server) reqLog(c *gin.Context) *zerolog.Logger {
	log := s.log
	if id := httpmiddleware.RequestIDFrom(c); id != "" {
		log = log.With().Str("request_id", id).Logger()
	}
	if claims, ok := auth.FromContext(c); ok {
		log = log.With().Int64("user_id", claims.UserID).Logger()
	}
	return &log
}

func (s *Server) incScan(status manifest.Status, outcome string) {
	if s.rec != nil {
		s.rec.IncScan(string(status), outcome)
	}
}

func (s *Server) incList(scope string) {
	if s.rec != nil {
		s.rec.IncList(scope)
	}
}
