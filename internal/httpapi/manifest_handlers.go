package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"busmanifest/internal/manifest"
	"busmanifest/internal/metrics"
	"busmanifest/internal/queue"
)

type scanRequest struct {
	StudentID   int64   `json:"studentId" binding:"required"`
	BusID       int64   `json:"busId" binding:"required"`
	AssistantID int64   `json:"assistantId" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (s *Server) handleScan(status manifest.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var rec manifest.Record
		var err error
		if status == manifest.StatusCheckedIn {
			rec, err = s.ledger.RecordCheckIn(c.Request.Context(), req.StudentID, req.BusID, req.AssistantID, req.Latitude, req.Longitude)
		} else {
			rec, err = s.ledger.RecordCheckOut(c.Request.Context(), req.StudentID, req.BusID, req.AssistantID, req.Latitude, req.Longitude)
		}
		if err != nil {
			switch {
			case errors.Is(err, manifest.ErrDuplicateCheckIn), errors.Is(err, manifest.ErrDuplicateCheckOut):
				s.incScan(status, metrics.OutcomeDuplicate)
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, manifest.ErrMissingIdentifiers):
				s.incScan(status, metrics.OutcomeInvalid)
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				s.incScan(status, metrics.OutcomeError)
				s.reqLog(c).Error().Err(err).Int64("student_id", req.StudentID).Str("status", string(status)).Msg("scan failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		s.incScan(status, metrics.OutcomeRecorded)

		if s.queue != nil {
			msg := queue.Message{Type: "manifest", Body: []byte(strconv.FormatInt(rec.ID, 10))}
			if err := s.queue.Publish(c.Request.Context(), msg); err != nil {
				s.reqLog(c).Warn().Err(err).Int64("manifest_id", rec.ID).Msg("queue publish failed")
			}
		}

		c.JSON(http.StatusCreated, gin.H{"manifest": rec})
	}
}

func (s *Server) handleListByBus(c *gin.Context) {
	busID, err := strconv.ParseInt(c.Param("busId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bus id"})
		return
	}
	s.incList("bus")

	recs, err := s.ledger.ListByBus(c.Request.Context(), busID)
	if err != nil {
		s.reqLog(c).Error().Err(err).Int64("bus_id", busID).Msg("list by bus failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manifests": recs})
}

func (s *Server) handleListByStudent(c *gin.Context) {
	studentID, err := strconv.ParseInt(c.Param("studentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}
	s.incList("student")

	recs, err := s.ledger.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		s.reqLog(c).Error().Err(err).Int64("student_id", studentID).Msg("list by student failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manifests": recs})
}
