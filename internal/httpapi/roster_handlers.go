package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"busmanifest/internal/roster"
)

type busRequest struct {
	Name        string `json:"name" binding:"required"`
	PlateNumber string `json:"plateNumber" binding:"required"`
	Capacity    int    `json:"capacity"`
	Route       string `json:"route"`
	DriverID    int64  `json:"driverId"`
	AssistantID int64  `json:"assistantId"`
}

func (s *Server) handleCreateBus(c *gin.Context) {
	var req busRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bus, err := s.dir.CreateBus(c.Request.Context(), roster.Bus{
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		Capacity:    req.Capacity,
		Route:       req.Route,
		DriverID:    req.DriverID,
		AssistantID: req.AssistantID,
	})
	if err != nil {
		s.reqLog(c).Error().Err(err).Msg("create bus failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bus": bus})
}

func (s *Server) handleListBuses(c *gin.Context) {
	buses, err := s.dir.ListBuses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

func (s *Server) handleGetBus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bus id"})
		return
	}
	bus, err := s.dir.GetBus(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bus == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "bus not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

type parentRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

func (s *Server) handleCreateParent(c *gin.Context) {
	var req parentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parent, err := s.dir.CreateParent(c.Request.Context(), roster.Parent{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		s.reqLog(c).Error().Err(err).Msg("create parent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"parent": parent})
}

func (s *Server) handleListParents(c *gin.Context) {
	parents, err := s.dir.ListParents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parents": parents})
}

type studentRequest struct {
	Name      string  `json:"name" binding:"required"`
	Grade     string  `json:"grade"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	BusID     int64   `json:"busId"`
	ParentID  int64   `json:"parentId"`
}

func (s *Server) handleCreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	student, err := s.dir.CreateStudent(c.Request.Context(), roster.Student{
		Name:      req.Name,
		Grade:     req.Grade,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		BusID:     req.BusID,
		ParentID:  req.ParentID,
	})
	if err != nil {
		s.reqLog(c).Error().Err(err).Msg("create student failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"student": student})
}

func (s *Server) handleListStudents(c *gin.Context) {
	students, err := s.dir.ListStudents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (s *Server) handleGetStudent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}
	student, err := s.dir.GetStudent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if student == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student})
}
