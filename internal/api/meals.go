package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"canteen/internal/models"
	"canteen/internal/monitoring"
	"canteen/internal/service"
	"canteen/internal/store"
)

// MealAPI represents the HTTP surface of the canteen service.
type MealAPI struct {
	Router  *gin.Engine
	svc     *service.Service
	monitor *monitoring.Monitor
	auth    *Authenticator
	hub     *Hub
	log     *logrus.Entry
}

// New creates the API, wiring routes, auth middleware, and the websocket
// hub kitchen displays subscribe to.
func New(svc *service.Service, monitor *monitoring.Monitor, auth *Authenticator, log *logrus.Logger) *MealAPI {
	api := &MealAPI{
		Router:  gin.Default(),
		svc:     svc,
		monitor: monitor,
		auth:    auth,
		hub:     NewHub(log),
		log:     log.WithField("component", "api"),
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *MealAPI) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	a.Router.POST("/login", a.Login)

	authed := a.Router.Group("", a.auth.Middleware())
	{
		authed.POST("/init", a.InitDay)
		authed.GET("/dashboard", a.GetDashboard)
		authed.GET("/list", a.GetRoster)
		authed.POST("/update-order", a.UpdateOrder)
		authed.GET("/weekly", a.GetWeekly)

		// Operational extras.
		authed.GET("/stats", a.GetStats)
		authed.GET("/ws", a.hub.Handle)
	}
}

// InitDay seeds today's records for every staff member that has none yet.
// Idempotent: the client calls it on every app load.
func (a *MealAPI) InitDay(c *gin.Context) {
	date, created, err := a.svc.SeedToday()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.pushDashboard()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "seeded": date, "created": created})
}

// GetDashboard returns today's meal totals for the kitchen.
func (a *MealAPI) GetDashboard(c *gin.Context) {
	view, err := a.svc.Dashboard(a.svc.Today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetRoster returns today's per-person list for the operator view.
func (a *MealAPI) GetRoster(c *gin.Context) {
	view, err := a.svc.Roster(a.svc.Today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateOrderRequest struct {
	StaffID string            `json:"staffId" binding:"required"`
	Status  models.MealStatus `json:"status" binding:"required"`
	Extra   int               `json:"extra"`
}

// UpdateOrder replaces one staff member's order for today.
func (a *MealAPI) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := a.svc.UpdateToday(req.StaffID, req.Status, req.Extra)
	if err != nil {
		status, reason := orderErrorStatus(err)
		if status != http.StatusInternalServerError {
			monitoring.RejectedUpdates.WithLabelValues(reason).Inc()
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	a.pushDashboard()
	c.JSON(http.StatusOK, rec)
}

// GetWeekly returns the five-weekday grid for the current window.
func (a *MealAPI) GetWeekly(c *gin.Context) {
	view, err := a.svc.CurrentWeek()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetStats returns the in-process operations snapshot.
func (a *MealAPI) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, a.monitor.GetMetrics())
}

// pushDashboard broadcasts a fresh dashboard snapshot to connected kitchen
// displays after a successful write.
func (a *MealAPI) pushDashboard() {
	view, err := a.svc.Dashboard(a.svc.Today())
	if err != nil {
		a.log.WithError(err).Warn("dashboard push skipped")
		return
	}
	a.hub.Broadcast(view)
}

func orderErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrLocked):
		return http.StatusConflict, "locked"
	case errors.Is(err, store.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid"
	case errors.Is(err, store.ErrStaffNotFound):
		return http.StatusNotFound, "staff_not_found"
	default:
		return http.StatusInternalServerError, "storage"
	}
}
