package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/attendance/internal/db"
	"github.com/yigit/attendance/internal/pkg/dberrors"
)

// HealthController reports process and database liveness
type HealthController struct {
	database db.Pinger
	now      func() time.Time
}

// NewHealthController creates a new HealthController
func NewHealthController(database db.Pinger) *HealthController {
	return &HealthController{
		database: database,
		now:      time.Now,
	}
}

// Root answers with a banner so clients can tell the API is up
// @Summary API banner
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Attendance System API is running!",
		"status":    "ok",
		"timestamp": c.now().UTC().Format(time.RFC3339Nano),
	})
}

// Health checks that the database answers
// @Summary Database health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "status ok"
// @Failure 500 {object} map[string]string "status error with the driver message"
// @Router /api/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if err := c.database.Ping(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "db": dberrors.Message(err)})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
