package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gamestaff/itemadmin/browser"
	"github.com/gamestaff/itemadmin/icons"
	"github.com/gamestaff/itemadmin/scheduler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves health and status endpoints.
type AdminHandler struct {
	db      *gorm.DB
	browser *browser.Browser
	icons   *icons.Store
	sched   *scheduler.Scheduler
	started time.Time
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	db *gorm.DB,
	b *browser.Browser,
	store *icons.Store,
	sched *scheduler.Scheduler,
) *AdminHandler {
	return &AdminHandler{db: db, browser: b, icons: store, sched: sched, started: time.Now()}
}

// PingDB checks that the database answers within two seconds.
func PingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Health reports whether the database is reachable.
// GET /health
func (h *AdminHandler) Health(c *gin.Context) {
	if err := PingDB(c.Request.Context(), h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status returns runtime details for the admin.
// GET /admin/status
func (h *AdminHandler) Status(c *gin.Context) {
	iconMap, err := h.icons.Scan()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s := h.browser.Strategy()
	c.JSON(http.StatusOK, gin.H{
		"framework":       s.Name(),
		"table":           s.Table(),
		"upload_dirs":     h.icons.Dirs(),
		"icons":           len(iconMap),
		"scheduler_tasks": h.sched.ListTickers(),
		"uptime":          time.Since(h.started).Round(time.Second).String(),
	})
}
