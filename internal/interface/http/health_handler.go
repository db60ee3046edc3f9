package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/sirupsen/logrus"
)

// Pinger is the store's "is reachable" primitive the health surface
// consumes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Resource thresholds for the detailed check.
const (
	cpuThreshold  = 80.0
	memThreshold  = 80.0
	diskThreshold = 90.0
)

type HealthHandler struct {
	DB      Pinger
	Logger  *logrus.Logger
	AppName string
	Version string
}

func NewHealthHandler(db Pinger, logger *logrus.Logger, appName, version string) *HealthHandler {
	return &HealthHandler{DB: db, Logger: logger, AppName: appName, Version: version}
}

// Basic is a dependency-free health endpoint.
func (h *HealthHandler) Basic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   h.AppName + " is running",
		"version":   h.Version,
		"timestamp": time.Now().Unix(),
	})
}

// Live is the liveness probe: the process is up, nothing else is checked.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "message": "application is alive"})
}

// Ready is the readiness probe: serving traffic requires a reachable store.
func (h *HealthHandler) Ready(c *gin.Context) {
	db := h.checkDatabase(c.Request.Context())
	if db["status"] != "healthy" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "message": "application not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "message": "application is ready to serve traffic"})
}

// Detailed reports a component breakdown: store reachability plus host
// cpu/memory/disk usage against fixed thresholds.
func (h *HealthHandler) Detailed(c *gin.Context) {
	start := time.Now()
	db := h.checkDatabase(c.Request.Context())
	system := h.checkSystemResources(c.Request.Context())

	overall := "healthy"
	for _, s := range []string{db["status"].(string), system["status"].(string)} {
		switch s {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	report := gin.H{
		"status":                  overall,
		"timestamp":               time.Now().Unix(),
		"total_check_duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
		"components": gin.H{
			"database": db,
			"system":   system,
		},
	}

	status := http.StatusOK
	if overall == "unhealthy" {
		status = http.StatusServiceUnavailable
		if h.Logger != nil {
			h.Logger.WithField("report", report).Error("health check failed")
		}
	} else if overall == "degraded" && h.Logger != nil {
		h.Logger.WithField("report", report).Warn("health check degraded")
	}
	c.JSON(status, report)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) gin.H {
	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := h.DB.Ping(pingCtx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("database health check failed")
		}
		return gin.H{"status": "unhealthy", "response_time_ms": elapsed, "message": "database error: " + err.Error()}
	}
	return gin.H{"status": "healthy", "response_time_ms": elapsed, "message": "database connection successful"}
}

func (h *HealthHandler) checkSystemResources(ctx context.Context) gin.H {
	status := "healthy"
	issues := make([]string, 0)

	var cpuPercent, memPercent, diskPercent float64
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		memPercent = vm.UsedPercent
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		diskPercent = du.UsedPercent
	}

	if cpuPercent > cpuThreshold {
		status = "degraded"
		issues = append(issues, "high cpu usage")
	}
	if memPercent > memThreshold {
		status = "degraded"
		issues = append(issues, "high memory usage")
	}
	if diskPercent > diskThreshold {
		status = "unhealthy"
		issues = append(issues, "high disk usage")
	}

	msg := "system resources checked"
	if len(issues) > 0 {
		msg = issues[0]
		for _, i := range issues[1:] {
			msg += "; " + i
		}
	}
	return gin.H{
		"status":       status,
		"cpu_percent":  cpuPercent,
		"mem_percent":  memPercent,
		"disk_percent": diskPercent,
		"issues":       issues,
		"message":      msg,
	}
}
