// Package health provides the HTTP status server behind `inksmith serve`:
// liveness, readiness, and run-ledger statistics.
package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/inksmith-ai/inksmith/internal/state"
	"github.com/inksmith-ai/inksmith/internal/version"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Server exposes pipeline status over HTTP.
type Server struct {
	echo   *echo.Echo
	ledger *state.DB
	addr   string
	start  time.Time
}

// NewServer creates a status server. ledger may be nil; the run endpoints
// then report unavailable.
func NewServer(addr string, ledger *state.DB) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s := &Server{
		echo:   e,
		ledger: ledger,
		addr:   addr,
		start:  time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/health/detailed", s.handleHealthDetailed)
	s.echo.GET("/live", s.handleHealth)
	s.echo.GET("/ready", s.handleReady)
	s.echo.GET("/metrics", s.handleMetrics)
	s.echo.GET("/runs", s.handleRuns)
	s.echo.GET("/stats", s.handleStats)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.Get(),
		Uptime:  time.Since(s.start).Round(time.Second).String(),
	})
}

// DetailedResponse is the body of GET /health/detailed.
type DetailedResponse struct {
	Status         string            `json:"status"`
	Version        string            `json:"version"`
	Uptime         string            `json:"uptime"`
	LedgerAttached bool              `json:"ledger_attached"`
	LastRun        *models.RunRecord `json:"last_run,omitempty"`
}

func (s *Server) handleHealthDetailed(c echo.Context) error {
	resp := DetailedResponse{
		Status:         "ok",
		Version:        version.Get(),
		Uptime:         time.Since(s.start).Round(time.Second).String(),
		LedgerAttached: s.ledger != nil,
	}
	if s.ledger != nil {
		runs, err := s.ledger.RecentRuns(1)
		if err != nil {
			resp.Status = "degraded"
		} else if len(runs) > 0 {
			resp.LastRun = runs[0]
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// handleMetrics emits plain-text counters from the run ledger.
func (s *Server) handleMetrics(c echo.Context) error {
	var counts map[models.RunStatus]int
	if s.ledger != nil {
		var err error
		counts, err = s.ledger.CountByStatus()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	var b strings.Builder
	fmt.Fprintf(&b, "inksmith_runs_total %d\n", total)
	fmt.Fprintf(&b, "inksmith_runs_approved %d\n", counts[models.RunStatusApproved])
	fmt.Fprintf(&b, "inksmith_runs_rejected %d\n", counts[models.RunStatusRejected])
	fmt.Fprintf(&b, "inksmith_runs_failed %d\n", counts[models.RunStatusFailed])
	fmt.Fprintf(&b, "inksmith_runs_running %d\n", counts[models.RunStatusRunning])
	fmt.Fprintf(&b, "inksmith_uptime_seconds %d\n", int(time.Since(s.start).Seconds()))
	return c.String(http.StatusOK, b.String())
}

// handleReady reports ready only when the ledger is reachable.
func (s *Server) handleReady(c echo.Context) error {
	if s.ledger == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "run ledger not attached")
	}
	if _, err := s.ledger.CountByStatus(); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("ledger: %v", err))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// handleRuns returns the most recent runs from the ledger.
func (s *Server) handleRuns(c echo.Context) error {
	if s.ledger == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "run ledger not attached")
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil || limit < 1 || limit > 200 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be 1-200")
		}
	}

	runs, err := s.ledger.RecentRuns(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, runs)
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`
	Running  int `json:"running"`
}

func (s *Server) handleStats(c echo.Context) error {
	if s.ledger == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "run ledger not attached")
	}

	counts, err := s.ledger.CountByStatus()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	stats := StatsResponse{
		Approved: counts[models.RunStatusApproved],
		Rejected: counts[models.RunStatusRejected],
		Failed:   counts[models.RunStatusFailed],
		Running:  counts[models.RunStatusRunning],
	}
	stats.Total = stats.Approved + stats.Rejected + stats.Failed + stats.Running
	return c.JSON(http.StatusOK, stats)
}

// Handler exposes the route tree for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
