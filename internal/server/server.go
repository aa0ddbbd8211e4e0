package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/compliancespectre/internal/compliance"
	"github.com/ppiankov/compliancespectre/internal/ingest"
)

const shutdownTimeout = 10 * time.Second

// Info describes the running build.
type Info struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
}

// Server exposes the compliance engine over HTTP.
type Server struct {
	engine  *compliance.Engine
	skipped []ingest.SkippedSource
	info    Info
	echo    *echo.Echo
}

// New creates a server with all routes registered.
func New(engine *compliance.Engine, skipped []ingest.SkippedSource, info Info) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(requestLogger)

	s := &Server{engine: engine, skipped: skipped, info: info, echo: e}
	s.Register(e)
	return s
}

// Register adds the API routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.GET("/frameworks", s.listFrameworks)
	v1.GET("/dates", s.listDates)
	v1.GET("/summary", s.summary)
	v1.GET("/skipped", s.listSkipped)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving compliance API", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("Shutting down compliance API")
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		slog.Debug("HTTP request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration", time.Since(start),
		)
		return err
	}
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"tool":    s.info.Tool,
		"version": s.info.Version,
	})
}

func (s *Server) listFrameworks(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"frameworks": s.engine.ListFrameworks()})
}

func (s *Server) listDates(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"dates": s.engine.DateOptions()})
}

func (s *Server) listSkipped(c echo.Context) error {
	skipped := append([]ingest.SkippedSource{}, s.skipped...)
	for _, t := range s.engine.Skipped() {
		skipped = append(skipped, ingest.SkippedSource{Name: t.Name, Reason: t.Reason})
	}
	return c.JSON(http.StatusOK, map[string]any{"skipped": skipped})
}

func (s *Server) summary(c echo.Context) error {
	framework := c.QueryParam("framework")
	if framework == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "framework query parameter is required")
	}

	filters := compliance.Filters{
		Account: multiValue(c, "account"),
		Region:  multiValue(c, "region"),
		Date:    c.QueryParam("date"),
	}

	res, err := s.engine.Aggregate(framework, filters)
	if errors.Is(err, compliance.ErrFrameworkNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("framework %q not found", framework))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// multiValue accepts repeated (name or name[]) and comma-separated query values.
func multiValue(c echo.Context, name string) []string {
	params := c.QueryParams()
	var out []string
	for _, key := range []string{name, name + "[]"} {
		for _, raw := range params[key] {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					out = append(out, v)
				}
			}
		}
	}
	return out
}
