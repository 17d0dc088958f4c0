// Package server exposes planning and simulation runs over HTTP.
//
//	GET  /healthz
//	POST /plan
//	POST /simulations
//	GET  /simulations/:id
//
// Every request builds its own field, planner and learner, so handlers share
// nothing but the result store.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/planner"
	"github.com/zeu5/gridnav/sim"
)

// Config holds the settings for a Server.
type Config struct {
	Addr           string
	Store          ResultStore
	Logger         *slog.Logger
	RequestTimeout time.Duration
	// MaxCells bounds Size*Size of any requested field.
	MaxCells int
}

type Server struct {
	addr     string
	store    ResultStore
	logger   *slog.Logger
	timeout  time.Duration
	maxCells int
	engine   *gin.Engine
}

func New(config Config) *Server {
	s := &Server{
		addr:     config.Addr,
		store:    config.Store,
		logger:   config.Logger,
		timeout:  config.RequestTimeout,
		maxCells: config.MaxCells,
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.engine = s.routes()
	return s
}

// Handler is the gin engine, usable with httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.health)
	router.POST("/plan", s.plan)
	simulations := router.Group("/simulations")
	{
		simulations.POST("", s.simulate)
		simulations.GET("/:id", s.simulation)
	}
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(c.Request.Context(), s.timeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (s *Server) tooLarge(size int) bool {
	return s.maxCells > 0 && size*size > s.maxCells
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) plan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	field := req.Field
	if field == nil {
		fc := grid.DefaultFieldConfig()
		if req.FieldConfig != nil {
			fc = *req.FieldConfig
		}
		if s.tooLarge(fc.Size) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("field size %d too large", fc.Size)})
			return
		}
		ctx, cancel := s.requestContext(c)
		defer cancel()
		var err error
		field, err = grid.GenerateContext(ctx, fc)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, errorResponse{Error: "field generation timed out"})
			return
		case err != nil:
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	} else if s.tooLarge(field.Size()) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("field size %d too large", field.Size())})
		return
	}

	opts := []planner.Option{}
	if req.StepCost != 0 {
		opts = append(opts, planner.WithStepCost(req.StepCost))
	}
	if req.Trace {
		opts = append(opts, planner.WithExpansionTrace())
	}
	p, err := planner.New(field, opts...)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	res := p.Search(req.Start, req.Goal)
	c.JSON(http.StatusOK, PlanResponse{Result: res, Steps: res.Path.Steps()})
}

func (s *Server) simulate(c *gin.Context) {
	cfg := sim.DefaultConfig()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if s.tooLarge(cfg.Field.Size) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("field size %d too large", cfg.Field.Size)})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()
	res, err := sim.Run(ctx, cfg, sim.WithLogger(s.logger))
	switch {
	case errors.Is(err, sim.ErrConfig):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorResponse{Error: "simulation timed out"})
		return
	case err != nil:
		s.logger.Error("simulation failed", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "simulation failed"})
		return
	}

	rec := &Record{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Result:    res,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Error("saving result", "id", rec.ID, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not store result"})
		return
	}
	c.JSON(http.StatusCreated, SimulationResponse{ID: rec.ID, Result: res})
}

func (s *Server) simulation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	rec, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("loading result", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not load result"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
