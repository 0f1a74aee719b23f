// Package server exposes the game as a small JSON HTTP API, based on gin.
//
// Each match lives in memory in a session identified by a UUID. Sessions are bounded: when
// the limit is reached the oldest one is evicted. The Board is not safe for concurrent use,
// so each session holds its own lock.
package server

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"io"
	"k8s.io/klog/v2"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultMaxSessions is used if Options.MaxSessions is not set.
	DefaultMaxSessions = 1000

	// DefaultMaxCells is used if Options.MaxCells is not set.
	DefaultMaxCells = 128 * 128
)

// Options to create a Server.
type Options struct {
	// MaxSessions kept in memory. Defaults to DefaultMaxSessions.
	MaxSessions int

	// MaxCells (width x height) accepted for a new match. Defaults to DefaultMaxCells.
	MaxCells int

	// Debug discloses the hazards of every match.
	Debug bool

	// Registry where the metrics are registered, and that is served on /metrics.
	// If nil, a new one is created.
	Registry *prometheus.Registry
}

type session struct {
	mu    sync.Mutex
	board *Board
}

// Server holds the matches in play.
type Server struct {
	opts     Options
	registry *prometheus.Registry
	metrics  *metrics

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	order    []uuid.UUID // Creation order, oldest first.

	// newBoard creates the Board of a new session.
	newBoard func() *Board
}

// New creates a Server with the given options.
func New(opts Options) *Server {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.MaxCells <= 0 {
		opts.MaxCells = DefaultMaxCells
	}
	s := &Server{
		opts:     opts,
		registry: opts.Registry,
		sessions: make(map[uuid.UUID]*session),
		newBoard: NewBoard,
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)
	return s
}

// Router returns the gin engine with all the routes configured.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	games := r.Group("/games")
	games.POST("", s.createGame)
	games.GET("/:id", s.getGame)
	games.POST("/:id/moves", s.playMove)
	games.DELETE("/:id", s.deleteGame)
	return r
}

// requestLogger logs each request with klog, at verbosity 1.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		klog.V(1).Infof("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// NumSessions returns the number of matches currently kept.
func (s *Server) NumSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// addSession stores the session, evicting the oldest ones if needed.
func (s *Server) addSession(id uuid.UUID, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.sessions) >= s.opts.MaxSessions && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		if _, found := s.sessions[oldest]; found {
			delete(s.sessions, oldest)
			klog.V(1).Infof("Evicted game %s", oldest)
		}
	}
	s.sessions[id] = sess
	s.order = append(s.order, id)
	s.metrics.sessions.Set(float64(len(s.sessions)))
}

// lookup parses the id parameter and returns the session. If it fails it writes a 404 reply
// and returns nil.
func (s *Server) lookup(c *gin.Context) (uuid.UUID, *session) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "message": "invalid game id"})
		return id, nil
	}
	s.mu.Lock()
	sess := s.sessions[id]
	s.mu.Unlock()
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "message": "game not found"})
	}
	return id, sess
}

type createRequest struct {
	Config string `json:"config"`
}

func (s *Server) createGame(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	config, err := ParseGameConfig(req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": configErrorKind(err), "message": err.Error()})
		return
	}
	if cells := config.Width * config.Height; cells > s.opts.MaxCells {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many cells",
			"message": fmt.Sprintf("board %dx%d has %d cells, the server accepts at most %d",
				config.Width, config.Height, cells, s.opts.MaxCells)})
		return
	}
	board := s.newBoard()
	board.SetDebug(s.opts.Debug)
	if err := config.Setup(board); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": configErrorKind(err), "message": err.Error()})
		return
	}
	id := uuid.New()
	sess := &session{board: board}
	s.addSession(id, sess)
	s.metrics.gamesStarted.Inc()
	klog.V(1).Infof("New game %s: %dx%d with %d hazards", id, config.Width, config.Height, config.Hazards)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusCreated, newGameView(id.String(), board))
}

// configErrorKind returns the kind of configuration error, or a generic error for
// a malformed configuration string.
func configErrorKind(err error) string {
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return configErr.Kind.String()
	}
	return "invalid configuration"
}

func (s *Server) getGame(c *gin.Context) {
	id, sess := s.lookup(c)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusOK, newGameView(id.String(), sess.board))
}

type moveRequest struct {
	X      *int   `json:"x" binding:"required"`
	Y      *int   `json:"y" binding:"required"`
	Action string `json:"action" binding:"required,oneof=reveal flag"`
}

type moveResponse struct {
	Game     GameView `json:"game"`
	Revealed []Pos    `json:"revealed"`
}

func (s *Server) playMove(c *gin.Context) {
	id, sess := s.lookup(c)
	if sess == nil {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	action := Reveal
	if req.Action == "flag" {
		action = ToggleFlag
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	err := sess.board.ApplyMove(*req.X, *req.Y, action)
	if err != nil {
		var moveErr *MoveError
		if !errors.As(err, &moveErr) {
			klog.Errorf("Game %s: unexpected error: %+v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		s.metrics.moves.WithLabelValues(req.Action, moveErr.Kind.String()).Inc()
		c.JSON(moveErrorStatus(moveErr.Kind), gin.H{"error": moveErr.Kind.String(), "message": err.Error()})
		return
	}
	s.metrics.moves.WithLabelValues(req.Action, "ok").Inc()
	if sess.board.IsFinished() {
		status := strings.ToLower(sess.board.Status().String())
		s.metrics.gamesFinished.WithLabelValues(status).Inc()
		klog.V(1).Infof("Game %s finished: %s", id, status)
	}
	revealed := append([]Pos{}, sess.board.LastRevealed()...)
	SortPositions(revealed)
	c.JSON(http.StatusOK, moveResponse{
		Game:     newGameView(id.String(), sess.board),
		Revealed: revealed,
	})
}

// moveErrorStatus maps the kind of move error to the HTTP status code.
func moveErrorStatus(kind MoveErrorKind) int {
	switch kind {
	case OutOfBounds:
		return http.StatusBadRequest
	case AlreadyRevealed, GameOver, NotReady:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) deleteGame(c *gin.Context) {
	id, sess := s.lookup(c)
	if sess == nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, id)
	for ii, other := range s.order {
		if other == id {
			s.order = append(s.order[:ii], s.order[ii+1:]...)
			break
		}
	}
	s.metrics.sessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}
