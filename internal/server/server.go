package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/models"
	"github.com/claude/liftnotes/internal/stats"
	"github.com/claude/liftnotes/internal/storage"
	"github.com/go-chi/chi/v5"
)

// maxDocumentBytes caps request bodies for parse and ingest.
const maxDocumentBytes = 8 << 20

// Store is the persistence surface the handlers use. *storage.DB satisfies it.
type Store interface {
	LatestDocument(ctx context.Context, userID int) (*models.DocumentRow, error)
	QueryEffortRows(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.EffortRow, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

var _ Store = (*storage.DB)(nil)

// Ingester stores a workout log document for a user.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Store
	ingester Ingester
	log      *slog.Logger
	apiKey   string
	router   chi.Router

	identity func(http.Handler) http.Handler

	statsTTL time.Duration
	cacheMu  sync.Mutex
	caches   map[int]*stats.Cache
}

// New creates a new Server with all routes configured. Requests are attributed
// to the local dev user until SetTailscale is called.
func New(db Store, ingester Ingester, statsTTL time.Duration, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		ingester: ingester,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
		identity: DevIdentity,
		statsTTL: statsTTL,
		caches:   make(map[int]*stats.Cache),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches request identity to the tailnet caller.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.identity = TailscaleIdentity(lc, s.db, s.log)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.identity(next).ServeHTTP(w, r)
		})
	})

	// Ingest (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleIngest)
	})

	s.router.Post("/api/v1/parse", s.handleParse)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/documents/latest", s.handleLatestDocument)
	s.router.Get("/api/v1/sessions", s.handleSessions)
	s.router.Get("/api/v1/sets", s.handleSets)
	s.router.Get("/api/v1/suggestions", s.handleSuggestions)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/imports", s.handleImportLogs)
}

// statsCache returns the summary cache of one user.
func (s *Server) statsCache(uid int) *stats.Cache {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	c, ok := s.caches[uid]
	if !ok {
		c = stats.NewCache(s.statsTTL)
		s.caches[uid] = c
	}
	return c
}
