package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/andywinn76/todo-app/internal/handler"
	"github.com/andywinn76/todo-app/internal/middleware"
	"github.com/andywinn76/todo-app/internal/store"
	ws "github.com/andywinn76/todo-app/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	listH        *handler.ListHandler
	taskH        *handler.TaskHandler
	groceryH     *handler.GroceryHandler
	noteH        *handler.NoteHandler
	inviteH      *handler.InviteHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	listStore := store.NewListStore(db)
	taskStore := store.NewTaskStore(db)
	groceryStore := store.NewGroceryStore(db)
	noteStore := store.NewNoteStore(db)
	inviteStore := store.NewInviteStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		listH:        handler.NewListHandler(listStore, userStore, hub, logger.With("component", "list")),
		taskH:        handler.NewTaskHandler(taskStore, listStore, logger.With("component", "task")),
		groceryH:     handler.NewGroceryHandler(groceryStore, listStore, logger.With("component", "grocery")),
		noteH:        handler.NewNoteHandler(noteStore, listStore, logger.With("component", "note")),
		inviteH:      handler.NewInviteHandler(inviteStore, listStore, userStore, hub, logger.With("component", "invite")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)

	// List API routes
	mux.HandleFunc("GET /api/lists", s.listH.Directory)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Rename)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)
	mux.HandleFunc("POST /api/lists/{id}/leave", s.listH.Leave)

	// Task API routes
	mux.HandleFunc("POST /api/lists/{list_id}/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/lists/{list_id}/tasks", s.taskH.List)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)

	// Grocery API routes
	mux.HandleFunc("POST /api/lists/{list_id}/groceries", s.groceryH.Create)
	mux.HandleFunc("GET /api/lists/{list_id}/groceries", s.groceryH.List)
	mux.HandleFunc("PUT /api/groceries/{id}", s.groceryH.Update)
	mux.HandleFunc("POST /api/groceries/{id}/check", s.groceryH.Check)
	mux.HandleFunc("DELETE /api/groceries/{id}", s.groceryH.Delete)

	// Note API routes
	mux.HandleFunc("GET /api/lists/{list_id}/note", s.noteH.Get)
	mux.HandleFunc("PUT /api/lists/{list_id}/note", s.noteH.Put)

	// Invite API routes
	mux.HandleFunc("POST /api/invites", s.inviteH.Send)
	mux.HandleFunc("GET /api/invites/pending", s.inviteH.Pending)
	mux.HandleFunc("GET /api/invites/count", s.inviteH.Count)
	mux.HandleFunc("POST /api/invites/{id}/accept", s.inviteH.Accept)
	mux.HandleFunc("POST /api/invites/{id}/decline", s.inviteH.Decline)

	// WebSocket endpoint for real-time updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
