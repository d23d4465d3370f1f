package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pixelden/gameroom/internal/api/handler"
	apimiddleware "github.com/pixelden/gameroom/internal/api/middleware"
	"github.com/pixelden/gameroom/internal/middleware"
	"github.com/pixelden/gameroom/internal/realtime"
	"github.com/pixelden/gameroom/internal/services/room"
	"github.com/pixelden/gameroom/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	RoomCoordinator   *room.Coordinator
	SessionController *session.Controller
	HubManager        *realtime.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.RoomCoordinator, cfg.SessionController, cfg.HubManager)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.HubManager)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Room routes
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/ready", roomHandler.SetReady).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/start", roomHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/ws", roomHandler.Watch).Methods(http.MethodGet)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/moves", sessionHandler.Move).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/undo", sessionHandler.Undo).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

// healthHandler responds to health checks
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
