// Package api provides the HTTP observation API for a running voyage.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/seaworthy/internal/engine"
	"github.com/talgya/seaworthy/internal/naval"
	"github.com/talgya/seaworthy/internal/persistence"
	"github.com/talgya/seaworthy/internal/voyage"
)

// Server serves read-only voyage state plus admin controls.
type Server struct {
	Sim       *engine.Simulation
	Eng       *engine.Engine
	DB        *persistence.DB // nil disables combat history and snapshots
	Maneuvers naval.Maneuvers
	Seed      int64
	Port      int
	AdminKey  string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	adminLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()

	// Public read-only endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/ship", s.handleShip)
	mux.HandleFunc("/api/v1/voyage", s.handleVoyage)
	mux.HandleFunc("/api/v1/log", s.handleLog)
	mux.HandleFunc("/api/v1/maneuvers", s.handleManeuvers)
	mux.HandleFunc("/api/v1/combats", s.handleCombats)
	mux.HandleFunc("/api/v1/combat/", s.handleCombatDetail)

	// Admin endpoints (bearer token on POST).
	mux.HandleFunc("/api/v1/speed", RateLimitMiddleware(adminLimiter, s.adminOnly(s.handleSpeed)))
	mux.HandleFunc("/api/v1/rationing", RateLimitMiddleware(adminLimiter, s.adminOnly(s.handleRationing)))
	mux.HandleFunc("/api/v1/snapshot", RateLimitMiddleware(adminLimiter, s.adminOnly(s.handleSnapshot)))

	return corsMiddleware(mux)
}

// Start serves in the background.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("SEASIM_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires the bearer token on POST. GET passes through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no SEASIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"tick":    s.Sim.CurrentTick(),
		"speed":   s.Eng.Speed(),
		"running": s.Eng.Running(),
		"voyage":  s.Sim.Report(),
	})
}

func (s *Server) handleShip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Ship())
}

func (s *Server) handleVoyage(w http.ResponseWriter, r *http.Request) {
	st := s.Sim.Voyage()
	st.Log = nil // served by /log
	writeJSON(w, st)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Recent(queryLimit(r, 50)))
}

func (s *Server) handleManeuvers(w http.ResponseWriter, r *http.Request) {
	out := make([]naval.Maneuver, 0, len(s.Maneuvers))
	for _, id := range s.Maneuvers.IDs() {
		out = append(out, s.Maneuvers[id])
	}
	writeJSON(w, out)
}

func (s *Server) handleCombats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	list, err := s.DB.Combats(queryLimit(r, 20))
	if err != nil {
		slog.Error("list combats failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleCombatDetail(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/v1/combat/"), 10, 64)
	if err != nil {
		http.Error(w, "invalid combat id", http.StatusBadRequest)
		return
	}
	st, err := s.DB.LoadCombat(id)
	if errors.Is(err, persistence.ErrNotFound) {
		http.Error(w, "combat not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load combat failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, st)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleRationing(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Level voyage.Rationing `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		switch req.Level {
		case voyage.RationNormal, voyage.RationHalf, voyage.RationStarvation:
		default:
			http.Error(w, "level must be normal, half or starvation", http.StatusBadRequest)
			return
		}
		s.Sim.SetRationing(req.Level)
		slog.Info("rationing changed", "level", req.Level)
	}

	writeJSON(w, map[string]string{"rationing": s.Sim.Voyage().Rationing.String()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	if err := s.DB.SaveSimulation(s.Sim, s.Seed); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"tick":    s.Sim.CurrentTick(),
		"message": "snapshot saved",
	})
}

func queryLimit(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
