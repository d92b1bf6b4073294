package server

import (
	"encoding/json"
	"net/http"

	"github.com/dota2-beta/Dungeon-Game/internal/engine"
	"github.com/dota2-beta/Dungeon-Game/internal/network"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сессий
type DebugHandler struct {
	Manager *engine.Manager
	Hub     *network.Broadcaster
}

func NewDebugHandler(m *engine.Manager, hub *network.Broadcaster) *DebugHandler {
	return &DebugHandler{Manager: m, Hub: hub}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.handleSessions)
	mux.HandleFunc("/debug/connections", h.handleConnections)
}

// /debug/sessions - список сессий; /debug/sessions?id=X - полный снимок сессии X
func (h *DebugHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		s, ok := h.Manager.Session(id)
		if !ok {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		snap, err := s.Snapshot()
		if err != nil {
			http.Error(w, err.Error(), http.StatusGone)
			return
		}
		writeJSON(w, snap)
		return
	}

	type SessionSummary struct {
		ID          string `json:"id"`
		EntityCount int    `json:"entity_count"`
		Players     int    `json:"players"`
		Combats     int    `json:"active_combats"`
	}

	summary := make([]SessionSummary, 0)
	for _, id := range h.Manager.Sessions() {
		s, ok := h.Manager.Session(id)
		if !ok {
			continue
		}
		// Сессия могла закрыться между вызовами
		snap, err := s.Snapshot()
		if err != nil {
			continue
		}
		players, _ := s.PlayerCount()
		summary = append(summary, SessionSummary{
			ID:          id,
			EntityCount: len(snap.Entities),
			Players:     players,
			Combats:     len(snap.Combats),
		})
	}
	writeJSON(w, summary)
}

// /debug/connections - число подписчиков хаба
func (h *DebugHandler) handleConnections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"subscribers": h.Hub.SubscriberCount()})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("debug write failed")
	}
}
