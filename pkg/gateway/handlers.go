package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danish/blueprint/pkg/registry"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type createRequest struct {
	Idea string `json:"idea"`
}

type createResponse struct {
	SessionID string `json:"session_id"`
}

// handleCreate accepts an idea and starts a generation run. The
// response carries only the session id; clients poll or subscribe for
// everything else.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Idea == "" {
		writeError(w, http.StatusBadRequest, "idea is required")
		return
	}

	id := s.generate(req.Idea)
	logger.Info().Str("session_id", id).Msg("Blueprint generation started")

	writeJSON(w, http.StatusAccepted, createResponse{SessionID: id})
}

// handleGet returns the current snapshot for a session
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	snap, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// handleArchive streams the zip bundle for a completed session
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	id := r.PathValue("id")

	snap, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if snap.Status != registry.StatusCompleted {
		writeError(w, http.StatusConflict, fmt.Sprintf("session is %s, archive requires completed", snap.Status))
		return
	}

	filename := s.archiver.Filename(snap.Idea)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := s.archiver.Write(w, snap, s.archiveOrder); err != nil {
		// Headers are already out; all we can do is log.
		logger.Error().Err(err).Str("session_id", id).Msg("Archive write failed")
	}
}

// handleWebSocket streams snapshots for a session until it reaches a
// terminal status. The session id arrives as a query parameter.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	logger.Debug().Str("session_id", sessionID).Msg("WebSocket client connected")

	// Drain client frames so close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		snap, ok := s.registry.Get(sessionID)
		if !ok {
			_ = conn.WriteJSON(map[string]string{"error": "session not found"})
			return
		}

		if err := conn.WriteJSON(snap); err != nil {
			logger.Debug().Err(err).Msg("WebSocket client gone")
			return
		}

		if snap.Status.IsTerminal() {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "generation finished"))
			return
		}

		select {
		case <-ticker.C:
		case <-r.Context().Done():
			return
		}
	}
}
