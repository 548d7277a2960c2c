package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eggadventure/internal/game"
)

// GameHandler handles quiz and exploration HTTP requests
type GameHandler struct {
	manager *game.Manager
}

// NewGameHandler creates a new game handler
func NewGameHandler(manager *game.Manager) *GameHandler {
	return &GameHandler{manager: manager}
}

func (h *GameHandler) controller(r *http.Request) *game.Controller {
	user := GetUserFromContext(r.Context())
	return h.manager.Get(r.Context(), user.ID)
}

// State returns the current game snapshot
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(r)
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

type challengeRequest struct {
	Subject    string `json:"subject"`
	Grade      string `json:"grade"`
	Difficulty string `json:"difficulty"`
}

// StartChallenge begins a quiz session in the player's current room
func (h *GameHandler) StartChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	ctrl := h.controller(r)
	if err := ctrl.StartChallenge(req.Subject, req.Grade, req.Difficulty); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

type answerRequest struct {
	// Option is null when the player ran out of time without choosing
	Option *string `json:"option"`
}

// Answer submits the player's answer to the current question
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	ctrl := h.controller(r)
	if err := ctrl.Answer(req.Option); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

// AcknowledgeSummary banks session gold and returns to exploration
func (h *GameHandler) AcknowledgeSummary(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(r)
	if err := ctrl.AcknowledgeSummary(); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

type roomRequest struct {
	Room string `json:"room"`
}

// SetRoom moves the player to another room
func (h *GameHandler) SetRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	ctrl := h.controller(r)
	if err := ctrl.SetRoom(req.Room); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

// ToggleRole switches the profile between student and parent mode
func (h *GameHandler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(r)
	if err := ctrl.ToggleRole(); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

// Events streams game snapshots over server-sent events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Streaming unsupported", "", nil)
		return
	}

	ctrl := h.controller(r)
	snapshots, cancel := ctrl.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeEvent := func(s game.Snapshot) bool {
		payload, err := json.Marshal(newSnapshotView(s))
		if err != nil {
			return false
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return false
		}
		if _, err := w.Write(payload); err != nil {
			return false
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !writeEvent(ctrl.State()) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			if !writeEvent(snapshot) {
				return
			}
		}
	}
}

// Rooms returns the static rooms map
func (h *GameHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	rooms := game.AllRooms()
	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, newRoomView(room))
	}
	writeJSON(w, http.StatusOK, views)
}

// Catalog returns the subject, grade, and difficulty choices
func (h *GameHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	difficulties := append(append([]string{}, game.Difficulties...), game.DifficultyReflection)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subjects":     game.Subjects,
		"grades":       game.Grades,
		"difficulties": difficulties,
		"sessionSize":  game.SessionMax,
	})
}

func respondWithGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownSubject),
		errors.Is(err, game.ErrUnknownGrade),
		errors.Is(err, game.ErrUnknownDifficulty):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, game.ErrNotInExplore),
		errors.Is(err, game.ErrNotInQuiz),
		errors.Is(err, game.ErrNotInSummary),
		errors.Is(err, game.ErrNoMissedQuestions),
		errors.Is(err, game.ErrInsufficientGold),
		errors.Is(err, game.ErrControllerClosed):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, game.ErrRewardNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, game.ErrParentOnly):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Game operation failed", err)
	}
}
