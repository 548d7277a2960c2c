package handlers

import (
	"encoding/json"
	"net/http"

	"eggadventure/internal/game"
	"eggadventure/internal/validation"
)

// ParentHandler handles parent-mode HTTP requests: the family reward
// list and the notification email. Redemption is a student action.
type ParentHandler struct {
	manager *game.Manager
}

// NewParentHandler creates a new parent handler
func NewParentHandler(manager *game.Manager) *ParentHandler {
	return &ParentHandler{manager: manager}
}

func (h *ParentHandler) controller(r *http.Request) *game.Controller {
	user := GetUserFromContext(r.Context())
	return h.manager.Get(r.Context(), user.ID)
}

type parentEmailRequest struct {
	Email string `json:"email"`
}

// SetParentEmail stores the address notified on reward redemption
func (h *ParentHandler) SetParentEmail(w http.ResponseWriter, r *http.Request) {
	var req parentEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
	}

	ctrl := h.controller(r)
	if err := ctrl.SetParentEmail(req.Email); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

type rewardRequest struct {
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// AddReward appends a reward to the family reward list
func (h *ParentHandler) AddReward(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	if err := validation.ValidateRewardName(req.Name); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if err := validation.ValidateRewardCost(req.Cost); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	ctrl := h.controller(r)
	id, err := ctrl.AddReward(req.Name, req.Cost)
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"snapshot": newSnapshotView(ctrl.State()),
	})
}

// RemoveReward deletes a reward from the family reward list
func (h *ParentHandler) RemoveReward(w http.ResponseWriter, r *http.Request) {
	rewardID := r.PathValue("id")
	if rewardID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing reward id", "", nil)
		return
	}

	ctrl := h.controller(r)
	if err := ctrl.RemoveReward(rewardID); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}

// RedeemReward spends the player's gold on a reward
func (h *ParentHandler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	rewardID := r.PathValue("id")
	if rewardID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing reward id", "", nil)
		return
	}

	ctrl := h.controller(r)
	if err := ctrl.RedeemReward(rewardID); err != nil {
		respondWithGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotView(ctrl.State()))
}
