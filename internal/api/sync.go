package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/store-re/server/internal/model"
	"github.com/store-re/server/internal/sync"
)

// SyncHandler handles the synchronization endpoint.
type SyncHandler struct {
	Engine *sync.Engine
}

type syncRequest struct {
	LocalItems []model.Item `json:"localItems"`
}

type syncResponse struct {
	ObsoleteIDs    []int64      `json:"obsoleteIds"`
	RefreshedItems []model.Item `json:"refreshedItems"`
}

// Sync handles POST /v1/sync. The client sends its full local item snapshot;
// the response tells it which local items to discard and which authoritative
// versions to adopt. A conflict rejects the whole call with 409.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())
	if principal == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req syncRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	delta, err := h.Engine.Sync(r.Context(), principal, req.LocalItems)
	if err != nil {
		if errors.Is(err, sync.ErrConflict) {
			jsonError(w, http.StatusConflict, "sync conflict")
			return
		}
		storeError(w, err, "syncing")
		return
	}

	slog.Info("sync completed",
		"session", principal.SessionID,
		"obsolete", len(delta.ObsoleteIDs),
		"refreshed", len(delta.RefreshedItems))

	jsonResponse(w, http.StatusOK, syncResponse{
		ObsoleteIDs:    delta.ObsoleteIDs,
		RefreshedItems: delta.RefreshedItems,
	})
}
