package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/store-re/server/internal/model"
	"github.com/store-re/server/internal/store"
)

// LocationsHandler handles location CRUD endpoints.
type LocationsHandler struct {
	DB *sql.DB
}

// List handles GET /v1/locations.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	locs, err := store.ListLocations(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "listing locations")
		return
	}
	if locs == nil {
		locs = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, locs)
}

// Create handles PUT /v1/location.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var loc model.Location
	if err := decodeJSON(r, &loc); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if loc.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	id, err := store.CreateLocation(r.Context(), h.DB, &loc)
	if err != nil {
		storeError(w, err, "creating location")
		return
	}
	loc.ID = id
	jsonResponse(w, http.StatusCreated, loc)
}

// Get handles GET /v1/location/{id}.
func (h *LocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	loc, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "getting location")
		return
	}
	if loc == nil {
		jsonError(w, http.StatusNotFound, "location not found")
		return
	}
	jsonResponse(w, http.StatusOK, loc)
}

// Update handles POST /v1/location/{id}.
func (h *LocationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	var loc model.Location
	if err := decodeJSON(r, &loc); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if loc.ID != id {
		jsonError(w, http.StatusBadRequest, "location id mismatch")
		return
	}
	if loc.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateLocation(r.Context(), h.DB, &loc); err != nil {
		storeError(w, err, "updating location")
		return
	}
	jsonResponse(w, http.StatusOK, loc)
}

// Delete handles DELETE /v1/location/{id}. Refused while items are stored at
// the location.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	if err := store.DeleteLocation(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "deleting location")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "location deleted"})
}
