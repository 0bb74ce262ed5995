package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/store-re/server/internal/model"
	"github.com/store-re/server/internal/store"
)

// DatabasesHandler handles logical database CRUD endpoints.
type DatabasesHandler struct {
	DB *sql.DB
}

// List handles GET /v1/databases.
func (h *DatabasesHandler) List(w http.ResponseWriter, r *http.Request) {
	dbs, err := store.ListDatabases(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "listing databases")
		return
	}
	if dbs == nil {
		dbs = []model.Database{}
	}
	jsonResponse(w, http.StatusOK, dbs)
}

// Create handles PUT /v1/database.
func (h *DatabasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.Database
	if err := decodeJSON(r, &d); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if d.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	id, err := store.CreateDatabase(r.Context(), h.DB, &d)
	if err != nil {
		storeError(w, err, "creating database")
		return
	}
	d.ID = id
	jsonResponse(w, http.StatusCreated, d)
}

// Get handles GET /v1/database/{id}.
func (h *DatabasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid database id")
		return
	}

	d, err := store.GetDatabase(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "getting database")
		return
	}
	if d == nil {
		jsonError(w, http.StatusNotFound, "database not found")
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Update handles POST /v1/database/{id}.
func (h *DatabasesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid database id")
		return
	}

	var d model.Database
	if err := decodeJSON(r, &d); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if d.ID != id {
		jsonError(w, http.StatusBadRequest, "database id mismatch")
		return
	}
	if d.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateDatabase(r.Context(), h.DB, &d); err != nil {
		storeError(w, err, "updating database")
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Delete handles DELETE /v1/database/{id}. Refused while locations belong to
// the database.
func (h *DatabasesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid database id")
		return
	}

	if err := store.DeleteDatabase(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "deleting database")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "database deleted"})
}
