package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/store-re/server/internal/model"
	"github.com/store-re/server/internal/store"
)

// TagsHandler handles tag CRUD endpoints.
type TagsHandler struct {
	DB *sql.DB
}

// List handles GET /v1/tags.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := store.ListTags(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "listing tags")
		return
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	jsonResponse(w, http.StatusOK, tags)
}

// Create handles PUT /v1/tag.
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tag model.Tag
	if err := decodeJSON(r, &tag); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if tag.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	id, err := store.CreateTag(r.Context(), h.DB, &tag)
	if err != nil {
		storeError(w, err, "creating tag")
		return
	}
	tag.ID = id
	jsonResponse(w, http.StatusCreated, tag)
}

// Get handles GET /v1/tag/{id}.
func (h *TagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	tag, err := store.GetTag(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "getting tag")
		return
	}
	if tag == nil {
		jsonError(w, http.StatusNotFound, "tag not found")
		return
	}
	jsonResponse(w, http.StatusOK, tag)
}

// Update handles POST /v1/tag/{id}.
func (h *TagsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	var tag model.Tag
	if err := decodeJSON(r, &tag); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if tag.ID != id {
		jsonError(w, http.StatusBadRequest, "tag id mismatch")
		return
	}
	if tag.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateTag(r.Context(), h.DB, &tag); err != nil {
		storeError(w, err, "updating tag")
		return
	}
	jsonResponse(w, http.StatusOK, tag)
}

// Delete handles DELETE /v1/tag/{id}. Refused while any item carries the tag.
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := store.DeleteTag(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "deleting tag")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "tag deleted"})
}
