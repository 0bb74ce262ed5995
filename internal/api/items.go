package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/store-re/server/internal/imaging"
	"github.com/store-re/server/internal/model"
	"github.com/store-re/server/internal/store"
)

// ItemsHandler handles item CRUD and image endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /v1/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "listing items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles PUT /v1/item. The client must send id 0; the server assigns
// the canonical id. Items created offline go through sync instead, which
// handles temporary ids.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if item.ID != 0 {
		jsonError(w, http.StatusBadRequest, "item id must be 0")
		return
	}
	if item.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if item.Created == 0 {
		now := time.Now().Unix()
		item.Created = now
		item.LastEdited = now
	}

	tx, err := h.DB.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("beginning transaction", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer tx.Rollback()

	id, err := store.InsertItem(r.Context(), tx, &item)
	if err != nil {
		storeError(w, err, "creating item")
		return
	}
	stored, err := store.GetItem(r.Context(), tx, id)
	if err != nil {
		storeError(w, err, "creating item")
		return
	}
	if err := tx.Commit(); err != nil {
		slog.Error("committing item creation", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusCreated, stored)
}

// Get handles GET /v1/item/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "getting item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles POST /v1/item/{id}: a full replace of the stored item.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var item model.Item
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ID != id {
		jsonError(w, http.StatusBadRequest, "item id mismatch")
		return
	}
	if item.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	tx, err := h.DB.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("beginning transaction", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer tx.Rollback()

	if err := store.ReplaceItem(r.Context(), tx, &item); err != nil {
		storeError(w, err, "updating item")
		return
	}
	stored, err := store.GetItem(r.Context(), tx, id)
	if err != nil {
		storeError(w, err, "updating item")
		return
	}
	if err := tx.Commit(); err != nil {
		slog.Error("committing item update", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusOK, stored)
}

// Delete handles DELETE /v1/item/{id}. The deletion lands in the ledger so
// offline clients drop the item on their next sync.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id, time.Now().Unix()); err != nil {
		storeError(w, err, "deleting item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /v1/item/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		storeError(w, err, "saving item image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /v1/item/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "getting item image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
