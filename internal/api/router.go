package api

import (
	"database/sql"
	"net/http"

	"github.com/store-re/server/internal/sync"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	tagsHandler := &TagsHandler{DB: db}
	locationsHandler := &LocationsHandler{DB: db}
	databasesHandler := &DatabasesHandler{DB: db}
	syncHandler := &SyncHandler{Engine: sync.New(db)}

	authMW := SessionAuth(jwtSecret, db)

	// Public: compatibility check and login.
	mux.HandleFunc("GET /info", Info)
	mux.HandleFunc("POST /v1/auth", authHandler.Login)

	// Session teardown.
	mux.Handle("DELETE /v1/auth", authMW(http.HandlerFunc(authHandler.Logout)))

	// Synchronization.
	mux.Handle("POST /v1/sync", authMW(http.HandlerFunc(syncHandler.Sync)))

	// Items.
	mux.Handle("GET /v1/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("PUT /v1/item", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /v1/item/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("POST /v1/item/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /v1/item/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /v1/item/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /v1/item/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Tags.
	mux.Handle("GET /v1/tags", authMW(http.HandlerFunc(tagsHandler.List)))
	mux.Handle("PUT /v1/tag", authMW(http.HandlerFunc(tagsHandler.Create)))
	mux.Handle("GET /v1/tag/{id}", authMW(http.HandlerFunc(tagsHandler.Get)))
	mux.Handle("POST /v1/tag/{id}", authMW(http.HandlerFunc(tagsHandler.Update)))
	mux.Handle("DELETE /v1/tag/{id}", authMW(http.HandlerFunc(tagsHandler.Delete)))

	// Locations.
	mux.Handle("GET /v1/locations", authMW(http.HandlerFunc(locationsHandler.List)))
	mux.Handle("PUT /v1/location", authMW(http.HandlerFunc(locationsHandler.Create)))
	mux.Handle("GET /v1/location/{id}", authMW(http.HandlerFunc(locationsHandler.Get)))
	mux.Handle("POST /v1/location/{id}", authMW(http.HandlerFunc(locationsHandler.Update)))
	mux.Handle("DELETE /v1/location/{id}", authMW(http.HandlerFunc(locationsHandler.Delete)))

	// Databases.
	mux.Handle("GET /v1/databases", authMW(http.HandlerFunc(databasesHandler.List)))
	mux.Handle("PUT /v1/database", authMW(http.HandlerFunc(databasesHandler.Create)))
	mux.Handle("GET /v1/database/{id}", authMW(http.HandlerFunc(databasesHandler.Get)))
	mux.Handle("POST /v1/database/{id}", authMW(http.HandlerFunc(databasesHandler.Update)))
	mux.Handle("DELETE /v1/database/{id}", authMW(http.HandlerFunc(databasesHandler.Delete)))

	return mux
}
