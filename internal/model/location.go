package model

// Location is a physical place items are stored at. Every location belongs
// to exactly one database.
type Location struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Database int64  `json:"database"`
}

// Database is a logical namespace grouping locations.
type Database struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
