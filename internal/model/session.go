package model

// Session is a server-side login session. LastSyncAt is the session's sync
// checkpoint; only the sync engine advances it, and only on a successful
// sync.
type Session struct {
	SessionID  string `json:"session_id"`
	UserID     int64  `json:"user_id"`
	CreatedAt  int64  `json:"created_at"`
	LastSyncAt int64  `json:"last_sync_at"`
}

// Principal is the authenticated caller resolved from a session token.
// Handlers receive it explicitly through the request context.
type Principal struct {
	SessionID  string
	UserID     int64
	LastSyncAt int64
}
