package store

import (
	"context"
	"errors"
	"testing"

	"github.com/store-re/server/internal/db"
)

func TestCreateAndGetSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	session, err := CreateSession(ctx, database, user.ID, 1000)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.SessionID == "" {
		t.Fatal("expected non-empty session id")
	}
	if session.LastSyncAt != 1000 {
		t.Errorf("expected checkpoint 1000, got %d", session.LastSyncAt)
	}

	got, err := GetSession(ctx, database, session.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil || got.UserID != user.ID {
		t.Errorf("session not stored: %+v", got)
	}
}

func TestCreateSessionUnknownUser(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateSession(context.Background(), database, 999, 1000)
	if !errors.Is(err, ErrForeignKey) {
		t.Errorf("expected ErrForeignKey, got %v", err)
	}
}

func TestGetSessionMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetSession(context.Background(), database, "nope")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing session, got %+v", got)
	}
}

func TestDeleteSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alice", "hash")
	session, _ := CreateSession(ctx, database, user.ID, 1000)

	if err := DeleteSession(ctx, database, session.SessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	got, _ := GetSession(ctx, database, session.SessionID)
	if got != nil {
		t.Error("expected session gone after delete")
	}

	err := DeleteSession(ctx, database, session.SessionID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestAdvanceLastSyncMonotonic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alice", "hash")
	session, _ := CreateSession(ctx, database, user.ID, 1000)

	if err := AdvanceLastSync(ctx, database, session.SessionID, 2000); err != nil {
		t.Fatalf("AdvanceLastSync: %v", err)
	}
	got, _ := GetSession(ctx, database, session.SessionID)
	if got.LastSyncAt != 2000 {
		t.Errorf("expected checkpoint 2000, got %d", got.LastSyncAt)
	}

	// Moving backwards is silently ignored.
	if err := AdvanceLastSync(ctx, database, session.SessionID, 1500); err != nil {
		t.Fatalf("AdvanceLastSync backwards: %v", err)
	}
	got, _ = GetSession(ctx, database, session.SessionID)
	if got.LastSyncAt != 2000 {
		t.Errorf("checkpoint moved backwards: %d", got.LastSyncAt)
	}
}

func TestAdvanceLastSyncMissingSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alice", "hash")
	session, _ := CreateSession(ctx, database, user.ID, 1000)
	if err := DeleteSession(ctx, database, session.SessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	err := AdvanceLastSync(ctx, database, session.SessionID, 2000)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted session, got %v", err)
	}
}
