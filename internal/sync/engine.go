// Package sync implements the offline synchronization engine.
//
// A sync call reconciles a client's local item snapshot against the server
// state relative to the session's checkpoint (last_sync_at). Everything runs
// inside one transaction: either the whole delta applies and the checkpoint
// advances, or nothing does.
package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/store-re/server/internal/model"
	"github.com/store-re/server/internal/store"
)

// ErrConflict is returned when an item was edited on both sides since the
// checkpoint. Conflicts are never silently resolved: the whole sync call is
// rejected and no state changes.
var ErrConflict = errors.New("item edited on both sides since last sync")

// Delta is what a sync call hands back to the client. ObsoleteIDs are item
// ids the client must discard from its local store; RefreshedItems are the
// authoritative versions it must adopt.
type Delta struct {
	ObsoleteIDs    []int64
	RefreshedItems []model.Item
}

// Engine runs the reconciliation algorithm. It holds no inventory state
// between calls; everything is re-derived from the database per invocation.
type Engine struct {
	db *sql.DB

	// One lock per session id. Two concurrent syncs for the same session
	// would both read the same checkpoint and double-apply the client's new
	// items; the lock serializes them. Different sessions run in parallel.
	// Entries are refcounted and removed once the last holder releases, so
	// the map only holds sessions with a sync in flight.
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a sync engine on top of the given database.
func New(db *sql.DB) *Engine {
	return &Engine{
		db:    db,
		locks: make(map[string]*sessionLock),
	}
}

// Sync reconciles the client's item snapshot against the server.
//
// localItems is the client's full list of items it believes are live,
// including temporary locally-assigned ids for items created offline.
// On success the session's checkpoint is advanced to the time the
// transaction snapshot was taken and the resulting Delta is returned.
// On ErrConflict or any other error the transaction is rolled back and the
// checkpoint stays put.
func (e *Engine) Sync(ctx context.Context, principal *model.Principal, localItems []model.Item) (*Delta, error) {
	lock := e.acquire(principal.SessionID)
	defer e.release(principal.SessionID, lock)

	checkpoint := principal.LastSyncAt

	// The snapshot time is captured before the transaction opens. Writes
	// that commit between this instant and our commit land on the far side
	// of the next checkpoint instead of being skipped.
	snapshot := time.Now().Unix()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sync transaction: %w", err)
	}
	defer tx.Rollback()

	delta := &Delta{
		ObsoleteIDs:    []int64{},
		RefreshedItems: []model.Item{},
	}

	// Step 1: items deleted server-side since the checkpoint are obsolete
	// on the client.
	serverDeleted, err := store.DeletionsAfter(ctx, tx, checkpoint)
	if err != nil {
		return nil, err
	}
	delta.ObsoleteIDs = append(delta.ObsoleteIDs, serverDeleted...)

	// Step 2: items created server-side since the checkpoint are new to the
	// client.
	serverCreated, err := store.ItemsCreatedAfter(ctx, tx, checkpoint)
	if err != nil {
		return nil, err
	}
	delta.RefreshedItems = append(delta.RefreshedItems, serverCreated...)

	// Step 3: split the client's snapshot into items created after the
	// checkpoint (unknown to the server) and items the server knows.
	clientNew, clientKnown := partitionLocal(localItems, checkpoint)

	// Step 4: adopt the client's new items. Their temporary ids become
	// obsolete; the stored versions with canonical ids go back to the
	// client.
	for _, item := range clientNew {
		delta.ObsoleteIDs = append(delta.ObsoleteIDs, item.ID)

		item.ID = 0
		id, err := store.InsertItem(ctx, tx, &item)
		if err != nil {
			return nil, err
		}

		stored, err := store.GetItem(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		delta.RefreshedItems = append(delta.RefreshedItems, *stored)
	}

	// Step 5: items that existed at the checkpoint but changed server-side
	// since.
	serverEdited, err := store.ItemsEditedBetween(ctx, tx, checkpoint, checkpoint)
	if err != nil {
		return nil, err
	}
	serverEditedByID := make(map[int64]model.Item, len(serverEdited))
	for _, item := range serverEdited {
		serverEditedByID[item.ID] = item
	}

	// Step 6: items the client believes it edited since the checkpoint.
	clientEdited := editedSince(clientKnown, checkpoint)

	// Step 7: an item touched by both sides is a conflict, and one conflict
	// rejects the whole call.
	for id := range clientEdited {
		if _, ok := serverEditedByID[id]; ok {
			return nil, fmt.Errorf("item %d: %w", id, ErrConflict)
		}
	}

	// Step 8: no conflicts, so every client edit is mergeable. Full-replace
	// merge: the stored item is swapped for the client's version wholesale.
	for _, item := range clientEdited {
		if err := store.ReplaceItem(ctx, tx, &item); err != nil {
			return nil, err
		}
	}

	// Step 9: the client must adopt the server's version of every item it
	// did not also edit.
	for _, item := range serverEdited {
		delta.ObsoleteIDs = append(delta.ObsoleteIDs, item.ID)
		delta.RefreshedItems = append(delta.RefreshedItems, item)
	}

	// Step 10: advance the checkpoint and commit. The checkpoint moves only
	// on this path; every earlier return leaves it untouched.
	if err := store.AdvanceLastSync(ctx, tx, principal.SessionID, snapshot); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sync: %w", err)
	}

	principal.LastSyncAt = snapshot
	return delta, nil
}

// acquire takes the mutex serializing sync calls for one session, creating
// it on first use.
func (e *Engine) acquire(sessionID string) *sessionLock {
	e.mu.Lock()
	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		e.locks[sessionID] = lock
	}
	lock.refs++
	e.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// release drops the session lock and evicts the registry entry once no sync
// call holds or waits on it.
func (e *Engine) release(sessionID string, lock *sessionLock) {
	lock.mu.Unlock()

	e.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(e.locks, sessionID)
	}
	e.mu.Unlock()
}

// partitionLocal splits the client's items into those created after the
// checkpoint (new to the server) and the rest.
func partitionLocal(localItems []model.Item, checkpoint int64) (clientNew, clientKnown []model.Item) {
	for _, item := range localItems {
		if item.Created > checkpoint {
			clientNew = append(clientNew, item)
		} else {
			clientKnown = append(clientKnown, item)
		}
	}
	return clientNew, clientKnown
}

// editedSince returns the items edited after the checkpoint, keyed by id.
func editedSince(items []model.Item, checkpoint int64) map[int64]model.Item {
	edited := make(map[int64]model.Item)
	for _, item := range items {
		if item.Created <= checkpoint && item.LastEdited > checkpoint {
			edited[item.ID] = item
		}
	}
	return edited
}
