package store

import (
	"context"
	"errors"
	"testing"

	"github.com/store-re/server/internal/db"
	"github.com/store-re/server/internal/model"
)

func TestLocationCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	dbID, err := CreateDatabase(ctx, database, &model.Database{Name: "main"})
	if err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}

	id, err := CreateLocation(ctx, database, &model.Location{Name: "shelf", Database: dbID})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}

	got, err := GetLocation(ctx, database, id)
	if err != nil {
		t.Fatalf("GetLocation: %v", err)
	}
	if got == nil || got.Name != "shelf" || got.Database != dbID {
		t.Errorf("location fields wrong: %+v", got)
	}

	got.Name = "drawer"
	if err := UpdateLocation(ctx, database, got); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	updated, _ := GetLocation(ctx, database, id)
	if updated.Name != "drawer" {
		t.Errorf("update not applied: %+v", updated)
	}

	locs, _ := ListLocations(ctx, database)
	if len(locs) != 1 {
		t.Errorf("expected 1 location, got %d", len(locs))
	}

	if err := DeleteLocation(ctx, database, id); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
}

func TestCreateLocationUnknownDatabase(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateLocation(context.Background(), database, &model.Location{Name: "shelf", Database: 999})
	if !errors.Is(err, ErrForeignKey) {
		t.Errorf("expected ErrForeignKey, got %v", err)
	}
}

func TestDeleteLocationInUse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	locID := seedLocation(t, database)

	item := &model.Item{Name: "Box", Location: locID, Amount: 1, Created: 10, LastEdited: 10}
	if _, err := InsertItem(ctx, database, item); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	err := DeleteLocation(ctx, database, locID)
	if !errors.Is(err, ErrInUse) {
		t.Errorf("expected ErrInUse, got %v", err)
	}
}

func TestDeleteDatabaseInUse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	dbID, _ := CreateDatabase(ctx, database, &model.Database{Name: "main"})
	if _, err := CreateLocation(ctx, database, &model.Location{Name: "shelf", Database: dbID}); err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}

	err := DeleteDatabase(ctx, database, dbID)
	if !errors.Is(err, ErrInUse) {
		t.Errorf("expected ErrInUse, got %v", err)
	}
}

func TestCreateDatabaseDuplicateName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateDatabase(ctx, database, &model.Database{Name: "main"}); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	_, err := CreateDatabase(ctx, database, &model.Database{Name: "main"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}
