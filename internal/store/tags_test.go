package store

import (
	"context"
	"errors"
	"testing"

	"github.com/store-re/server/internal/db"
	"github.com/store-re/server/internal/model"
)

func TestTagCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	icon := int64(12)
	id, err := CreateTag(ctx, database, &model.Tag{Name: "fragile", Color: 0xff0000, Icon: &icon})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := GetTag(ctx, database, id)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got == nil || got.Name != "fragile" || got.Icon == nil || *got.Icon != 12 {
		t.Errorf("tag fields wrong: %+v", got)
	}

	got.Color = 0x0000ff
	got.Icon = nil
	if err := UpdateTag(ctx, database, got); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	updated, _ := GetTag(ctx, database, id)
	if updated.Color != 0x0000ff || updated.Icon != nil {
		t.Errorf("update not applied: %+v", updated)
	}

	tags, _ := ListTags(ctx, database)
	if len(tags) != 1 {
		t.Errorf("expected 1 tag, got %d", len(tags))
	}

	if err := DeleteTag(ctx, database, id); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	gone, _ := GetTag(ctx, database, id)
	if gone != nil {
		t.Error("expected tag gone after delete")
	}
}

func TestCreateTagDuplicateName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateTag(ctx, database, &model.Tag{Name: "fragile"}); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	_, err := CreateTag(ctx, database, &model.Tag{Name: "fragile"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestDeleteTagInUse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	locID := seedLocation(t, database)

	tagID, _ := CreateTag(ctx, database, &model.Tag{Name: "fragile"})
	item := &model.Item{
		Name: "Vase", Location: locID, Tags: []int64{tagID},
		Amount: 1, Created: 10, LastEdited: 10,
	}
	itemID, err := InsertItem(ctx, database, item)
	if err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	err = DeleteTag(ctx, database, tagID)
	if !errors.Is(err, ErrInUse) {
		t.Errorf("expected ErrInUse, got %v", err)
	}

	// Once the item is gone the tag can be removed.
	if err := DeleteItem(ctx, database, itemID, 20); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := DeleteTag(ctx, database, tagID); err != nil {
		t.Errorf("DeleteTag after item removed: %v", err)
	}
}

func TestDeleteTagNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	err := DeleteTag(context.Background(), database, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
