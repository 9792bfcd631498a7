package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/erazemk/izgubljeno/internal/model"
)

func seedUser(t *testing.T, database *sql.DB, username string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, username, username, fmt.Sprintf("%s@example.com", username), "", "hash")
	if err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return u
}

func seedFoundItem(t *testing.T, database *sql.DB, finderID int64) *model.FoundItem {
	t.Helper()
	item, err := CreateFoundItem(context.Background(), database, &model.FoundItem{
		FinderID:    finderID,
		Name:        "Wallet",
		Description: "Brown leather wallet",
		Location:    "Library 2nd Floor",
		DateFound:   "2026-10-18",
		TimeFound:   "14:30",
	})
	if err != nil {
		t.Fatalf("seeding found item: %v", err)
	}
	return item
}

func seedLostItem(t *testing.T, database *sql.DB, ownerID int64) *model.LostItem {
	t.Helper()
	item, err := CreateLostItem(context.Background(), database, &model.LostItem{
		OwnerID:     ownerID,
		Name:        "Wallet",
		Description: "Brown leather wallet",
		Location:    "Library",
		DateLost:    "2026-10-18",
	})
	if err != nil {
		t.Fatalf("seeding lost item: %v", err)
	}
	return item
}

func seedClaim(t *testing.T, database *sql.DB, c *model.Claim) *model.Claim {
	t.Helper()
	got, err := InsertClaim(context.Background(), database, c, testNow)
	if err != nil {
		t.Fatalf("seeding claim: %v", err)
	}
	return got
}
