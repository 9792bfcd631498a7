package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/izgubljeno/internal/db"
	"github.com/erazemk/izgubljeno/internal/model"
)

var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func TestInsertAndGetClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	claimer := seedUser(t, database, "claimer")
	found := seedFoundItem(t, database, finder.ID)

	claim, err := InsertClaim(ctx, database, &model.Claim{
		FoundItemID:      found.ID,
		ClaimerID:        claimer.ID,
		Status:           model.ClaimStatusApproved,
		ContactDate:      "2026-10-19",
		AssertedLocation: "library 2nd floor",
	}, testNow)
	if err != nil {
		t.Fatalf("InsertClaim: %v", err)
	}
	if claim.LostItemID != nil {
		t.Errorf("expected nil lost item, got %d", *claim.LostItemID)
	}
	if claim.FinderID != finder.ID {
		t.Errorf("expected finder %d, got %d", finder.ID, claim.FinderID)
	}
	if claim.FoundItemName != "Wallet" {
		t.Errorf("expected found item name 'Wallet', got %q", claim.FoundItemName)
	}
	if !claim.CreatedAt.Equal(testNow) {
		t.Errorf("expected created_at %v, got %v", testNow, claim.CreatedAt)
	}
	if claim.AssertedLocation != "library 2nd floor" {
		t.Errorf("expected asserted location to be stored, got %q", claim.AssertedLocation)
	}
}

func TestInsertClaimSecondOpenLockRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	a := seedUser(t, database, "a")
	b := seedUser(t, database, "b")
	found := seedFoundItem(t, database, finder.ID)

	seedClaim(t, database, &model.Claim{FoundItemID: found.ID, ClaimerID: a.ID, Status: model.ClaimStatusApproved})

	_, err := InsertClaim(ctx, database, &model.Claim{
		FoundItemID: found.ID, ClaimerID: b.ID, Status: model.ClaimStatusApproved,
	}, testNow)
	if !db.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestTransitionClaimRecordsEvent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	claimer := seedUser(t, database, "claimer")
	found := seedFoundItem(t, database, finder.ID)
	claim := seedClaim(t, database, &model.Claim{FoundItemID: found.ID, ClaimerID: claimer.ID, Status: model.ClaimStatusApproved})

	later := testNow.Add(time.Minute)
	err := TransitionClaim(ctx, database, claim.ID, model.ClaimStatusApproved, model.ClaimStatusClaimerMarked, &claimer.ID, later)
	if err != nil {
		t.Fatalf("TransitionClaim: %v", err)
	}

	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimStatusClaimerMarked {
		t.Errorf("expected status 'claimer_marked', got %q", got.Status)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("expected updated_at %v, got %v", later, got.UpdatedAt)
	}

	events, err := ListClaimEvents(ctx, database, claim.ID)
	if err != nil {
		t.Fatalf("ListClaimEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].FromStatus != model.ClaimStatusApproved || events[0].ToStatus != model.ClaimStatusClaimerMarked {
		t.Errorf("unexpected event %+v", events[0])
	}
	if events[0].ActorID == nil || *events[0].ActorID != claimer.ID {
		t.Errorf("expected actor %d, got %v", claimer.ID, events[0].ActorID)
	}

	// A stale from status must not overwrite the claim.
	err = TransitionClaim(ctx, database, claim.ID, model.ClaimStatusApproved, model.ClaimStatusRejected, nil, later)
	if err == nil {
		t.Error("expected error for stale transition")
	}
}

func TestCompleteOtherClaims(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	winner := seedUser(t, database, "winner")
	loser := seedUser(t, database, "loser")
	found := seedFoundItem(t, database, finder.ID)

	keep := seedClaim(t, database, &model.Claim{FoundItemID: found.ID, ClaimerID: winner.ID, Status: model.ClaimStatusCompleted})
	r1 := seedClaim(t, database, &model.Claim{FoundItemID: found.ID, ClaimerID: loser.ID, Status: model.ClaimStatusRejected})
	r2 := seedClaim(t, database, &model.Claim{FoundItemID: found.ID, ClaimerID: loser.ID, Status: model.ClaimStatusRequested})

	changes, err := CompleteOtherClaims(ctx, database, found.ID, keep.ID, &finder.ID, testNow)
	if err != nil {
		t.Fatalf("CompleteOtherClaims: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 claims completed, got %d", len(changes))
	}
	if changes[0].From != model.ClaimStatusRejected || changes[1].From != model.ClaimStatusRequested {
		t.Errorf("unexpected changes %+v", changes)
	}

	for _, id := range []int64{r1.ID, r2.ID} {
		got, _ := GetClaim(ctx, database, id)
		if got.Status != model.ClaimStatusCompleted {
			t.Errorf("claim %d: expected 'completed', got %q", id, got.Status)
		}
		events, _ := ListClaimEvents(ctx, database, id)
		if len(events) != 1 {
			t.Errorf("claim %d: expected 1 event, got %d", id, len(events))
		}
	}
}

func TestFindLockingClaims(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	a := seedUser(t, database, "a")
	b := seedUser(t, database, "b")
	owner := seedUser(t, database, "owner")
	found := seedFoundItem(t, database, finder.ID)
	lost := seedLostItem(t, database, owner.ID)

	seedClaim(t, database, &model.Claim{FoundItemID: found.ID, ClaimerID: b.ID, Status: model.ClaimStatusRejected})
	lock := seedClaim(t, database, &model.Claim{LostItemID: &lost.ID, FoundItemID: found.ID, ClaimerID: a.ID, Status: model.ClaimStatusFinderMarked})

	other, err := FindLockingClaimByOther(ctx, database, found.ID, b.ID)
	if err != nil {
		t.Fatalf("FindLockingClaimByOther: %v", err)
	}
	if other == nil || other.ID != lock.ID {
		t.Fatalf("expected lock %d held by another user, got %v", lock.ID, other)
	}

	own, _ := FindLockingClaimByOther(ctx, database, found.ID, a.ID)
	if own != nil {
		t.Error("expected no locking claim by someone other than the holder")
	}

	open, _ := FindOpenLockingClaim(ctx, database, found.ID)
	if open == nil || open.ID != lock.ID {
		t.Errorf("expected open lock %d, got %v", lock.ID, open)
	}

	lostLock, _ := FindLostItemLock(ctx, database, lost.ID)
	if lostLock == nil || lostLock.ID != lock.ID {
		t.Errorf("expected lost item lock %d, got %v", lock.ID, lostLock)
	}

	pair, _ := FindPairClaim(ctx, database, found.ID, lost.ID)
	if pair == nil {
		t.Error("expected pair claim")
	}
}

func TestCountRejectedClaimsWindow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	claimer := seedUser(t, database, "claimer")
	found := seedFoundItem(t, database, finder.ID)

	yesterday := testNow.Add(-24 * time.Hour)
	for _, at := range []time.Time{yesterday, testNow, testNow.Add(time.Hour)} {
		if _, err := InsertClaim(ctx, database, &model.Claim{
			FoundItemID: found.ID, ClaimerID: claimer.ID, Status: model.ClaimStatusRejected,
		}, at); err != nil {
			t.Fatalf("InsertClaim: %v", err)
		}
	}

	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	n, err := CountRejectedClaims(ctx, database, found.ID, claimer.ID, start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("CountRejectedClaims: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rejected claims today, got %d", n)
	}
}

func TestListClaimsWithContacts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	claimer := seedUser(t, database, "claimer")
	found := seedFoundItem(t, database, finder.ID)

	seedClaim(t, database, &model.Claim{FoundItemID: found.ID, ClaimerID: claimer.ID, Status: model.ClaimStatusApproved})

	mine, err := ListClaimsByClaimer(ctx, database, claimer.ID)
	if err != nil {
		t.Fatalf("ListClaimsByClaimer: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(mine))
	}
	if mine[0].FinderEmail != "finder@example.com" {
		t.Errorf("expected finder email, got %q", mine[0].FinderEmail)
	}

	pending, err := ListPendingClaimsForFinder(ctx, database, finder.ID)
	if err != nil {
		t.Fatalf("ListPendingClaimsForFinder: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending claim, got %d", len(pending))
	}
	if pending[0].ClaimerName != "claimer" {
		t.Errorf("expected claimer name, got %q", pending[0].ClaimerName)
	}
}

func TestLockedItemIDs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := seedUser(t, database, "finder")
	claimer := seedUser(t, database, "claimer")
	owner := seedUser(t, database, "owner")

	locked := seedFoundItem(t, database, finder.ID)
	closed := seedFoundItem(t, database, finder.ID)
	free := seedFoundItem(t, database, finder.ID)
	lost := seedLostItem(t, database, owner.ID)

	seedClaim(t, database, &model.Claim{LostItemID: &lost.ID, FoundItemID: locked.ID, ClaimerID: claimer.ID, Status: model.ClaimStatusPending})
	seedClaim(t, database, &model.Claim{FoundItemID: free.ID, ClaimerID: claimer.ID, Status: model.ClaimStatusRejected})
	SetFoundItemStatus(ctx, database, closed.ID, model.ItemStatusClosed)

	ids, err := LockedFoundItemIDs(ctx, database)
	if err != nil {
		t.Fatalf("LockedFoundItemIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != locked.ID || ids[1] != closed.ID {
		t.Errorf("expected [%d %d], got %v", locked.ID, closed.ID, ids)
	}

	lostIDs, _ := LockedLostItemIDs(ctx, database)
	if len(lostIDs) != 1 || lostIDs[0] != lost.ID {
		t.Errorf("expected [%d], got %v", lost.ID, lostIDs)
	}
}
