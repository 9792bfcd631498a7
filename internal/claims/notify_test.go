package claims

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

func TestNotifyOwnerCreatesFoundItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	finder := f.user(t, "finder")
	lost := f.lostItem(t, owner.ID)

	out, err := f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID, LostItemID: lost.ID})
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusApproved, out.Claim.Status)
	assert.Equal(t, owner.ID, out.Claim.ClaimerID, "the owner is the claimer")
	require.NotNil(t, out.Claim.LostItemID)
	assert.Equal(t, lost.ID, *out.Claim.LostItemID)

	found, err := store.GetFoundItem(ctx, f.db, out.Claim.FoundItemID)
	require.NoError(t, err)
	assert.Equal(t, finder.ID, found.FinderID)
	assert.Equal(t, lost.Name, found.Name)
	assert.Equal(t, lost.Location, found.Location)
	assert.Equal(t, "2026-10-19", found.DateFound)
	assert.Equal(t, model.ItemStatusActive, found.Status)

	lostLocked, err := f.svc.LockedLostItemIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{lost.ID}, lostLocked)

	// Notified items are hidden from the public found list.
	public, err := store.ListFoundItems(ctx, f.db, 0)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestNotifyOwnerTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	first := f.user(t, "first")
	second := f.user(t, "second")
	lost := f.lostItem(t, owner.ID)

	_, err := f.svc.NotifyOwner(ctx, NotifyInput{FinderID: first.ID, LostItemID: lost.ID})
	require.NoError(t, err)

	_, err = f.svc.NotifyOwner(ctx, NotifyInput{FinderID: second.ID, LostItemID: lost.ID})
	require.ErrorIs(t, err, apperr.ErrConflict)
	e, _ := apperr.As(err)
	assert.Equal(t, "this lost item has already been notified by another user", e.Message)

	assert.Equal(t, 1, f.countClaims(t, "lost_item_id = ?", lost.ID))

	items, err := store.ListFoundItems(ctx, f.db, second.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "a refused notification must not create a found item")
}

func TestNotifyOwnerLinksExistingFoundItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	finder := f.user(t, "finder")
	stranger := f.user(t, "stranger")
	lost := f.lostItem(t, owner.ID)
	found := f.foundItem(t, finder.ID, "Cafeteria")

	_, err := f.svc.NotifyOwner(ctx, NotifyInput{FinderID: stranger.ID, LostItemID: lost.ID, FoundItemID: found.ID})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID, LostItemID: lost.ID, FoundItemID: 9999})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	out, err := f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID, LostItemID: lost.ID, FoundItemID: found.ID})
	require.NoError(t, err)
	assert.Equal(t, found.ID, out.Claim.FoundItemID)
}

func TestNotifyOwnerPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	finder := f.user(t, "finder")
	claimer := f.user(t, "claimer")
	lost := f.lostItem(t, owner.ID)

	_, err := f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID, LostItemID: 9999})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.NotifyOwner(ctx, NotifyInput{FinderID: owner.ID, LostItemID: lost.ID})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	closed := f.foundItem(t, finder.ID, "Cafeteria")
	require.NoError(t, store.SetFoundItemStatus(ctx, f.db, closed.ID, model.ItemStatusClosed))
	_, err = f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID, LostItemID: lost.ID, FoundItemID: closed.ID})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// The found item is already reserved by someone who verified it.
	reserved := f.foundItem(t, finder.ID, "Cafeteria")
	_, err = f.svc.VerifyRequest(ctx, VerifyInput{ClaimerID: claimer.ID, FoundItemID: reserved.ID, Location: "cafeteria"})
	require.NoError(t, err)
	_, err = f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID, LostItemID: lost.ID, FoundItemID: reserved.ID})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	assert.Equal(t, 0, f.countClaims(t, "lost_item_id = ?", lost.ID))
}

func TestNotifyOwnerPairAlreadyRequested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	finder := f.user(t, "finder")
	lost := f.lostItem(t, owner.ID)
	found := f.foundItem(t, finder.ID, "Cafeteria")

	_, err := f.svc.RequestClaim(ctx, RequestInput{ClaimerID: owner.ID, FoundItemID: found.ID, LostItemID: lost.ID})
	require.NoError(t, err)

	_, err = f.svc.NotifyOwner(ctx, NotifyInput{FinderID: finder.ID, LostItemID: lost.ID, FoundItemID: found.ID})
	require.ErrorIs(t, err, apperr.ErrConflict)
	e, _ := apperr.As(err)
	assert.Equal(t, "a notification already exists for this lost item", e.Message)
}

func TestNotifyOwnerConcurrentFinders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	lost := f.lostItem(t, owner.ID)

	const finders = 8
	ids := make([]int64, finders)
	for i := range ids {
		ids[i] = f.user(t, "finder"+string(rune('a'+i))).ID
	}

	var approved, conflicts atomic.Int32
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			out, err := f.svc.NotifyOwner(ctx, NotifyInput{FinderID: id, LostItemID: lost.ID})
			switch {
			case err == nil && out.Claim.Status == model.ClaimStatusApproved:
				approved.Add(1)
			case errors.Is(err, apperr.ErrConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), approved.Load())
	assert.Equal(t, int32(finders-1), conflicts.Load())
	assert.Equal(t, 1, f.countClaims(t,
		"lost_item_id = ? AND status IN ('approved', 'claimer_marked', 'finder_marked', 'pending', 'completed')", lost.ID))

	var foundItems int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM found_items`).Scan(&foundItems))
	assert.Equal(t, 1, foundItems, "only the winning finder's found item is created")
}
