package claims

import (
	"context"
	"database/sql"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// defaultFoundItemName names a found item created for a lost item that has
// no name of its own.
const defaultFoundItemName = "Found item"

// NotifyInput is a finder's report that they hold someone's lost item.
type NotifyInput struct {
	FinderID   int64
	LostItemID int64
	// FoundItemID links an existing found item of the finder. When zero a
	// found item is created from the lost item's details.
	FoundItemID int64
}

// NotifyOwner creates an approved claim on behalf of a lost item's owner,
// linking the lost item to one of the caller's found items. The lost item
// lock is checked before any found item is created, so a refused
// notification leaves nothing behind.
func (s *Service) NotifyOwner(ctx context.Context, in NotifyInput) (out *Outcome, err error) {
	ctx, span := s.start(ctx, "notify_owner",
		attribute.Int64("lost_item_id", in.LostItemID),
		attribute.Int64("finder_id", in.FinderID),
	)
	defer func() { finish(span, err) }()

	if in.LostItemID <= 0 {
		return nil, apperr.Validation("lost_item_id is required")
	}
	if in.FoundItemID < 0 {
		return nil, apperr.Validation("found_item_id must be a positive integer")
	}

	now := s.clock.Now()
	var changes []store.StatusChange
	var createdFound *model.FoundItem

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		lost, err := store.GetLostItem(ctx, tx, in.LostItemID)
		if err != nil {
			return err
		}
		if lost == nil {
			return apperr.NotFound("lost item not found")
		}

		lock, err := store.FindLostItemLock(ctx, tx, lost.ID)
		if err != nil {
			return err
		}
		if lock != nil {
			return apperr.Conflict("this lost item has already been notified by another user")
		}
		if lost.Status != model.ItemStatusActive {
			return apperr.InvalidState("lost item is no longer active")
		}
		if lost.OwnerID == in.FinderID {
			return apperr.InvalidState("you cannot notify yourself about your own lost item")
		}

		var found *model.FoundItem
		if in.FoundItemID != 0 {
			found, err = store.GetFoundItem(ctx, tx, in.FoundItemID)
			if err != nil {
				return err
			}
			if found == nil {
				return apperr.NotFound("found item not found")
			}
			if found.FinderID != in.FinderID {
				return apperr.Forbidden("you can only link your own found item")
			}
			if found.Status != model.ItemStatusActive {
				return apperr.InvalidState("item is not available for claims")
			}
		} else {
			name := strings.TrimSpace(lost.Name)
			if name == "" {
				name = defaultFoundItemName
			}
			found, err = store.CreateFoundItem(ctx, tx, &model.FoundItem{
				FinderID:    in.FinderID,
				Name:        name,
				Description: lost.Description,
				Location:    lost.Location,
				DateFound:   now.Local().Format(model.DateLayout),
				Category:    lost.Category,
			})
			if err != nil {
				return err
			}
			createdFound = found
		}

		pair, err := store.FindPairClaim(ctx, tx, found.ID, lost.ID)
		if err != nil {
			return err
		}
		if pair != nil {
			return apperr.Conflict("a notification already exists for this lost item")
		}

		open, err := store.FindOpenLockingClaim(ctx, tx, found.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperr.Conflict("this item is already requested by another user")
		}

		claim, err := store.InsertClaim(ctx, tx, &model.Claim{
			LostItemID:  &lost.ID,
			FoundItemID: found.ID,
			ClaimerID:   lost.OwnerID,
			Status:      model.ClaimStatusApproved,
		}, now)
		if err != nil {
			return err
		}
		if err := store.InsertClaimEvent(ctx, tx, claim.ID, "", model.ClaimStatusApproved, &in.FinderID, now); err != nil {
			return err
		}

		changes = append(changes, store.StatusChange{ClaimID: claim.ID, To: model.ClaimStatusApproved})
		out = &Outcome{Claim: claim}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if createdFound != nil {
		s.logger.Info("found item created for notification",
			"found_item_id", createdFound.ID,
			"lost_item_id", in.LostItemID,
		)
	}
	s.emit(ctx, "notify_owner", changes)
	return out, nil
}
