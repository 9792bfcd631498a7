package claims

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// RequestInput asks the finder to review a claim instead of verifying it
// by location.
type RequestInput struct {
	ClaimerID   int64
	FoundItemID int64
	LostItemID  int64  // optional
	ContactDate string // optional, YYYY-MM-DD
}

// RequestClaim creates a requested claim that the finder approves or
// rejects by hand.
func (s *Service) RequestClaim(ctx context.Context, in RequestInput) (out *Outcome, err error) {
	ctx, span := s.start(ctx, "request_claim",
		attribute.Int64("found_item_id", in.FoundItemID),
		attribute.Int64("claimer_id", in.ClaimerID),
	)
	defer func() { finish(span, err) }()

	if in.FoundItemID <= 0 {
		return nil, apperr.Validation("found_item_id is required")
	}
	if in.LostItemID < 0 {
		return nil, apperr.Validation("lost_item_id must be a positive integer")
	}
	contact := strings.TrimSpace(in.ContactDate)
	if contact != "" {
		if _, err := time.Parse(model.DateLayout, contact); err != nil {
			return nil, apperr.Validation("contact_date must be a valid date")
		}
	}

	now := s.clock.Now()
	var changes []store.StatusChange

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		found, err := store.GetFoundItem(ctx, tx, in.FoundItemID)
		if err != nil {
			return err
		}
		if found == nil {
			return apperr.NotFound("found item not found")
		}
		if found.Status != model.ItemStatusActive {
			return apperr.InvalidState("item is not available for claims")
		}
		if found.FinderID == in.ClaimerID {
			return apperr.InvalidState("you cannot claim your own found item")
		}

		var lostID *int64
		if in.LostItemID != 0 {
			lost, err := store.GetLostItem(ctx, tx, in.LostItemID)
			if err != nil {
				return err
			}
			if lost == nil {
				return apperr.NotFound("lost item not found")
			}
			// Completing the claim completes the lost item, so only its
			// owner may link it.
			if lost.OwnerID != in.ClaimerID {
				return apperr.Forbidden("you can only link your own lost item")
			}
			if lost.Status != model.ItemStatusActive {
				return apperr.InvalidState("lost item is no longer active")
			}
			lostID = &lost.ID
		}

		existing, err := store.FindActiveRequest(ctx, tx, found.ID, in.ClaimerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("you already have an active claim for this item")
		}

		claim, err := store.InsertClaim(ctx, tx, &model.Claim{
			LostItemID:  lostID,
			FoundItemID: found.ID,
			ClaimerID:   in.ClaimerID,
			Status:      model.ClaimStatusRequested,
			ContactDate: contact,
		}, now)
		if err != nil {
			return err
		}
		if err := store.InsertClaimEvent(ctx, tx, claim.ID, "", model.ClaimStatusRequested, &in.ClaimerID, now); err != nil {
			return err
		}

		changes = append(changes, store.StatusChange{ClaimID: claim.ID, To: model.ClaimStatusRequested})
		out = &Outcome{Claim: claim}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, "request_claim", changes)
	return out, nil
}

// ApproveClaim lets the finder accept a requested claim, reserving the
// found item for its claimer.
func (s *Service) ApproveClaim(ctx context.Context, finderID, claimID int64) (*Outcome, error) {
	return s.review(ctx, "approve_claim", model.ClaimStatusApproved, finderID, claimID)
}

// RejectClaim lets the finder turn down a requested claim.
func (s *Service) RejectClaim(ctx context.Context, finderID, claimID int64) (*Outcome, error) {
	return s.review(ctx, "reject_claim", model.ClaimStatusRejected, finderID, claimID)
}

func (s *Service) review(ctx context.Context, op, to string, finderID, claimID int64) (out *Outcome, err error) {
	ctx, span := s.start(ctx, op,
		attribute.Int64("claim_id", claimID),
		attribute.Int64("user_id", finderID),
	)
	defer func() { finish(span, err) }()

	verb, done := "approve", "approved"
	if to == model.ClaimStatusRejected {
		verb, done = "reject", "rejected"
	}

	now := s.clock.Now()
	var changes []store.StatusChange

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		claim, err := store.GetClaim(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return apperr.NotFound("claim not found")
		}
		if claim.FinderID != finderID {
			return apperr.Forbidden("not authorized to " + verb + " this claim")
		}
		if claim.Status != model.ClaimStatusRequested {
			return apperr.InvalidState("only requested claims can be " + done)
		}

		if to == model.ClaimStatusApproved {
			if claim.FoundStatus != model.ItemStatusActive {
				return apperr.InvalidState("item is not available for claims")
			}
			open, err := store.FindOpenLockingClaim(ctx, tx, claim.FoundItemID)
			if err != nil {
				return err
			}
			if open != nil {
				return apperr.Conflict("this item is already requested by another user")
			}
		}

		if err := store.TransitionClaim(ctx, tx, claim.ID, claim.Status, to, &finderID, now); err != nil {
			return err
		}
		changes = append(changes, store.StatusChange{ClaimID: claim.ID, From: claim.Status, To: to})

		updated, err := store.GetClaim(ctx, tx, claim.ID)
		if err != nil {
			return err
		}
		out = &Outcome{Claim: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, op, changes)
	return out, nil
}
