package claims

import (
	"context"
	"database/sql"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/matching"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// VerifyInput is a claimer's assertion of where (and when) they lost a
// found item. Only the location takes part in matching; date and time are
// stored with the claim.
type VerifyInput struct {
	ClaimerID   int64
	FoundItemID int64
	Location    string
	Date        string
	Time        string
}

// VerifyRequest creates an approved claim when the asserted location matches
// the found item's location and a rejected claim otherwise. After
// matching.MaxRejectionsPerDay rejections of the same claimer on the same
// item within the current local day, further mismatches fail with
// RATE_LIMITED and store nothing. A claimer who already holds the item's
// open reservation and matches again gets that claim back unchanged.
func (s *Service) VerifyRequest(ctx context.Context, in VerifyInput) (out *Outcome, err error) {
	ctx, span := s.start(ctx, "verify_request",
		attribute.Int64("found_item_id", in.FoundItemID),
		attribute.Int64("claimer_id", in.ClaimerID),
	)
	defer func() { finish(span, err) }()

	if in.FoundItemID <= 0 {
		return nil, apperr.Validation("found_item_id is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, apperr.Validation("location is required")
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

		other, err := store.FindLockingClaimByOther(ctx, tx, found.ID, in.ClaimerID)
		if err != nil {
			return err
		}
		if other != nil {
			return apperr.Conflict("this item is already requested by another user")
		}

		status := model.ClaimStatusApproved
		if matching.Matches(in.Location, found.Location) {
			own, err := store.FindOpenLockingClaim(ctx, tx, found.ID)
			if err != nil {
				return err
			}
			if own != nil {
				out = &Outcome{Claim: own}
				return nil
			}
		} else {
			start, end := matching.DayBounds(now)
			rejected, err := store.CountRejectedClaims(ctx, tx, found.ID, in.ClaimerID, start, end)
			if err != nil {
				return err
			}
			if matching.QuotaExceeded(rejected) {
				return apperr.RateLimited("maximum daily claim attempts (3) reached for this item")
			}
			status = model.ClaimStatusRejected
		}

		claim, err := store.InsertClaim(ctx, tx, &model.Claim{
			FoundItemID:      found.ID,
			ClaimerID:        in.ClaimerID,
			Status:           status,
			AssertedLocation: strings.TrimSpace(in.Location),
			AssertedDate:     strings.TrimSpace(in.Date),
			AssertedTime:     strings.TrimSpace(in.Time),
		}, now)
		if err != nil {
			return err
		}
		if err := store.InsertClaimEvent(ctx, tx, claim.ID, "", status, &in.ClaimerID, now); err != nil {
			return err
		}

		changes = append(changes, store.StatusChange{ClaimID: claim.ID, To: status})
		out = &Outcome{Claim: claim}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, "verify_request", changes)
	return out, nil
}
