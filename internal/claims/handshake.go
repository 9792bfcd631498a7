package claims

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// party is one side of the return handshake.
type party struct {
	op       string
	marked   string // written when this side confirms first
	awaiting string // the other side has already confirmed
	isParty  func(c *model.Claim, userID int64) bool

	msgForbidden string
	msgState     string
}

var (
	claimerParty = party{
		op:           "claimer_confirm",
		marked:       model.ClaimStatusClaimerMarked,
		awaiting:     model.ClaimStatusFinderMarked,
		isParty:      func(c *model.Claim, userID int64) bool { return c.ClaimerID == userID },
		msgForbidden: "not authorized to confirm this claim",
		msgState:     "claim is not in a confirmable state",
	}
	finderParty = party{
		op:           "finder_returned",
		marked:       model.ClaimStatusFinderMarked,
		awaiting:     model.ClaimStatusClaimerMarked,
		isParty:      func(c *model.Claim, userID int64) bool { return c.FinderID == userID },
		msgForbidden: "not authorized to mark return",
		msgState:     "claim is not in a returnable state",
	}
)

// ClaimerConfirm records that the claimer got the item back. If the finder
// already marked the return, the claim completes.
func (s *Service) ClaimerConfirm(ctx context.Context, claimerID, claimID int64) (*Outcome, error) {
	return s.handshake(ctx, claimerParty, claimerID, claimID)
}

// FinderReturned records that the finder handed the item over. If the
// claimer already confirmed, the claim completes.
func (s *Service) FinderReturned(ctx context.Context, finderID, claimID int64) (*Outcome, error) {
	return s.handshake(ctx, finderParty, finderID, claimID)
}

func (s *Service) handshake(ctx context.Context, p party, userID, claimID int64) (out *Outcome, err error) {
	ctx, span := s.start(ctx, p.op,
		attribute.Int64("claim_id", claimID),
		attribute.Int64("user_id", userID),
	)
	defer func() { finish(span, err) }()

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
		if !p.isParty(claim, userID) {
			return apperr.Forbidden(p.msgForbidden)
		}

		completed := false
		switch claim.Status {
		case model.ClaimStatusApproved:
			if err := store.TransitionClaim(ctx, tx, claim.ID, claim.Status, p.marked, &userID, now); err != nil {
				return err
			}
			changes = append(changes, store.StatusChange{ClaimID: claim.ID, From: claim.Status, To: p.marked})
		case p.awaiting:
			done, err := s.complete(ctx, tx, claim, userID, now)
			if err != nil {
				return err
			}
			changes = append(changes, done...)
			completed = true
		default:
			return apperr.InvalidState(p.msgState)
		}

		updated, err := store.GetClaim(ctx, tx, claim.ID)
		if err != nil {
			return err
		}
		out = &Outcome{Claim: updated, Completed: completed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, p.op, changes)
	if out.Completed {
		s.logger.Info("claim completed",
			"claim_id", out.Claim.ID,
			"found_item_id", out.Claim.FoundItemID,
			"closed_claims", len(changes)-2,
		)
	}
	return out, nil
}

// complete finishes the handshake: the claim passes through pending to
// completed, the found item closes, every other claim on it completes, and
// the linked lost item (if any) completes.
func (s *Service) complete(ctx context.Context, tx *sql.Tx, claim *model.Claim, actorID int64, now time.Time) ([]store.StatusChange, error) {
	changes := []store.StatusChange{
		{ClaimID: claim.ID, From: claim.Status, To: model.ClaimStatusPending},
		{ClaimID: claim.ID, From: model.ClaimStatusPending, To: model.ClaimStatusCompleted},
	}
	for _, ch := range changes {
		if err := store.TransitionClaim(ctx, tx, ch.ClaimID, ch.From, ch.To, &actorID, now); err != nil {
			return nil, err
		}
	}

	if err := store.SetFoundItemStatus(ctx, tx, claim.FoundItemID, model.ItemStatusClosed); err != nil {
		return nil, err
	}

	others, err := store.CompleteOtherClaims(ctx, tx, claim.FoundItemID, claim.ID, &actorID, now)
	if err != nil {
		return nil, err
	}
	changes = append(changes, others...)

	if claim.LostItemID != nil {
		if err := store.SetLostItemStatus(ctx, tx, *claim.LostItemID, model.ItemStatusCompleted); err != nil {
			return nil, err
		}
	}

	return changes, nil
}
