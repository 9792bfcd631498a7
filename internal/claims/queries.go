package claims

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// LockedFoundItemIDs returns the found items no one else can claim: those
// reserved by a locking claim and those already closed. IDs are ascending.
func (s *Service) LockedFoundItemIDs(ctx context.Context) (ids []int64, err error) {
	ctx, span := s.start(ctx, "locked_found_items")
	defer func() { finish(span, err) }()

	return store.LockedFoundItemIDs(ctx, s.db)
}

// LockedLostItemIDs returns the lost items referenced by a locking claim.
func (s *Service) LockedLostItemIDs(ctx context.Context) (ids []int64, err error) {
	ctx, span := s.start(ctx, "locked_lost_items")
	defer func() { finish(span, err) }()

	return store.LockedLostItemIDs(ctx, s.db)
}

// MyClaims returns the claims a user made, newest first.
func (s *Service) MyClaims(ctx context.Context, userID int64) (claims []model.Claim, err error) {
	ctx, span := s.start(ctx, "my_claims", attribute.Int64("user_id", userID))
	defer func() { finish(span, err) }()

	claims, err = store.ListClaimsByClaimer(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	return claims, nil
}

// PendingClaimsForFinder returns unresolved claims on the finder's open
// found items, newest first.
func (s *Service) PendingClaimsForFinder(ctx context.Context, finderID int64) (claims []model.Claim, err error) {
	ctx, span := s.start(ctx, "pending_claims_for_finder", attribute.Int64("user_id", finderID))
	defer func() { finish(span, err) }()

	claims, err = store.ListPendingClaimsForFinder(ctx, s.db, finderID)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	return claims, nil
}

// ClaimHistory returns a claim's status writes, oldest first. Only the
// claimer and the found item's finder may see it.
func (s *Service) ClaimHistory(ctx context.Context, userID, claimID int64) (events []model.ClaimEvent, err error) {
	ctx, span := s.start(ctx, "claim_history", attribute.Int64("claim_id", claimID))
	defer func() { finish(span, err) }()

	claim, err := store.GetClaim(ctx, s.db, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, apperr.NotFound("claim not found")
	}
	if claim.ClaimerID != userID && claim.FinderID != userID {
		return nil, apperr.Forbidden("not authorized to view this claim")
	}

	events, err = store.ListClaimEvents(ctx, s.db, claimID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.ClaimEvent{}
	}
	return events, nil
}
