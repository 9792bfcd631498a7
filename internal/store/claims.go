package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/izgubljeno/internal/model"
)

// Status sets used in claim queries. They mirror model.LockingStatuses.
const (
	lockingStatusList     = `('approved', 'claimer_marked', 'finder_marked', 'pending', 'completed')`
	openLockingStatusList = `('approved', 'claimer_marked', 'finder_marked', 'pending')`
	activeStatusList      = `('requested', 'approved', 'claimer_marked', 'finder_marked', 'pending')`
	pairStatusList        = `('requested', 'approved', 'claimer_marked', 'finder_marked', 'pending', 'completed')`
)

const claimColumns = `c.id, c.lost_item_id, c.found_item_id, c.claimer_id, c.status, c.contact_date,
	c.asserted_location, c.asserted_date, c.asserted_time, c.created_at, c.updated_at`

// InsertClaim stores a new claim created at now. A violation of the
// one-open-reservation indexes is returned wrapped; callers check it with
// db.IsUniqueViolation.
func InsertClaim(ctx context.Context, q Querier, c *model.Claim, now time.Time) (*model.Claim, error) {
	now = now.UTC()
	result, err := q.ExecContext(ctx,
		`INSERT INTO claims (lost_item_id, found_item_id, claimer_id, status, contact_date,
		                     asserted_location, asserted_date, asserted_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.LostItemID, c.FoundItemID, c.ClaimerID, c.Status, nullString(c.ContactDate),
		nullString(c.AssertedLocation), nullString(c.AssertedDate), nullString(c.AssertedTime),
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	return GetClaim(ctx, q, id)
}

// GetClaim returns a claim by ID together with its found item's finder,
// name, location and status.
func GetClaim(ctx context.Context, q Querier, id int64) (*model.Claim, error) {
	c := &model.Claim{}
	err := scanClaim(q.QueryRowContext(ctx,
		`SELECT `+claimColumns+`, fi.finder_id, fi.name, fi.location, fi.status
		 FROM claims c JOIN found_items fi ON fi.id = c.found_item_id
		 WHERE c.id = ?`, id,
	), c, &c.FinderID, &c.FoundItemName, &c.FoundLocation, &c.FoundStatus)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return c, nil
}

// TransitionClaim moves a claim from one status to another and records the
// change in the claim's history. It fails if the claim is no longer in the
// from status.
func TransitionClaim(ctx context.Context, q Querier, id int64, from, to string, actorID *int64, now time.Time) error {
	result, err := q.ExecContext(ctx,
		`UPDATE claims SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, now.UTC(), id, from,
	)
	if err != nil {
		return fmt.Errorf("updating claim status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking claim update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("claim %d is no longer %s", id, from)
	}

	return InsertClaimEvent(ctx, q, id, from, to, actorID, now)
}

// StatusChange describes one status write of a claim.
type StatusChange struct {
	ClaimID int64
	From    string
	To      string
}

// CompleteOtherClaims marks every not yet completed claim on a found item,
// except the given one, as completed and returns the changes it made.
func CompleteOtherClaims(ctx context.Context, q Querier, foundItemID, exceptID int64, actorID *int64, now time.Time) ([]StatusChange, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, status FROM claims
		 WHERE found_item_id = ? AND id <> ? AND status <> 'completed'
		 ORDER BY id`, foundItemID, exceptID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing other claims: %w", err)
	}

	var changes []StatusChange
	for rows.Next() {
		ch := StatusChange{To: model.ClaimStatusCompleted}
		if err := rows.Scan(&ch.ClaimID, &ch.From); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning other claim: %w", err)
		}
		changes = append(changes, ch)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing other claims: %w", err)
	}

	for _, ch := range changes {
		if err := TransitionClaim(ctx, q, ch.ClaimID, ch.From, ch.To, actorID, now); err != nil {
			return nil, fmt.Errorf("completing claim %d: %w", ch.ClaimID, err)
		}
	}
	return changes, nil
}

// FindLockingClaimByOther returns the newest claim on a found item that
// holds a locking status and belongs to someone other than claimerID.
func FindLockingClaimByOther(ctx context.Context, q Querier, foundItemID, claimerID int64) (*model.Claim, error) {
	return findClaim(ctx, q, "finding locking claim",
		`WHERE c.found_item_id = ? AND c.claimer_id <> ? AND c.status IN `+lockingStatusList,
		foundItemID, claimerID)
}

// FindOpenLockingClaim returns the open reservation on a found item, if any.
func FindOpenLockingClaim(ctx context.Context, q Querier, foundItemID int64) (*model.Claim, error) {
	return findClaim(ctx, q, "finding open locking claim",
		`WHERE c.found_item_id = ? AND c.status IN `+openLockingStatusList,
		foundItemID)
}

// FindLostItemLock returns the newest locking claim referencing a lost item.
func FindLostItemLock(ctx context.Context, q Querier, lostItemID int64) (*model.Claim, error) {
	return findClaim(ctx, q, "finding lost item lock",
		`WHERE c.lost_item_id = ? AND c.status IN `+lockingStatusList,
		lostItemID)
}

// FindPairClaim returns a live or completed claim linking the given found
// and lost items.
func FindPairClaim(ctx context.Context, q Querier, foundItemID, lostItemID int64) (*model.Claim, error) {
	return findClaim(ctx, q, "finding pair claim",
		`WHERE c.found_item_id = ? AND c.lost_item_id = ? AND c.status IN `+pairStatusList,
		foundItemID, lostItemID)
}

// FindActiveRequest returns a claimer's requested or approved claim on a
// found item.
func FindActiveRequest(ctx context.Context, q Querier, foundItemID, claimerID int64) (*model.Claim, error) {
	return findClaim(ctx, q, "finding active request",
		`WHERE c.found_item_id = ? AND c.claimer_id = ? AND c.status IN ('requested', 'approved')`,
		foundItemID, claimerID)
}

func findClaim(ctx context.Context, q Querier, op, where string, args ...any) (*model.Claim, error) {
	c := &model.Claim{}
	err := scanClaim(q.QueryRowContext(ctx,
		`SELECT `+claimColumns+`, fi.finder_id, fi.name, fi.location, fi.status
		 FROM claims c JOIN found_items fi ON fi.id = c.found_item_id
		 `+where+`
		 ORDER BY c.created_at DESC, c.id DESC LIMIT 1`, args...,
	), c, &c.FinderID, &c.FoundItemName, &c.FoundLocation, &c.FoundStatus)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CountRejectedClaims counts a claimer's rejected claims on a found item
// created in [from, to).
func CountRejectedClaims(ctx context.Context, q Querier, foundItemID, claimerID int64, from, to time.Time) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims
		 WHERE found_item_id = ? AND claimer_id = ? AND status = 'rejected'
		   AND created_at >= ? AND created_at < ?`,
		foundItemID, claimerID, from.UTC(), to.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting rejected claims: %w", err)
	}
	return n, nil
}

// ListClaimsByClaimer returns every claim a user made, newest first, with
// the found item, the lost item's name and the finder's contact details.
func ListClaimsByClaimer(ctx context.Context, q Querier, claimerID int64) ([]model.Claim, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+claimColumns+`, fi.finder_id, fi.name, fi.location, fi.status,
		        li.name, fu.name, fu.email, fu.phone
		 FROM claims c
		 JOIN found_items fi ON fi.id = c.found_item_id
		 LEFT JOIN lost_items li ON li.id = c.lost_item_id
		 LEFT JOIN users fu ON fu.id = fi.finder_id
		 WHERE c.claimer_id = ?
		 ORDER BY c.created_at DESC, c.id DESC`, claimerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims by claimer: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		var lostName, name, email, phone sql.NullString
		err := scanClaim(rows, &c, &c.FinderID, &c.FoundItemName, &c.FoundLocation, &c.FoundStatus,
			&lostName, &name, &email, &phone)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		c.LostItemName = lostName.String
		c.FinderName = name.String
		c.FinderEmail = email.String
		c.FinderPhone = phone.String
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// ListPendingClaimsForFinder returns the unresolved claims on a finder's
// open found items, newest first, with the claimer's contact details.
func ListPendingClaimsForFinder(ctx context.Context, q Querier, finderID int64) ([]model.Claim, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+claimColumns+`, fi.finder_id, fi.name, fi.location, fi.status,
		        li.name, cu.name, cu.email, cu.phone
		 FROM claims c
		 JOIN found_items fi ON fi.id = c.found_item_id
		 LEFT JOIN lost_items li ON li.id = c.lost_item_id
		 LEFT JOIN users cu ON cu.id = c.claimer_id
		 WHERE fi.finder_id = ? AND fi.status = 'active'
		   AND c.status IN `+activeStatusList+`
		 ORDER BY c.created_at DESC, c.id DESC`, finderID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		var lostName, name, email, phone sql.NullString
		err := scanClaim(rows, &c, &c.FinderID, &c.FoundItemName, &c.FoundLocation, &c.FoundStatus,
			&lostName, &name, &email, &phone)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		c.LostItemName = lostName.String
		c.ClaimerName = name.String
		c.ClaimerEmail = email.String
		c.ClaimerPhone = phone.String
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// LockedFoundItemIDs returns, in ascending order, the found items that are
// reserved by a locking claim or closed.
func LockedFoundItemIDs(ctx context.Context, q Querier) ([]int64, error) {
	return queryIDs(ctx, q, "listing locked found items",
		`SELECT found_item_id FROM claims WHERE status IN `+lockingStatusList+`
		 UNION
		 SELECT id FROM found_items WHERE status = 'closed'
		 ORDER BY 1`)
}

// LockedLostItemIDs returns, in ascending order, the lost items referenced
// by a locking claim.
func LockedLostItemIDs(ctx context.Context, q Querier) ([]int64, error) {
	return queryIDs(ctx, q, "listing locked lost items",
		`SELECT DISTINCT lost_item_id FROM claims
		 WHERE lost_item_id IS NOT NULL AND status IN `+lockingStatusList+`
		 ORDER BY 1`)
}

func queryIDs(ctx context.Context, q Querier, op, query string) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanClaim(s rowScanner, c *model.Claim, extra ...any) error {
	var contact, location, date, clock sql.NullString
	dest := append([]any{
		&c.ID, &c.LostItemID, &c.FoundItemID, &c.ClaimerID, &c.Status, &contact,
		&location, &date, &clock, &c.CreatedAt, &c.UpdatedAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return err
	}
	c.ContactDate = contact.String
	c.AssertedLocation = location.String
	c.AssertedDate = date.String
	c.AssertedTime = clock.String
	return nil
}
