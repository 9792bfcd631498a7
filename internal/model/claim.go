package model

import "time"

// Claim links a claimer to a found item (and optionally a lost item) and
// tracks the two-sided confirmation handshake.
type Claim struct {
	ID               int64     `json:"id"`
	LostItemID       *int64    `json:"lost_item_id"`
	FoundItemID      int64     `json:"found_item_id"`
	ClaimerID        int64     `json:"claimer_id"`
	Status           string    `json:"status"`
	ContactDate      string    `json:"contact_date,omitempty"`
	AssertedLocation string    `json:"asserted_location,omitempty"`
	AssertedDate     string    `json:"asserted_date,omitempty"`
	AssertedTime     string    `json:"asserted_time,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	FinderID      int64  `json:"finder_id,omitempty"`
	FoundItemName string `json:"found_item_name,omitempty"`
	FoundLocation string `json:"found_location,omitempty"`
	FoundStatus   string `json:"found_status,omitempty"`
	LostItemName  string `json:"lost_item_name,omitempty"`
	FinderName    string `json:"finder_name,omitempty"`
	FinderEmail   string `json:"finder_email,omitempty"`
	FinderPhone   string `json:"finder_phone,omitempty"`
	ClaimerName   string `json:"claimer_name,omitempty"`
	ClaimerEmail  string `json:"claimer_email,omitempty"`
	ClaimerPhone  string `json:"claimer_phone,omitempty"`
}

// ClaimEvent is one recorded status write of a claim.
type ClaimEvent struct {
	ID         int64     `json:"id"`
	ClaimID    int64     `json:"claim_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ActorID    *int64    `json:"actor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Claim statuses.
const (
	ClaimStatusRequested     = "requested"
	ClaimStatusApproved      = "approved"
	ClaimStatusClaimerMarked = "claimer_marked"
	ClaimStatusFinderMarked  = "finder_marked"
	ClaimStatusPending       = "pending"
	ClaimStatusCompleted     = "completed"
	ClaimStatusRejected      = "rejected"
)

// LockingStatuses reserve a found item for the claim's claimer.
var LockingStatuses = []string{
	ClaimStatusApproved,
	ClaimStatusClaimerMarked,
	ClaimStatusFinderMarked,
	ClaimStatusPending,
	ClaimStatusCompleted,
}

// IsLocking reports whether status reserves the found item.
func IsLocking(status string) bool {
	for _, s := range LockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsOpenLocking reports whether status is a locking status of a claim that
// has not completed yet. At most one claim per item may be open-locking.
func IsOpenLocking(status string) bool {
	return IsLocking(status) && status != ClaimStatusCompleted
}
