package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/claims"
	"github.com/erazemk/izgubljeno/internal/model"
)

// ClaimsHandler exposes the claim workflow over HTTP.
type ClaimsHandler struct {
	Service *claims.Service
	Logger  *slog.Logger
}

type verifyRequest struct {
	FoundItemID int64  `json:"found_item_id"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type notifyRequest struct {
	LostItemID  int64 `json:"lost_item_id"`
	FoundItemID int64 `json:"found_item_id"`
}

type claimRequest struct {
	FoundItemID int64  `json:"found_item_id"`
	LostItemID  int64  `json:"lost_item_id"`
	ContactDate string `json:"contact_date"`
}

// Verify handles POST /api/claims/verify-request. Both outcomes are stored,
// so a rejected verification is still 201 but reports success=false.
func (h *ClaimsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	out, err := h.Service.VerifyRequest(r.Context(), claims.VerifyInput{
		ClaimerID:   GetClaims(r.Context()).UserID,
		FoundItemID: req.FoundItemID,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	if out.Claim.Status == model.ClaimStatusRejected {
		jsonResponse(w, http.StatusCreated, envelope{
			Success: false,
			Message: "the location you provided does not match",
			Data:    out,
		})
		return
	}
	respond(w, http.StatusCreated, "claim approved", out)
}

// Notify handles POST /api/claims/notify-owner.
func (h *ClaimsHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if req.LostItemID <= 0 {
		writeError(w, r, h.Logger, apperr.Validation("lost_item_id is required"))
		return
	}

	out, err := h.Service.NotifyOwner(r.Context(), claims.NotifyInput{
		FinderID:    GetClaims(r.Context()).UserID,
		LostItemID:  req.LostItemID,
		FoundItemID: req.FoundItemID,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	respond(w, http.StatusCreated, "owner notified", out)
}

// Request handles POST /api/claims.
func (h *ClaimsHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if req.FoundItemID <= 0 {
		writeError(w, r, h.Logger, apperr.Validation("found_item_id is required"))
		return
	}

	out, err := h.Service.RequestClaim(r.Context(), claims.RequestInput{
		ClaimerID:   GetClaims(r.Context()).UserID,
		FoundItemID: req.FoundItemID,
		LostItemID:  req.LostItemID,
		ContactDate: req.ContactDate,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	respond(w, http.StatusCreated, "claim requested", out)
}

// claimAction adapts a service call on one claim to a PATCH handler.
func (h *ClaimsHandler) claimAction(message string, fn func(s *claims.Service, r *http.Request, userID, claimID int64) (*claims.Outcome, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, h.Logger, err)
			return
		}

		out, err := fn(h.Service, r, GetClaims(r.Context()).UserID, id)
		if err != nil {
			writeError(w, r, h.Logger, err)
			return
		}

		msg := message
		if out.Completed {
			msg = "item returned, claim completed"
		}
		respond(w, http.StatusOK, msg, out)
	}
}

// ClaimerConfirm handles PATCH /api/claims/{id}/claimer-confirm.
func (h *ClaimsHandler) ClaimerConfirm() http.HandlerFunc {
	return h.claimAction("receipt confirmed, waiting for the finder", func(s *claims.Service, r *http.Request, userID, claimID int64) (*claims.Outcome, error) {
		return s.ClaimerConfirm(r.Context(), userID, claimID)
	})
}

// FinderReturned handles PATCH /api/claims/{id}/finder-returned.
func (h *ClaimsHandler) FinderReturned() http.HandlerFunc {
	return h.claimAction("return recorded, waiting for the claimer", func(s *claims.Service, r *http.Request, userID, claimID int64) (*claims.Outcome, error) {
		return s.FinderReturned(r.Context(), userID, claimID)
	})
}

// Approve handles PATCH /api/claims/{id}/approve.
func (h *ClaimsHandler) Approve() http.HandlerFunc {
	return h.claimAction("claim approved", func(s *claims.Service, r *http.Request, userID, claimID int64) (*claims.Outcome, error) {
		return s.ApproveClaim(r.Context(), userID, claimID)
	})
}

// Reject handles PATCH /api/claims/{id}/reject.
func (h *ClaimsHandler) Reject() http.HandlerFunc {
	return h.claimAction("claim rejected", func(s *claims.Service, r *http.Request, userID, claimID int64) (*claims.Outcome, error) {
		return s.RejectClaim(r.Context(), userID, claimID)
	})
}

// History handles GET /api/claims/{id}/history.
func (h *ClaimsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	events, err := h.Service.ClaimHistory(r.Context(), GetClaims(r.Context()).UserID, id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	respond(w, http.StatusOK, "", events)
}

// Mine handles GET /api/claims/my.
func (h *ClaimsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.MyClaims(r.Context(), GetClaims(r.Context()).UserID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	respond(w, http.StatusOK, "", list)
}

// FinderPending handles GET /api/claims/finder/pending.
func (h *ClaimsHandler) FinderPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.PendingClaimsForFinder(r.Context(), GetClaims(r.Context()).UserID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	respond(w, http.StatusOK, "", list)
}

// LockedFound handles GET /api/claims/found/locked.
func (h *ClaimsHandler) LockedFound(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Service.LockedFoundItemIDs(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	respond(w, http.StatusOK, "", ids)
}

// LockedLost handles GET /api/claims/lost/locked.
func (h *ClaimsHandler) LockedLost(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Service.LockedLostItemIDs(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	respond(w, http.StatusOK, "", ids)
}
