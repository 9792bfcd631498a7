package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// minDescriptionLength is the shortest accepted item description.
const minDescriptionLength = 10

// ItemsHandler handles lost and found item endpoints.
type ItemsHandler struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// itemRequest is the body of both item create endpoints.
type itemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Category    string `json:"category"`
}

func (req *itemRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Category = strings.TrimSpace(req.Category)

	switch {
	case req.Name == "":
		return apperr.Validation("name is required")
	case utf8.RuneCountInString(req.Description) < minDescriptionLength:
		return apperr.Validation("description must be at least 10 characters")
	case req.Location == "":
		return apperr.Validation("location is required")
	case req.Date == "":
		return apperr.Validation("date is required")
	}
	if _, err := time.Parse(model.DateLayout, req.Date); err != nil {
		return apperr.Validation("date must be YYYY-MM-DD")
	}
	return nil
}

// mineFilter returns the caller's id when ?mine=1 is set, 0 otherwise.
func mineFilter(r *http.Request) int64 {
	if r.URL.Query().Get("mine") != "1" {
		return 0
	}
	if claims := GetClaims(r.Context()); claims != nil {
		return claims.UserID
	}
	return 0
}

// ListLost handles GET /api/lost-items.
func (h *ItemsHandler) ListLost(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListLostItems(r.Context(), h.DB, mineFilter(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if items == nil {
		items = []model.LostItem{}
	}
	respond(w, http.StatusOK, "", items)
}

// CreateLost handles POST /api/lost-items.
func (h *ItemsHandler) CreateLost(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	item, err := store.CreateLostItem(r.Context(), h.DB, &model.LostItem{
		OwnerID:     GetClaims(r.Context()).UserID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		DateLost:    req.Date,
		TimeLost:    req.Time,
		Category:    req.Category,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("lost item reported", "lost_item_id", item.ID, "owner_id", item.OwnerID)
	respond(w, http.StatusCreated, "lost item reported", item)
}

// GetLost handles GET /api/lost-items/{id}.
func (h *ItemsHandler) GetLost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	item, err := store.GetLostItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if item == nil || item.Status == model.ItemStatusDeleted {
		writeError(w, r, h.Logger, apperr.NotFound("lost item not found"))
		return
	}

	respond(w, http.StatusOK, "", item)
}

// DeleteLost handles DELETE /api/lost-items/{id}.
func (h *ItemsHandler) DeleteLost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	userID := GetClaims(r.Context()).UserID

	err = store.WithTx(r.Context(), h.DB, func(tx *sql.Tx) error {
		item, err := store.GetLostItem(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if item == nil || item.Status == model.ItemStatusDeleted {
			return apperr.NotFound("lost item not found")
		}
		if item.OwnerID != userID {
			return apperr.Forbidden("only the owner can delete this item")
		}
		return store.DeleteLostItem(r.Context(), tx, id)
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("lost item deleted", "lost_item_id", id, "owner_id", userID)
	respond(w, http.StatusOK, "lost item deleted", nil)
}

// ListFound handles GET /api/found-items.
func (h *ItemsHandler) ListFound(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListFoundItems(r.Context(), h.DB, mineFilter(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if items == nil {
		items = []model.FoundItem{}
	}
	respond(w, http.StatusOK, "", items)
}

// CreateFound handles POST /api/found-items.
func (h *ItemsHandler) CreateFound(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	item, err := store.CreateFoundItem(r.Context(), h.DB, &model.FoundItem{
		FinderID:    GetClaims(r.Context()).UserID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		DateFound:   req.Date,
		TimeFound:   req.Time,
		Category:    req.Category,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("found item reported", "found_item_id", item.ID, "finder_id", item.FinderID)
	respond(w, http.StatusCreated, "found item reported", item)
}

// GetFound handles GET /api/found-items/{id}.
func (h *ItemsHandler) GetFound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	item, err := store.GetFoundItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if item == nil || item.Status == model.ItemStatusDeleted {
		writeError(w, r, h.Logger, apperr.NotFound("found item not found"))
		return
	}

	respond(w, http.StatusOK, "", item)
}

// DeleteFound handles DELETE /api/found-items/{id}.
func (h *ItemsHandler) DeleteFound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	userID := GetClaims(r.Context()).UserID

	err = store.WithTx(r.Context(), h.DB, func(tx *sql.Tx) error {
		item, err := store.GetFoundItem(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if item == nil || item.Status == model.ItemStatusDeleted {
			return apperr.NotFound("found item not found")
		}
		if item.FinderID != userID {
			return apperr.Forbidden("only the finder can delete this item")
		}
		return store.DeleteFoundItem(r.Context(), tx, id)
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("found item deleted", "found_item_id", id, "finder_id", userID)
	respond(w, http.StatusOK, "found item deleted", nil)
}
