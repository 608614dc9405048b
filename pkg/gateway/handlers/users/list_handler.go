package users

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListHandler returns a page of user records, newest first. Admin only; the
// router enforces the role before this handler runs.
//
// GET /v1/admin/users?limit=&offset=
func (h *Handlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	list, err := h.dir.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.ComponentError(logging.ComponentGateway, "user listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "user listing failed")
		return
	}

	out := make([]profileResponse, 0, len(list))
	for i := range list {
		out = append(out, toProfile(&list[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":  out,
		"count":  len(out),
		"limit":  limit,
		"offset": offset,
	})
}
