package auditlog

import (
	"context"
	"net/http"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
)

// ServeList handles GET /audit-events. Filters such as category,
// event_type, success and timestamp[gte] come straight off the query.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Events.List(ctx, querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Audit events retrieved successfully", items, pg)
}
