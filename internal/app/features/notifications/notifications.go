package notifications

import (
	"context"
	"net/http"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
)

// ServeList handles GET /notifications for the signed-in user.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	items, pg, err := h.Notifications.List(ctx, authz.UserID(r), querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Notifications retrieved successfully", items, pg)
}

// ServeUnseen returns the badge counter.
func (h *Handler) ServeUnseen(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.UnseenCount(ctx, authz.UserID(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Unseen notification count retrieved successfully", map[string]int{"count": n})
}

func (h *Handler) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.MarkAllSeen(ctx, authz.UserID(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Notifications marked as seen", map[string]int64{"updated": n})
}
