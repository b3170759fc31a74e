package eventregistrations

import (
	"context"
	"net/http"

	registrationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/registrations"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type eventInput struct {
	Event string `json:"event"`
}

// HandleCreate handles POST /event-registrations: the caller registers
// for body.event. New registrations are pending review.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	notFound := apierr.NotFound("Event not found for registration")
	eventID, err := formutil.ObjectID(in.Event, "event")
	if err != nil {
		apiresp.Error(w, r, h.Log, notFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ok, err := h.Events.Exists(ctx, eventID)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if !ok {
		apiresp.Error(w, r, h.Log, notFound)
		return
	}

	me := authz.UserID(r)
	dup, err := h.Registrations.Exists(ctx, eventID, me)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if dup {
		apiresp.Error(w, r, h.Log, errAlreadyRegistered)
		return
	}

	reg, err := h.Registrations.Create(ctx, models.EventRegistration{Event: eventID, User: me})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.Created(w, "Event registration created successfully", reg)
}

// HandleCancel handles POST /event-registrations/cancel. Only the
// caller's own registration can be cancelled, and only while pending.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	eventID, err := formutil.ObjectID(in.Event, "event")
	if err != nil {
		apiresp.Error(w, r, h.Log, errRegNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.Registrations.Cancel(ctx, eventID, authz.UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Log.Info("event registration cancelled",
		zap.String("event", eventID.Hex()),
		zap.String("registration", reg.ID.Hex()))
	apiresp.OK(w, "Event registration cancelled successfully", reg)
}

// ServeList handles GET /event-registrations. Staff see every
// registration; others see their own.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var opts []querybuilder.Option
	if !authz.IsAdmin(r) {
		opts = append(opts, querybuilder.WithBaseFilter(bson.M{"user": authz.UserID(r)}))
	}
	items, pg, err := h.Registrations.List(ctx, querybuilder.FromRequest(r), opts...)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	views, err := h.populate(ctx, items)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Event registrations retrieved successfully", views, pg)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.Registrations.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !authz.CanModify(r, reg.User) {
		apiresp.Error(w, r, h.Log, errRegNotFound)
		return
	}
	views, err := h.populate(ctx, []models.EventRegistration{reg})
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Event registration retrieved successfully", views[0])
}

// HandleUpdate handles PATCH /event-registrations/{id} {status}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if !registrationstore.ValidStatus(in.Status) {
		apiresp.Error(w, r, h.Log, apierr.BadRequest(`Status must be "pending", "approved" or "rejected"`))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.Registrations.SetStatus(ctx, id, in.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Event registration updated successfully", reg)
}

// HandleDelete handles DELETE /event-registrations/{id}. Owners may
// delete their own registration.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.Registrations.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !authz.CanModify(r, reg.User) {
		apiresp.Error(w, r, h.Log, apierr.Forbidden("You are not allowed to delete this registration"))
		return
	}
	if err := h.Registrations.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Event registration deleted successfully", nil)
}
