package events

import (
	"context"
	"net/http"

	eventstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/events"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/htmlsanitize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

type eventInput struct {
	Name        *string `json:"name"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
	EventDate   *string `json:"event_date"`
	Published   *bool   `json:"published"`
}

// HandleCreate handles POST /events.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	e := models.Event{
		Name:        htmlsanitize.StripTags(deref(in.Name)),
		Title:       htmlsanitize.StripTags(deref(in.Title)),
		Description: htmlsanitize.Sanitize(deref(in.Description)),
		Location:    htmlsanitize.StripTags(deref(in.Location)),
		Image:       deref(in.Image),
		Published:   in.Published == nil || *in.Published,
		CreatedBy:   authz.UserID(r),
	}
	if err := formutil.Required("Name", e.Name); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.EventDate != nil {
		d, err := formutil.Date(*in.EventDate, "event_date")
		if err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		e.EventDate = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.Events.Create(ctx, e)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Created(w, "Event created successfully", e)
}

// ServeList handles GET /events. Members and partners only see published
// events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var opts []querybuilder.Option
	if !authz.IsAdmin(r) {
		opts = append(opts, querybuilder.WithBaseFilter(bson.M{"published": true}))
	}
	items, pg, err := h.Events.List(ctx, querybuilder.FromRequest(r), opts...)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Events retrieved successfully", items, pg)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !e.Published && !authz.IsAdmin(r) {
		h.fail(w, r, eventstore.ErrNotFound)
		return
	}
	apiresp.OK(w, "Event retrieved successfully", e)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in eventInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	upd := eventstore.Update{
		Name:      stripped(in.Name),
		Title:     stripped(in.Title),
		Location:  stripped(in.Location),
		Image:     formutil.Trim(in.Image),
		Published: in.Published,
	}
	if upd.Name != nil {
		if err := formutil.Required("Name", *upd.Name); err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
	}
	if in.Description != nil {
		d := htmlsanitize.Sanitize(*in.Description)
		upd.Description = &d
	}
	if in.EventDate != nil {
		d, err := formutil.Date(*in.EventDate, "event_date")
		if err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		upd.EventDate = &d
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.Events.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Event updated successfully", e)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Event deleted successfully", nil)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stripped(s *string) *string {
	if s == nil {
		return nil
	}
	v := htmlsanitize.StripTags(*s)
	return &v
}

