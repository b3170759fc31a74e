package sponsors

import (
	"context"
	"errors"
	"net/http"

	sponsorstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/sponsors"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/htmlsanitize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
)

type sponsorInput struct {
	Title       *string `json:"title"`
	Logo        *string `json:"logo"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in sponsorInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	sp := models.Sponsor{}
	if in.Title != nil {
		sp.Title = htmlsanitize.StripTags(*in.Title)
	}
	if err := formutil.Required("Title", sp.Title); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.Logo != nil {
		sp.Logo = *in.Logo
	}
	if in.Location != nil {
		sp.Location = htmlsanitize.StripTags(*in.Location)
	}
	if in.Description != nil {
		sp.Description = htmlsanitize.Sanitize(*in.Description)
	}
	if in.Website != nil {
		sp.Website = *in.Website
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sp, err := h.Sponsors.Create(ctx, sp)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Created(w, "Sponsor created successfully", sp)
}

// ServeList handles GET /sponsors. Without ?fields= only logo, title and
// location are returned.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Sponsors.List(ctx, querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Sponsors retrieved successfully", items, pg)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sp, err := h.Sponsors.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Sponsor retrieved successfully", sp)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in sponsorInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	upd := sponsorstore.Update{
		Logo:    formutil.Trim(in.Logo),
		Website: formutil.Trim(in.Website),
	}
	if in.Title != nil {
		t := htmlsanitize.StripTags(*in.Title)
		if err := formutil.Required("Title", t); err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		upd.Title = &t
	}
	if in.Location != nil {
		l := htmlsanitize.StripTags(*in.Location)
		upd.Location = &l
	}
	if in.Description != nil {
		d := htmlsanitize.Sanitize(*in.Description)
		upd.Description = &d
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sp, err := h.Sponsors.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Sponsor updated successfully", sp)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Sponsors.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Sponsor deleted successfully", nil)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, sponsorstore.ErrNotFound) {
		apiresp.Error(w, r, h.Log, apierr.NotFound("Sponsor not found"))
		return
	}
	apiresp.Error(w, r, h.Log, err)
}
