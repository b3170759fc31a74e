package partnerrequests

import (
	"context"
	"net/http"

	partnerstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/partnerrequests"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/htmlsanitize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.uber.org/zap"
)

type requestInput struct {
	CompanyName       *string `json:"company_name"`
	Industry          *string `json:"industry"`
	ContactName       *string `json:"contact_name"`
	ContactEmail      *string `json:"contact_email"`
	ContactPhone      *string `json:"contact_phone"`
	Website           *string `json:"website"`
	Message           *string `json:"message"`
	ProfileImage      *string `json:"profile_image"`
	PartnershipStatus *string `json:"partnership_status"`
}

func (in requestInput) model() models.PartnerRequest {
	return models.PartnerRequest{
		CompanyName:       htmlsanitize.StripTags(deref(in.CompanyName)),
		Industry:          htmlsanitize.StripTags(deref(in.Industry)),
		ContactName:       htmlsanitize.StripTags(deref(in.ContactName)),
		ContactEmail:      deref(in.ContactEmail),
		ContactPhone:      deref(in.ContactPhone),
		Website:           deref(in.Website),
		Message:           htmlsanitize.StripTags(deref(in.Message)),
		ProfileImage:      deref(in.ProfileImage),
		PartnershipStatus: deref(in.PartnershipStatus),
	}
}

// HandleCreate handles the public POST /partner-requests. Every admin is
// emailed and notified about the new application.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in requestInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	// Applicants cannot pick their own status.
	in.PartnershipStatus = nil

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pr, err := h.create(ctx, in.model())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.notifyAdmins(ctx, pr)
	apiresp.Created(w, "Partner request created successfully", pr)
}

// HandleStaffCreate handles POST /partner-requests/crate-from: an admin
// records an application directly. No admin notifications are sent.
func (h *Handler) HandleStaffCreate(w http.ResponseWriter, r *http.Request) {
	var in requestInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pr, err := h.create(ctx, in.model())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.Created(w, "Partner request created successfully", pr)
}

func (h *Handler) create(ctx context.Context, pr models.PartnerRequest) (models.PartnerRequest, error) {
	for _, f := range []struct{ label, value string }{
		{"Company name", pr.CompanyName},
		{"Contact name", pr.ContactName},
		{"Contact email", pr.ContactEmail},
	} {
		if err := formutil.Required(f.label, f.value); err != nil {
			return pr, err
		}
	}

	taken, err := h.Requests.ExistsByEmail(ctx, pr.ContactEmail)
	if err != nil {
		return pr, err
	}
	if taken {
		return pr, apierr.Conflict("Application already exists with this email")
	}
	taken, err = h.Requests.ExistsByPhone(ctx, pr.ContactPhone)
	if err != nil {
		return pr, err
	}
	if taken {
		return pr, apierr.Conflict("Application already exists with this phone number")
	}
	return h.Requests.Create(ctx, pr)
}

// ServeList handles GET /partner-requests.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Requests.List(ctx, querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Partner requests retrieved successfully", items, pg)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pr, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Partner request retrieved successfully", pr)
}

// HandleUpdate handles PATCH /partner-requests/{id}. Moving a request to
// active provisions the partner account; moving it to rejected emails the
// applicant. Both happen before the request itself is updated.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in requestInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.PartnershipStatus != nil && !partnerstore.ValidStatus(*in.PartnershipStatus) {
		h.fail(w, r, partnerstore.ErrInvalidStatus)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	upd := partnerstore.Update{
		CompanyName:       stripped(in.CompanyName),
		Industry:          stripped(in.Industry),
		ContactName:       stripped(in.ContactName),
		ContactEmail:      formutil.Trim(in.ContactEmail),
		ContactPhone:      formutil.Trim(in.ContactPhone),
		Website:           formutil.Trim(in.Website),
		Message:           stripped(in.Message),
		ProfileImage:      formutil.Trim(in.ProfileImage),
		PartnershipStatus: in.PartnershipStatus,
	}
	target := merge(current, upd)

	if in.PartnershipStatus != nil {
		switch status := *in.PartnershipStatus; {
		case status == models.PartnershipActive && current.PartnershipStatus != models.PartnershipActive:
			if err := h.approve(ctx, r, target); err != nil {
				apiresp.Error(w, r, h.Log, err)
				return
			}
		case status == models.PartnershipRejected && current.PartnershipStatus != models.PartnershipRejected:
			h.reject(ctx, r, target)
		}
	}

	pr, err := h.Requests.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Partner request updated successfully", pr)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Requests.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Log.Info("partner request deleted", zap.String("id", id.Hex()))
	apiresp.OK(w, "Partner request deleted successfully", nil)
}

// merge returns pr with the set fields of upd applied, so the approval
// mail and account use the values being saved.
func merge(pr models.PartnerRequest, upd partnerstore.Update) models.PartnerRequest {
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&pr.CompanyName, upd.CompanyName)
	apply(&pr.ContactName, upd.ContactName)
	apply(&pr.ContactEmail, upd.ContactEmail)
	apply(&pr.ContactPhone, upd.ContactPhone)
	apply(&pr.ProfileImage, upd.ProfileImage)
	return pr
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
