package memberships

import (
	"context"
	"net/http"

	membershipstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/memberships"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/htmlsanitize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.uber.org/zap"
)

type applicationInput struct {
	User             *string               `json:"user"`
	MembershipType   *string               `json:"membership_type"`
	Name             *string               `json:"name"`
	Email            *string               `json:"email"`
	Phone            *string               `json:"phone"`
	Address          *string               `json:"address"`
	FamilyMembers    []models.FamilyMember `json:"family_members"`
	JobTitle         *string               `json:"job_title"`
	OrganizationName *string               `json:"organization_name"`
	Nationality      *string               `json:"nationality"`
	Image            *string               `json:"image"`
	MembershipStatus *string               `json:"membership_status"`
	ExpiresAt        *string               `json:"expires_at"`
}

// HandleCreate handles POST /membership-applications. Members apply for
// themselves; staff may apply on behalf of the member named by "user".
// Every application starts pending.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in applicationInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	owner := authz.UserID(r)
	if authz.IsAdmin(r) {
		if in.User == nil {
			apiresp.Error(w, r, h.Log, apierr.BadRequest("user is required"))
			return
		}
		id, err := formutil.ObjectID(*in.User, "user")
		if err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		owner = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Users.GetByID(ctx, owner)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	app := models.MembershipApplication{
		User:             &member.ID,
		MembershipType:   htmlsanitize.StripTags(deref(in.MembershipType)),
		Name:             htmlsanitize.StripTags(deref(in.Name)),
		Email:            deref(in.Email),
		Phone:            deref(in.Phone),
		Address:          htmlsanitize.StripTags(deref(in.Address)),
		FamilyMembers:    in.FamilyMembers,
		JobTitle:         htmlsanitize.StripTags(deref(in.JobTitle)),
		OrganizationName: htmlsanitize.StripTags(deref(in.OrganizationName)),
		Nationality:      htmlsanitize.StripTags(deref(in.Nationality)),
		Image:            deref(in.Image),
	}
	if app.Name == "" {
		app.Name = member.Name
	}
	if app.Email == "" {
		app.Email = member.Email
	}
	if app.Phone == "" {
		app.Phone = member.Phone
	}
	if err := formutil.Required("Membership type", app.MembershipType); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if err := formutil.Required("Name", app.Name); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	app, err = h.Applications.Create(ctx, app)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Log.Info("membership application created",
		zap.String("membership_id", app.MembershipID),
		zap.String("user_id", member.ID.Hex()))
	apiresp.Created(w, "Membership application submitted successfully", app)
}

// ServeMine handles GET /membership-applications/my-application.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Applications.GetByUser(ctx, authz.UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Membership application retrieved successfully", app)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Applications.List(ctx, querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Membership applications retrieved successfully", items, pg)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Membership application retrieved successfully", app)
}

// HandleUpdate handles PATCH /membership-applications/{id}. Saving an
// active application links its card to the member; moving it out of
// active unlinks the card.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in applicationInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.MembershipStatus != nil && !membershipstore.ValidStatus(*in.MembershipStatus) {
		h.fail(w, r, membershipstore.ErrInvalidStatus)
		return
	}

	upd := membershipstore.Update{
		MembershipType:   stripped(in.MembershipType),
		Name:             stripped(in.Name),
		Phone:            formutil.Trim(in.Phone),
		Address:          stripped(in.Address),
		FamilyMembers:    in.FamilyMembers,
		JobTitle:         stripped(in.JobTitle),
		OrganizationName: stripped(in.OrganizationName),
		Nationality:      stripped(in.Nationality),
		Image:            formutil.Trim(in.Image),
		MembershipStatus: in.MembershipStatus,
	}
	if upd.MembershipType != nil {
		if err := formutil.Required("Membership type", *upd.MembershipType); err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
	}
	if in.ExpiresAt != nil {
		t, err := formutil.Date(*in.ExpiresAt, "expires_at")
		if err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		upd.ExpiresAt = &t
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	app, err := h.Applications.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.syncCard(ctx, current.MembershipStatus, app); err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Membership application updated successfully", app)
}

// HandleDelete removes the application and unlinks its card.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Applications.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	if app.User != nil && app.MembershipStatus == models.MembershipActive {
		if err := h.Users.SetApplicationForm(ctx, *app.User, nil); err != nil {
			h.Log.Warn("unlink membership card failed", zap.Error(err), zap.String("application", id.Hex()))
		}
	}
	h.Log.Info("membership application deleted", zap.String("id", id.Hex()))
	apiresp.OK(w, "Membership application deleted successfully", nil)
}

// syncCard keeps User.ApplicationForm in step with app's status. Linking
// is repeated on every save of an active application, so a failed link can
// be retried with the same request.
func (h *Handler) syncCard(ctx context.Context, prevStatus string, app models.MembershipApplication) error {
	if app.User == nil {
		return nil
	}
	switch {
	case app.MembershipStatus == models.MembershipActive:
		card := app.ID
		if err := h.Users.SetApplicationForm(ctx, *app.User, &card); err != nil {
			return err
		}
		if prevStatus != models.MembershipActive {
			h.Log.Info("membership card issued",
				zap.String("membership_id", app.MembershipID),
				zap.String("user_id", app.User.Hex()))
		}
	case prevStatus == models.MembershipActive:
		if err := h.Users.SetApplicationForm(ctx, *app.User, nil); err != nil {
			return err
		}
		h.Log.Info("membership card revoked",
			zap.String("membership_id", app.MembershipID),
			zap.String("status", app.MembershipStatus))
	}
	return nil
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
