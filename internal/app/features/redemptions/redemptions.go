package redemptions

import (
	"context"
	"errors"
	"net/http"
	"time"

	redemptionstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/redemptions"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/daterange"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

var (
	errNoMember = apierr.BadRequest("User doesn't exist!")
	errRedeemed = apierr.BadRequest("Redemption already exists for this member")
)

// HandleCreate handles POST /member-redemption. body.user is the member's
// application_form id. A member redeems once; the unique index on user
// backs the existence check.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		User string `json:"user"`
	}
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	card, err := formutil.ObjectID(in.User, "user")
	if err != nil {
		apiresp.Error(w, r, h.Log, errNoMember)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Users.GetByApplicationForm(ctx, card)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apiresp.Error(w, r, h.Log, errNoMember)
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}

	exists, err := h.Redemptions.ExistsForUser(ctx, member.ID)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if exists {
		h.Metrics.Op("redemption", "duplicate")
		apiresp.Error(w, r, h.Log, errRedeemed)
		return
	}

	m, err := h.Redemptions.Create(ctx, models.MemberRedemption{
		Creator: authz.UserID(r),
		User:    member.ID,
		Date:    time.Now(),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Metrics.Op("redemption", "created")
	apiresp.Created(w, "Redemption created successfully", m)
}

// ServeList handles GET /member-redemption.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Redemptions.List(ctx, querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	views, err := h.populate(ctx, items)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Redemptions retrieved successfully", views, pg)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Redemptions.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	views, err := h.populate(ctx, []models.MemberRedemption{m})
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Redemption retrieved successfully", views[0])
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in struct {
		User *string `json:"user"`
		Date *string `json:"date"`
	}
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	var upd redemptionstore.Update
	if in.User != nil {
		uid, err := formutil.ObjectID(*in.User, "user")
		if err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		upd.User = &uid
	}
	if in.Date != nil {
		d, err := formutil.Date(*in.Date, "date")
		if err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		upd.Date = &d
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Redemptions.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Redemption updated successfully", m)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Redemptions.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Redemption deleted successfully", nil)
}

type overview struct {
	TotalRedemption         int64 `json:"total_redemption"`
	RedemptionThisMonth     int64 `json:"redemption_this_month"`
	TodaysAttendanceCheckIn int64 `json:"todays_attendance_check_in"`
	ActiveOffer             int64 `json:"active_offer"`
}

// ServeOverview handles GET /member-redemption/overview. Every figure is
// scoped to the calling desk user; month and day are club-local.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	me := authz.UserID(r)
	now := time.Now().In(h.Loc)
	month := daterange.Month(now)
	day := daterange.DayKey(now)

	var out overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalRedemption, err = h.Redemptions.CountByCreator(gctx, me, time.Time{}, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		out.RedemptionThisMonth, err = h.Redemptions.CountByCreator(gctx, me, month.Start, month.End)
		return err
	})
	g.Go(func() (err error) {
		out.TodaysAttendanceCheckIn, err = h.Attendance.CountForDay(gctx, day, &me)
		return err
	})
	g.Go(func() (err error) {
		out.ActiveOffer, err = h.Offers.CountActiveByUser(gctx, me)
		return err
	})
	if err := g.Wait(); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Redemption overview retrieved successfully", out)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, redemptionstore.ErrNotFound):
		apiresp.Error(w, r, h.Log, apierr.NotFound("Redemption not found"))
	case errors.Is(err, redemptionstore.ErrExists):
		apiresp.Error(w, r, h.Log, errRedeemed)
	default:
		apiresp.Error(w, r, h.Log, err)
	}
}
