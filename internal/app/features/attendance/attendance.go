package attendance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	attendancestore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/attendance"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/daterange"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.uber.org/zap"
)

var errAlreadyMarked = apierr.BadRequest("Attendance already marked for today")

type createInput struct {
	User string `json:"user"` // the member's application_form id
}

// HandleCreate handles POST /daily-attendance. The daily limit is checked
// before the per-member rule; the unique (user, day) index settles races.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	card, err := formutil.ObjectID(in.User, "user")
	if err != nil {
		apiresp.Error(w, r, h.Log, apierr.BadRequest("User doesn't exist!"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Users.GetByApplicationForm(ctx, card)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apiresp.Error(w, r, h.Log, apierr.BadRequest("User doesn't exist!"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}

	now := time.Now()
	day := daterange.DayKey(now.In(h.Loc))

	count, err := h.Attendance.CountForDay(ctx, day, nil)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if count >= int64(h.DailyLimit) {
		h.Metrics.Op("attendance", "limit_reached")
		h.Log.Warn("attendance daily limit reached", zap.String("day", day), zap.Int("limit", h.DailyLimit))
		apiresp.Error(w, r, h.Log, apierr.BadRequest(fmt.Sprintf("You have reached %d attendances for today", h.DailyLimit)))
		return
	}

	exists, err := h.Attendance.ExistsForDay(ctx, member.ID, day)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if exists {
		h.Metrics.Op("attendance", "duplicate")
		apiresp.Error(w, r, h.Log, errAlreadyMarked)
		return
	}

	a, err := h.Attendance.Create(ctx, models.DailyAttendance{
		Creator: authz.UserID(r),
		User:    member.ID,
		Date:    now,
		Day:     day,
	})
	if err != nil {
		if errors.Is(err, attendancestore.ErrAlreadyMarked) {
			h.Metrics.Op("attendance", "duplicate")
			apiresp.Error(w, r, h.Log, errAlreadyMarked)
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}
	h.Metrics.Op("attendance", "created")
	apiresp.Created(w, "Attendance created successfully", a)
}

// ServeList handles GET /daily-attendance.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Attendance.List(ctx, querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	views, err := h.populate(ctx, items)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Attendances retrieved successfully", views, pg)
}

// ServeGet handles GET /daily-attendance/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Attendance.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	views, err := h.populate(ctx, []models.DailyAttendance{a})
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Attendance retrieved successfully", views[0])
}

type updateInput struct {
	User *string `json:"user"`
	Date *string `json:"date"`
}

// HandleUpdate handles PATCH /daily-attendance/{id}. user is a user id.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in updateInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	var upd attendancestore.Update
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
		upd.Day = daterange.DayKey(d.In(h.Loc))
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Attendance.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Attendance updated successfully", a)
}

// HandleDelete handles DELETE /daily-attendance/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Attendance.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Attendance deleted successfully", nil)
}

type overview struct {
	CheckIn   int64 `json:"checkIn"`
	Remaining int64 `json:"remaining"`
}

// ServeOverview handles GET /daily-attendance/overview: the caller's
// check-ins today and what is left of the daily limit, never below zero.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	me := authz.UserID(r)
	day := daterange.DayKey(time.Now().In(h.Loc))
	n, err := h.Attendance.CountForDay(ctx, day, &me)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Attendance overview retrieved successfully", overview{
		CheckIn:   n,
		Remaining: max(int64(h.DailyLimit)-n, 0),
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, attendancestore.ErrNotFound):
		apiresp.Error(w, r, h.Log, apierr.NotFound("Attendance not found"))
	case errors.Is(err, attendancestore.ErrAlreadyMarked):
		apiresp.Error(w, r, h.Log, errAlreadyMarked)
	default:
		apiresp.Error(w, r, h.Log, err)
	}
}

