package users

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/login"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/normalize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type createInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleCreate handles POST /users. The account starts unverified and a
// one-time code is emailed to it.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	email := normalize.Email(in.Email)
	if err := formutil.Required("Email", email); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if err := formutil.Required("Password", in.Password); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.Password != in.ConfirmPassword {
		apiresp.Error(w, r, h.Log, apierr.BadRequest("Passwords do not match"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:  in.Name,
		Email: email,
		Phone: in.Phone,
		Role:  authz.RoleUser,
	}, in.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apiresp.Error(w, r, h.Log, apierr.BadRequest("User already exists with this email"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}

	// The account exists either way; a failed send can be retried with resend-otp.
	if err := login.SendCode(ctx, h.EmailVerify, h.Mailer, h.SiteName, &u, false); err != nil {
		h.Log.Warn("verification email failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

	h.Log.Info("user created", zap.String("user_id", u.ID.Hex()))
	apiresp.Created(w, "User created successfully", nil)
}

// ServeList handles GET /users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Users.List(ctx, querybuilder.FromRequest(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, "Users retrieved successfully", items, pg)
}

type updateInput struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	ProfileImage *string  `json:"profile_image"`
	Preferences  []string `json:"preferences"`
}

// HandleUpdate handles PATCH /users for the signed-in user.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		apiresp.Error(w, r, h.Log, apierr.BadRequest("Name cannot be empty"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, authz.UserID(r), userstore.ProfileUpdate{
		Name:         in.Name,
		Phone:        in.Phone,
		ProfileImage: formutil.Trim(in.ProfileImage),
		Preferences:  in.Preferences,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apiresp.Error(w, r, h.Log, apierr.BadRequest("User doesn't exist!"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Profile updated successfully", u)
}

// ServeProfile handles GET /users/my-profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, authz.UserID(r))
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apiresp.Error(w, r, h.Log, apierr.NotFound("User not found"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Profile data retrieved successfully", u)
}

// monthlyCounts keeps calendar order in the JSON output.
type monthlyCounts struct {
	Jan int64 `json:"jan"`
	Feb int64 `json:"feb"`
	Mar int64 `json:"mar"`
	Apr int64 `json:"apr"`
	May int64 `json:"may"`
	Jun int64 `json:"jun"`
	Jul int64 `json:"jul"`
	Aug int64 `json:"aug"`
	Sep int64 `json:"sep"`
	Oct int64 `json:"oct"`
	Nov int64 `json:"nov"`
	Dec int64 `json:"dec"`
}

func newMonthlyCounts(m [12]int64) monthlyCounts {
	return monthlyCounts{
		Jan: m[0], Feb: m[1], Mar: m[2], Apr: m[3], May: m[4], Jun: m[5],
		Jul: m[6], Aug: m[7], Sep: m[8], Oct: m[9], Nov: m[10], Dec: m[11],
	}
}

type statistics struct {
	TotalUser           int64         `json:"totalUser"`
	TotalEvent          int64         `json:"totalEvent"`
	TotalExclusiveOffer int64         `json:"totalExclusiveOffer"`
	TotalStory          int64         `json:"totalStory"`
	Year                int           `json:"year"`
	UserStatistics      monthlyCounts `json:"userStatistics"`
}

// ServeStatistics handles GET /users/statistics?year=YYYY. The counts are
// independent, so they run concurrently.
func (h *Handler) ServeStatistics(w http.ResponseWriter, r *http.Request) {
	year := time.Now().In(h.Loc).Year()
	if raw := strings.TrimSpace(query.Get(r, "year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 || y > 9999 {
			apiresp.Error(w, r, h.Log, apierr.BadRequest("Invalid year"))
			return
		}
		year = y
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var out statistics
	var months [12]int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalUser, err = h.Users.Count(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		out.TotalEvent, err = h.Events.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalExclusiveOffer, err = h.Offers.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalStory, err = h.Stories.Count(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		months, err = h.Users.CountByMonth(gctx, year, h.Loc)
		return err
	})
	if err := g.Wait(); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	out.Year = year
	out.UserStatistics = newMonthlyCounts(months)
	apiresp.OK(w, "Statistics retrieved successfully", out)
}
