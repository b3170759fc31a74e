package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/emailverify"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/normalize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
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

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("login rate limited", zap.String("email", email))
			h.Audit.LoginRateLimited(r.Context(), r, email)
			apiresp.Error(w, r, h.Log, apierr.TooManyRequests(msg))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrInvalidCredentials) {
			h.Audit.LoginFailed(ctx, r, nil, email, "invalid credentials")
			apiresp.Error(w, r, h.Log, apierr.Unauthorized("Invalid email or password"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if !u.Verified {
		h.Audit.LoginFailed(ctx, r, &u.ID, email, "email not verified")
		apiresp.Error(w, r, h.Log, apierr.Forbidden("Please verify your account, then try to login again"))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}

	h.Audit.LoginSuccess(ctx, r, u.ID, email)
	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	apiresp.OK(w, "User logged in successfully", u.Summary())
}

type verifyInput struct {
	Email       string `json:"email"`
	OneTimeCode string `json:"oneTimeCode"`
}

// HandleVerifyEmail handles POST /auth/verify-email.
func (h *Handler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in verifyInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if err := formutil.Required("Email", in.Email); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if err := formutil.Required("One time code", in.OneTimeCode); err != nil {
		apiresp.Error(w, r, h.Log, apierr.BadRequest("Please give the otp, check your email we send a code"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apiresp.Error(w, r, h.Log, apierr.BadRequest("User doesn't exist!"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if u.Verified {
		apiresp.OK(w, "Email already verified", nil)
		return
	}

	if _, err := h.EmailVerify.VerifyCode(ctx, u.ID, in.OneTimeCode); err != nil {
		h.Audit.VerificationCodeFailed(ctx, r, u.ID, err.Error())
		switch {
		case errors.Is(err, emailverify.ErrNotFound):
			apiresp.Error(w, r, h.Log, apierr.BadRequest("Otp already expired, Please try again"))
		case errors.Is(err, emailverify.ErrInvalidCode):
			apiresp.Error(w, r, h.Log, apierr.BadRequest("You provided wrong otp"))
		case errors.Is(err, emailverify.ErrTooManyAttempts):
			apiresp.Error(w, r, h.Log, apierr.TooManyRequests("Too many attempts, please request a new code"))
		default:
			apiresp.Error(w, r, h.Log, err)
		}
		return
	}
	if err := h.Users.SetVerified(ctx, u.ID); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	h.Audit.EmailVerified(ctx, r, u.ID)
	h.Log.Info("email verified", zap.String("user_id", u.ID.Hex()))
	apiresp.OK(w, "Email verify successfully", nil)
}

type resendInput struct {
	Email string `json:"email"`
}

// HandleResendCode handles POST /auth/resend-otp.
func (h *Handler) HandleResendCode(w http.ResponseWriter, r *http.Request) {
	var in resendInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if err := formutil.Required("Email", in.Email); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apiresp.Error(w, r, h.Log, apierr.BadRequest("User doesn't exist!"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if u.Verified {
		apiresp.Error(w, r, h.Log, apierr.BadRequest("Email already verified"))
		return
	}

	if err := SendCode(ctx, h.EmailVerify, h.Mailer, h.SiteName, u, true); err != nil {
		if errors.Is(err, emailverify.ErrTooManyResends) {
			apiresp.Error(w, r, h.Log, apierr.TooManyRequests("Too many resend requests, please wait and try again"))
			return
		}
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Verification code sent to your email", nil)
}
