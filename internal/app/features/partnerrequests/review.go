package partnerrequests

import (
	"context"
	"fmt"
	"net/http"

	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/mailer"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.uber.org/zap"
)

// approve creates a verified partner account for pr unless a user with the
// contact email or phone already exists, then emails the applicant. The
// temporary password only appears in the mail for a new account.
func (h *Handler) approve(ctx context.Context, r *http.Request, pr models.PartnerRequest) error {
	exists, err := h.Users.ExistsByEmailOrPhone(ctx, pr.ContactEmail, pr.ContactPhone)
	if err != nil {
		return fmt.Errorf("check existing partner: %w", err)
	}

	var password string
	if !exists {
		password = userstore.TempPassword()
		u, err := h.Users.Create(ctx, models.User{
			Name:         pr.ContactName,
			Email:        pr.ContactEmail,
			Phone:        pr.ContactPhone,
			ProfileImage: pr.ProfileImage,
			Role:         authz.RolePartner,
			Verified:     true,
		}, password)
		if err != nil {
			return fmt.Errorf("create partner user: %w", err)
		}
		h.Audit.PartnerAccountCreated(ctx, r, authz.UserID(r), u.ID, u.Email)
		h.Log.Info("partner account created",
			zap.String("partnership_id", pr.PartnershipID),
			zap.String("user_id", u.ID.Hex()))
	}

	h.Audit.PartnerRequestApproved(ctx, r, authz.UserID(r), pr.ID, pr.ContactEmail)

	msg := mailer.BuildPartnerApprovedEmail(mailer.PartnerApprovedData{
		SiteName:     h.SiteName,
		ContactName:  pr.ContactName,
		CompanyName:  pr.CompanyName,
		Email:        pr.ContactEmail,
		TempPassword: password,
		LoginURL:     h.BaseURL + "/login",
	})
	msg.To = pr.ContactEmail
	if err := h.Mailer.Send(ctx, msg); err != nil {
		h.Log.Error("send partner approval email failed", zap.Error(err),
			zap.String("partnership_id", pr.PartnershipID))
	}
	return nil
}

func (h *Handler) reject(ctx context.Context, r *http.Request, pr models.PartnerRequest) {
	h.Audit.PartnerRequestRejected(ctx, r, authz.UserID(r), pr.ID, pr.ContactEmail)

	msg := mailer.BuildPartnerRejectedEmail(mailer.PartnerRejectedData{
		SiteName:    h.SiteName,
		ContactName: pr.ContactName,
		CompanyName: pr.CompanyName,
	})
	msg.To = pr.ContactEmail
	if err := h.Mailer.Send(ctx, msg); err != nil {
		h.Log.Error("send partner rejection email failed", zap.Error(err),
			zap.String("partnership_id", pr.PartnershipID))
	}
	h.Log.Info("partner request rejected", zap.String("partnership_id", pr.PartnershipID))
}

// notifyAdmins emails every admin and superadmin about pr and adds an
// in-app notification for each. Failures are logged; the application is
// already saved.
func (h *Handler) notifyAdmins(ctx context.Context, pr models.PartnerRequest) {
	admins, err := h.Users.ListByRoles(ctx, authz.Staff...)
	if err != nil {
		h.Log.Error("list admins for partner notification failed", zap.Error(err))
		return
	}
	if len(admins) == 0 {
		return
	}

	refID := pr.ID
	notes := make([]models.Notification, 0, len(admins))
	for _, a := range admins {
		notes = append(notes, models.Notification{
			Receiver: a.ID,
			Title:    "New Partnership Application Submitted",
			Message:  "A new partnership application has been submitted",
			RefID:    &refID,
			Path:     ReviewPath,
		})

		msg := mailer.BuildNewApplicationEmail(mailer.NewApplicationData{
			SiteName:      h.SiteName,
			CompanyName:   pr.CompanyName,
			ContactName:   pr.ContactName,
			ContactEmail:  pr.ContactEmail,
			PartnershipID: pr.PartnershipID,
			ReviewURL:     h.BaseURL + ReviewPath,
		})
		msg.To = a.Email
		if err := h.Mailer.Send(ctx, msg); err != nil {
			h.Log.Error("send new application email failed", zap.Error(err), zap.String("admin", a.Email))
		}
	}
	if _, err := h.Notifications.CreateMany(ctx, notes); err != nil {
		h.Log.Error("create partner notifications failed", zap.Error(err))
	}
}
