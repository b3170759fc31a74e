package offers

import (
	"context"
	"net/http"

	offerstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/offers"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/htmlsanitize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type offerInput struct {
	Name        *string          `json:"name"`
	Title       *string          `json:"title"`
	Address     *string          `json:"address"`
	Location    *models.GeoPoint `json:"location"`
	Image       *string          `json:"image"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Discount    *models.Discount `json:"discount"`
	Status      *string          `json:"status"`
	Published   *bool            `json:"published"`
}

var errReviewOnly = apierr.Forbidden("Only admins can change the review status of an offer")

// HandleCreate handles POST /exclusive-offers. The caller owns the offer.
// Only staff may set a review status; everyone else starts pending.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in offerInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.Status != nil && !authz.IsAdmin(r) {
		apiresp.Error(w, r, h.Log, errReviewOnly)
		return
	}

	o := models.ExclusiveOffer{
		Name:        htmlsanitize.StripTags(deref(in.Name)),
		Title:       htmlsanitize.StripTags(deref(in.Title)),
		Address:     htmlsanitize.StripTags(deref(in.Address)),
		Location:    in.Location,
		Image:       deref(in.Image),
		Description: htmlsanitize.Sanitize(deref(in.Description)),
		Category:    htmlsanitize.StripTags(deref(in.Category)),
		Status:      deref(in.Status),
		Published:   in.Published != nil && *in.Published,
		User:        authz.UserID(r),
	}
	if in.Discount != nil {
		o.Discount = *in.Discount
	}
	if err := formutil.Required("Name", o.Name); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	o, err := h.Offers.Create(ctx, o)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.Created(w, "Exclusive offer created successfully", o)
}

// ServeList handles GET /exclusive-offers. Outside staff only approved,
// published offers are listed.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var opts []querybuilder.Option
	if !authz.IsAdmin(r) {
		opts = append(opts, querybuilder.WithBaseFilter(bson.M{
			"status":    models.OfferApproved,
			"published": true,
		}))
	}
	h.list(w, r, "Exclusive offers retrieved successfully", opts...)
}

// ServeMine handles GET /exclusive-offers/my-offers.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "My offers retrieved successfully",
		querybuilder.WithBaseFilter(bson.M{"user": authz.UserID(r)}))
}

// ServeFavourites handles GET /exclusive-offers/all/favourite.
func (h *Handler) ServeFavourites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ids, err := h.Favourites.OfferIDs(ctx, authz.UserID(r))
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	h.list(w, r, "Favourite offers retrieved successfully",
		querybuilder.WithBaseFilter(bson.M{"_id": bson.M{"$in": ids}}))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, msg string, opts ...querybuilder.Option) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, pg, err := h.Offers.List(ctx, querybuilder.FromRequest(r), opts...)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Page(w, msg, items, pg)
}

type offerDetail struct {
	models.ExclusiveOffer
	ViewCount   int64 `json:"viewCount"`
	IsFavourite bool  `json:"isFavourite"`
}

// ServeGet handles GET /exclusive-offers/{id}. Each call records a view
// by the caller.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	o, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	live := o.Status == models.OfferApproved && o.Published
	if !live && !authz.CanModify(r, o.User) {
		apiresp.Error(w, r, h.Log, errOfferNotFound)
		return
	}

	me := authz.UserID(r)
	if err := h.Views.Record(ctx, me, id); err != nil {
		h.Log.Warn("record offer view failed", zap.Error(err), zap.String("offer", id.Hex()))
	}

	out := offerDetail{ExclusiveOffer: o}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.ViewCount, err = h.Views.Count(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.IsFavourite, err = h.Favourites.IsFavourite(gctx, me, id)
		return err
	})
	if err := g.Wait(); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Exclusive offer retrieved successfully", out)
}

// HandleUpdate handles PATCH /exclusive-offers/{id}. Owners edit their
// offers; the review status is staff-only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in offerInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.Status != nil && !authz.IsAdmin(r) {
		apiresp.Error(w, r, h.Log, errReviewOnly)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	current, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !authz.CanModify(r, current.User) {
		apiresp.Error(w, r, h.Log, apierr.Forbidden("You are not allowed to update this offer"))
		return
	}

	upd := offerstore.Update{
		Name:      stripped(in.Name),
		Title:     stripped(in.Title),
		Address:   stripped(in.Address),
		Category:  stripped(in.Category),
		Location:  in.Location,
		Image:     formutil.Trim(in.Image),
		Discount:  in.Discount,
		Status:    in.Status,
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

	o, err := h.Offers.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Exclusive offer updated successfully", o)
}

// HandleDelete handles DELETE /exclusive-offers/{id} and drops the
// offer's favourites and views with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	o, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !authz.CanModify(r, o.User) {
		apiresp.Error(w, r, h.Log, apierr.Forbidden("You are not allowed to delete this offer"))
		return
	}
	if err := h.Offers.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Favourites.DeleteByOffer(ctx, id); err != nil {
		h.Log.Warn("delete offer favourites failed", zap.Error(err), zap.String("offer", id.Hex()))
	}
	if err := h.Views.DeleteByOffer(ctx, id); err != nil {
		h.Log.Warn("delete offer views failed", zap.Error(err), zap.String("offer", id.Hex()))
	}
	apiresp.OK(w, "Exclusive offer deleted successfully", nil)
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
