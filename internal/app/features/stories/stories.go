package stories

import (
	"context"
	"net/http"

	storystore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/stories"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/htmlsanitize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type storyInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Club        *string `json:"club"`
	Published   *bool   `json:"published"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in storyInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	st := models.Story{
		Published: in.Published == nil || *in.Published,
		CreatedBy: authz.UserID(r),
	}
	if in.Title != nil {
		st.Title = htmlsanitize.StripTags(*in.Title)
	}
	if err := formutil.Required("Title", st.Title); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if in.Description != nil {
		st.Description = htmlsanitize.Sanitize(*in.Description)
	}
	if in.Image != nil {
		st.Image = *in.Image
	}
	if in.Club != nil {
		st.Club = htmlsanitize.StripTags(*in.Club)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.Stories.Create(ctx, st)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.Created(w, "Story created successfully", storyView{Story: st})
}

// ServeList handles GET /stories. Each story carries its likeCount,
// counted for the whole page in one aggregate.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var opts []querybuilder.Option
	if !authz.IsAdmin(r) {
		opts = append(opts, querybuilder.WithBaseFilter(bson.M{"published": true}))
	}
	items, pg, err := h.Stories.List(ctx, querybuilder.FromRequest(r), opts...)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, st := range items {
		ids = append(ids, st.ID)
	}
	counts, err := h.Likes.CountsForStories(ctx, ids)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	views := make([]storyView, 0, len(items))
	for _, st := range items {
		views = append(views, storyView{Story: st, LikeCount: counts[st.ID]})
	}
	apiresp.Page(w, "Stories retrieved successfully", views, pg)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.Stories.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !st.Published && !authz.IsAdmin(r) {
		apiresp.Error(w, r, h.Log, errStoryNotFound)
		return
	}
	n, err := h.Likes.CountForStory(ctx, id)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	apiresp.OK(w, "Story retrieved successfully", storyView{Story: st, LikeCount: n})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	var in storyInput
	if err := apiresp.Decode(w, r, &in); err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	upd := storystore.Update{
		Image:     formutil.Trim(in.Image),
		Published: in.Published,
	}
	if in.Title != nil {
		t := htmlsanitize.StripTags(*in.Title)
		if err := formutil.Required("Title", t); err != nil {
			apiresp.Error(w, r, h.Log, err)
			return
		}
		upd.Title = &t
	}
	if in.Description != nil {
		d := htmlsanitize.Sanitize(*in.Description)
		upd.Description = &d
	}
	if in.Club != nil {
		c := htmlsanitize.StripTags(*in.Club)
		upd.Club = &c
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.Stories.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apiresp.OK(w, "Story updated successfully", st)
}

// HandleDelete handles DELETE /stories/{id}; the story's likes go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Stories.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Likes.DeleteByStory(ctx, id); err != nil {
		h.Log.Warn("delete story likes failed", zap.Error(err), zap.String("story", id.Hex()))
	}
	apiresp.OK(w, "Story deleted successfully", nil)
}

type likeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// HandleToggleLike handles POST /stories/{id}/like.
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ok, err := h.Stories.Exists(ctx, id)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	if !ok {
		apiresp.Error(w, r, h.Log, errStoryNotFound)
		return
	}

	liked, err := h.Likes.Toggle(ctx, authz.UserID(r), id)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	n, err := h.Likes.CountForStory(ctx, id)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	msg := "Story unliked successfully"
	if liked {
		msg = "Story liked successfully"
	}
	apiresp.OK(w, msg, likeResult{Liked: liked, LikeCount: n})
}
