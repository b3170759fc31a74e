// internal/app/features/stories/handler.go
package stories

import (
	"errors"
	"net/http"

	likestore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/storylikes"
	storystore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/stories"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Stories *storystore.Store
	Likes   *likestore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Stories: storystore.New(db),
		Likes:   likestore.New(db),
		Log:     logger,
	}
}

// storyView is a story with its like count.
type storyView struct {
	models.Story
	LikeCount int64 `json:"likeCount"`
}

var errStoryNotFound = apierr.NotFound("Story not found")

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storystore.ErrNotFound) {
		apiresp.Error(w, r, h.Log, errStoryNotFound)
		return
	}
	apiresp.Error(w, r, h.Log, err)
}
