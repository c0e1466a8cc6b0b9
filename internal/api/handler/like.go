package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/usecase"
)

type LikeHandler struct {
	svc usecase.LikeService
}

func NewLikeHandler(svc usecase.LikeService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

func (h *LikeHandler) Routes(r chi.Router) {
	r.Post("/toggle/v/{videoId}", h.toggle("videoId", h.svc.ToggleVideoLike))
	r.Post("/toggle/c/{commentId}", h.toggle("commentId", h.svc.ToggleCommentLike))
	r.Post("/toggle/t/{tweetId}", h.toggle("tweetId", h.svc.ToggleTweetLike))
	r.Get("/videos", h.LikedVideos)
}

type toggleFunc func(ctx context.Context, actorID, targetID uuid.UUID) (*usecase.LikeState, error)

// toggle handles POST /v1/likes/toggle/{v,c,t}/{id}
func (h *LikeHandler) toggle(param string, fn toggleFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := pathID(w, r, param)
		if !ok {
			return
		}

		state, err := fn(r.Context(), middleware.GetActorID(r.Context()), targetID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		message := "Like removed"
		if state.IsLiked {
			message = "Like added"
		}
		Success(w, http.StatusOK, state, message)
	}
}

// LikedVideos handles GET /v1/likes/videos
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}

	videos, err := h.svc.ListLikedVideos(r.Context(), middleware.GetActorID(r.Context()), page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, videos, "Liked videos fetched successfully")
}
