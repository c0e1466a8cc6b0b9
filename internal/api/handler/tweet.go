package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/usecase"
)

type TweetHandler struct {
	svc usecase.TweetService
}

func NewTweetHandler(svc usecase.TweetService) *TweetHandler {
	return &TweetHandler{svc: svc}
}

func (h *TweetHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/user/{userId}", h.ListByUser)
	r.Patch("/{tweetId}", h.Update)
	r.Delete("/{tweetId}", h.Delete)
}

// Create handles POST /v1/tweets
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tweet, err := h.svc.CreateTweet(r.Context(), middleware.GetActorID(r.Context()), req.Content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusCreated, tweet, "Tweet added successfully")
}

// ListByUser handles GET /v1/tweets/user/{userId}
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}

	tweets, err := h.svc.ListUserTweets(r.Context(), usecase.ListTweetsInput{
		OwnerID:  ownerID,
		ViewerID: middleware.GetActorID(r.Context()),
		Sort:     sortSpec(r),
		Page:     page,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, tweets, "Tweets fetched successfully")
}

// Update handles PATCH /v1/tweets/{tweetId}
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	tweetID, ok := pathID(w, r, "tweetId")
	if !ok {
		return
	}
	var req ContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tweet, err := h.svc.UpdateTweet(r.Context(), middleware.GetActorID(r.Context()), tweetID, req.Content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, tweet, "Tweet updated successfully")
}

// Delete handles DELETE /v1/tweets/{tweetId}
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tweetID, ok := pathID(w, r, "tweetId")
	if !ok {
		return
	}

	if err := h.svc.DeleteTweet(r.Context(), middleware.GetActorID(r.Context()), tweetID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, tweetID, "Tweet deleted successfully")
}
