package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/usecase"
)

type ContentRequest struct {
	Content string `json:"content"`
}

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	svc usecase.CommentService
}

func NewCommentHandler(svc usecase.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Routes registers the comment endpoints on r.
func (h *CommentHandler) Routes(r chi.Router) {
	r.Get("/{videoId}", h.List)
	r.Post("/{videoId}", h.Add)
	r.Patch("/c/{commentId}", h.Update)
	r.Delete("/c/{commentId}", h.Delete)
}

// List handles GET /v1/comments/{videoId}
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}

	comments, err := h.svc.ListVideoComments(r.Context(), usecase.ListCommentsInput{
		VideoID:  videoID,
		ViewerID: middleware.GetActorID(r.Context()),
		Sort:     sortSpec(r),
		Page:     page,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, comments, "Video comments fetched successfully")
}

// Add handles POST /v1/comments/{videoId}
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	var req ContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.svc.AddComment(r.Context(), middleware.GetActorID(r.Context()), videoID, req.Content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusCreated, comment, "Comment added successfully")
}

// Update handles PATCH /v1/comments/c/{commentId}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}
	var req ContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.svc.UpdateComment(r.Context(), middleware.GetActorID(r.Context()), commentID, req.Content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, comment, "Comment updated successfully")
}

// Delete handles DELETE /v1/comments/c/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(r.Context(), middleware.GetActorID(r.Context()), commentID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, commentID, "Comment deleted successfully")
}
