package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/usecase"
)

// Request types

type UploadURLsRequest struct {
	VideoFileName     string `json:"videoFileName"`
	ThumbnailFileName string `json:"thumbnailFileName"`
}

type PublishVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoKey     string `json:"videoKey"`
	ThumbnailKey string `json:"thumbnailKey"`
}

type UpdateVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailKey string `json:"thumbnailKey,omitempty"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Routes registers the video endpoints on r.
func (h *VideoHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Publish)
	r.Post("/upload-urls", h.UploadURLs)
	r.Get("/{videoId}", h.Get)
	r.Patch("/{videoId}", h.Update)
	r.Delete("/{videoId}", h.Delete)
	r.Patch("/{videoId}/publish", h.TogglePublish)
	r.Post("/{videoId}/views", h.RecordView)
}

// List handles GET /v1/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}

	ownerID := uuid.Nil
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := model.ParseID(raw)
		if err != nil {
			Error(w, http.StatusBadRequest, "Invalid userId", "userId must be a valid UUID")
			return
		}
		ownerID = id
	}

	videos, err := h.svc.ListVideos(r.Context(), usecase.ListVideosInput{
		ViewerID: middleware.GetActorID(r.Context()),
		OwnerID:  ownerID,
		Query:    r.URL.Query().Get("query"),
		Sort:     sortSpec(r),
		Page:     page,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, videos, "Videos fetched successfully")
}

// UploadURLs handles POST /v1/videos/upload-urls
func (h *VideoHandler) UploadURLs(w http.ResponseWriter, r *http.Request) {
	var req UploadURLsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.svc.CreateUploadURLs(r.Context(), usecase.UploadURLsInput{
		ActorID:           middleware.GetActorID(r.Context()),
		VideoFileName:     req.VideoFileName,
		ThumbnailFileName: req.ThumbnailFileName,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, out, "Upload URLs generated successfully")
}

// Publish handles POST /v1/videos
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	video, err := h.svc.PublishVideo(r.Context(), usecase.PublishVideoInput{
		ActorID:      middleware.GetActorID(r.Context()),
		Title:        req.Title,
		Description:  req.Description,
		VideoKey:     req.VideoKey,
		ThumbnailKey: req.ThumbnailKey,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusCreated, video, "Video published successfully")
}

// Get handles GET /v1/videos/{videoId}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.svc.GetVideo(r.Context(), videoID, middleware.GetActorID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, video, "Video details")
}

// Update handles PATCH /v1/videos/{videoId}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	var req UpdateVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	video, err := h.svc.UpdateVideo(r.Context(), usecase.UpdateVideoInput{
		ActorID:      middleware.GetActorID(r.Context()),
		VideoID:      videoID,
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailKey: req.ThumbnailKey,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, video, "Video updated successfully")
}

// Delete handles DELETE /v1/videos/{videoId}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	if err := h.svc.DeleteVideo(r.Context(), middleware.GetActorID(r.Context()), videoID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, struct{}{}, "Video deleted successfully")
}

// TogglePublish handles PATCH /v1/videos/{videoId}/publish
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	state, err := h.svc.TogglePublish(r.Context(), middleware.GetActorID(r.Context()), videoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, state, "Publish status toggled successfully")
}

// RecordView handles POST /v1/videos/{videoId}/views
func (h *VideoHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	count, err := h.svc.RecordView(r.Context(), videoID, middleware.GetActorID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, count, "View recorded")
}
