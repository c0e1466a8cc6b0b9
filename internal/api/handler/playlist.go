package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/usecase"
)

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PlaylistHandler struct {
	svc usecase.PlaylistService
}

func NewPlaylistHandler(svc usecase.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

func (h *PlaylistHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/user/{userId}", h.ListByUser)
	r.Get("/{playlistId}", h.Get)
	r.Patch("/{playlistId}", h.Update)
	r.Delete("/{playlistId}", h.Delete)
	r.Patch("/add/{videoId}/{playlistId}", h.AddVideo)
	r.Patch("/remove/{videoId}/{playlistId}", h.RemoveVideo)
}

// Create handles POST /v1/playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	playlist, err := h.svc.CreatePlaylist(r.Context(), middleware.GetActorID(r.Context()), req.Name, req.Description)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusCreated, playlist, "Playlist created successfully")
}

// ListByUser handles GET /v1/playlists/user/{userId}
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}

	playlists, err := h.svc.ListUserPlaylists(r.Context(), usecase.ListPlaylistsInput{
		OwnerID:  ownerID,
		ViewerID: middleware.GetActorID(r.Context()),
		Sort:     sortSpec(r),
		Page:     page,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, playlists, "User playlists fetched successfully")
}

// Get handles GET /v1/playlists/{playlistId}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.svc.GetPlaylist(r.Context(), playlistID, middleware.GetActorID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, playlist, "Playlist fetched successfully")
}

// Update handles PATCH /v1/playlists/{playlistId}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}
	var req PlaylistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	playlist, err := h.svc.UpdatePlaylist(r.Context(), middleware.GetActorID(r.Context()), playlistID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, playlist, "Playlist updated successfully")
}

// Delete handles DELETE /v1/playlists/{playlistId}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	if err := h.svc.DeletePlaylist(r.Context(), middleware.GetActorID(r.Context()), playlistID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, struct{}{}, "Playlist deleted successfully")
}

// AddVideo handles PATCH /v1/playlists/add/{videoId}/{playlistId}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.svc.AddVideo, "Video added to playlist")
}

// RemoveVideo handles PATCH /v1/playlists/remove/{videoId}/{playlistId}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.svc.RemoveVideo, "Video removed from playlist")
}

type membershipFunc func(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error)

func (h *PlaylistHandler) changeMembership(w http.ResponseWriter, r *http.Request, fn membershipFunc, message string) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := fn(r.Context(), middleware.GetActorID(r.Context()), playlistID, videoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	Success(w, http.StatusOK, playlist, message)
}
