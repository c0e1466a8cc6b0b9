package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/usecase"
)

// pathID parses the named URL parameter as an entity id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := model.ParseID(chi.URLParam(r, name))
	if err != nil {
		Error(w, http.StatusBadRequest, "Invalid "+name, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// pageRequest reads page and limit, defaulting omitted values.
// Range checks are left to the service.
func pageRequest(w http.ResponseWriter, r *http.Request) (usecase.PageRequest, bool) {
	req := usecase.PageRequest{Page: usecase.DefaultPage, Limit: usecase.DefaultLimit}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			Error(w, http.StatusBadRequest, "Invalid page", "page must be an integer")
			return req, false
		}
		req.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			Error(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer")
			return req, false
		}
		req.Limit = n
	}
	return req, true
}

func sortSpec(r *http.Request) usecase.SortSpec {
	q := r.URL.Query()
	return usecase.SortSpec{
		Field:     q.Get("sortBy"),
		Direction: usecase.Direction(q.Get("sortType")),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
