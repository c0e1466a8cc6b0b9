package usecase

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortSpec is a caller-supplied ordering. Field is a symbolic name that must
// appear in the allow-list of the listed entity kind.
type SortSpec struct {
	Field     string
	Direction Direction
}

const defaultSortField = "createdAt"

// sortKeys maps symbolic field names to comparators.
// Comparators order ascending; direction is applied on top.
type sortKeys[T any] map[string]func(a, b T) int

var videoSortKeys = sortKeys[model.VideoView]{
	"createdAt": func(a, b model.VideoView) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt": func(a, b model.VideoView) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"views":     func(a, b model.VideoView) int { return cmp.Compare(a.Views, b.Views) },
	"title":     func(a, b model.VideoView) int { return compareFold(a.Title, b.Title) },
	"duration":  func(a, b model.VideoView) int { return cmp.Compare(a.Duration, b.Duration) },
}

var commentSortKeys = sortKeys[model.CommentView]{
	"createdAt":  func(a, b model.CommentView) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"likesCount": func(a, b model.CommentView) int { return cmp.Compare(a.LikesCount, b.LikesCount) },
}

var tweetSortKeys = sortKeys[model.TweetView]{
	"createdAt":  func(a, b model.TweetView) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"likesCount": func(a, b model.TweetView) int { return cmp.Compare(a.LikesCount, b.LikesCount) },
}

var playlistSortKeys = sortKeys[model.PlaylistSummary]{
	"createdAt": func(a, b model.PlaylistSummary) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt": func(a, b model.PlaylistSummary) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"name":      func(a, b model.PlaylistSummary) int { return compareFold(a.Name, b.Name) },
}

// comparator resolves spec against the allow-list. Unknown fields and
// directions are rejected instead of being passed through.
func (k sortKeys[T]) comparator(spec SortSpec, id func(T) uuid.UUID) (func(a, b T) int, error) {
	field := spec.Field
	if field == "" {
		field = defaultSortField
	}
	compare, ok := k[field]
	if !ok {
		return nil, apperr.Validation("unsupported sort field", nil).WithDetails("sortBy must be one of: " + strings.Join(k.fields(), ", "))
	}

	direction := Direction(strings.ToLower(string(spec.Direction)))
	switch direction {
	case "":
		direction = Desc
	case Asc, Desc:
	default:
		return nil, apperr.Validation("unsupported sort direction", nil).WithDetails("sortType must be asc or desc")
	}

	return func(a, b T) int {
		c := compare(a, b)
		if direction == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		// Ties fall back to id so page boundaries are stable.
		ida, idb := id(a), id(b)
		return bytes.Compare(ida[:], idb[:])
	}, nil
}

func (k sortKeys[T]) fields() []string {
	fields := make([]string, 0, len(k))
	for f := range k {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// prepareListing validates spec and req up front, before any store I/O,
// and returns the function that sorts and pages the composed items.
func prepareListing[T any](keys sortKeys[T], spec SortSpec, id func(T) uuid.UUID, req PageRequest) (func([]T) (*Page[T], error), error) {
	compare, err := keys.comparator(spec, id)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return func(items []T) (*Page[T], error) {
		slices.SortFunc(items, compare)
		return Paginate(items, req)
	}, nil
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func videoViewID(v model.VideoView) uuid.UUID { return v.ID }
func commentViewID(v model.CommentView) uuid.UUID { return v.ID }
func tweetViewID(v model.TweetView) uuid.UUID { return v.ID }
func playlistSummaryID(v model.PlaylistSummary) uuid.UUID { return v.ID }
