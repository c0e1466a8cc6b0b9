package model

import (
	"time"

	"github.com/google/uuid"
)

// ChannelSnippet is an owner snippet enriched with subscription data.
// The subscription fields are only populated for a known viewer.
type ChannelSnippet struct {
	OwnerSnippet
	SubscribersCount *int64 `json:"subscribersCount,omitempty"`
	IsSubscribed     *bool  `json:"isSubscribed,omitempty"`
}

// VideoView is the composed, viewer-aware representation of a Video.
// Comments is only set on the detail view.
type VideoView struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	VideoURL     string         `json:"videoUrl"`
	ThumbnailURL string         `json:"thumbnailUrl"`
	Duration     float64        `json:"duration"`
	Views        int64          `json:"views"`
	IsPublished  bool           `json:"isPublished"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Owner        ChannelSnippet `json:"owner"`
	LikesCount   int64          `json:"likesCount"`
	IsLiked      *bool          `json:"isLiked,omitempty"`
	Comments     []CommentView  `json:"comments,omitempty"`
}

// CommentView is the composed representation of a Comment.
type CommentView struct {
	ID         uuid.UUID    `json:"id"`
	VideoID    uuid.UUID    `json:"videoId"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Owner      OwnerSnippet `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    *bool        `json:"isLiked,omitempty"`
}

// TweetView is the composed representation of a Tweet.
type TweetView struct {
	ID         uuid.UUID    `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Owner      OwnerSnippet `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    *bool        `json:"isLiked,omitempty"`
}

// PlaylistVideo is a video entry inside a playlist detail view.
type PlaylistVideo struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PlaylistView is the composed detail representation of a Playlist.
type PlaylistView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Owner       OwnerSnippet    `json:"owner"`
	Videos      []PlaylistVideo `json:"videos"`
	TotalVideos int             `json:"totalVideos"`
	TotalViews  int64           `json:"totalViews"`
}

// PlaylistSummary is a playlist entry in an owner's playlist listing.
type PlaylistSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int       `json:"totalVideos"`
	TotalViews  int64     `json:"totalViews"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
