// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gotube"

var (
	// CacheOperationsTotal tracks cache operations (get, set, delete).
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks database queries.
	// Labels:
	//   - query_type: select, insert, update, delete
	//   - table: videos, comments, tweets, likes, playlists, playlist_videos, users, subscriptions
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// LikeTogglesTotal tracks like toggles.
	// Labels:
	//   - target: video, comment, tweet
	//   - result: liked, unliked, conflict, error
	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_toggles_total",
			Help:      "Total number of like toggles",
		},
		[]string{"target", "result"},
	)

	// CascadeDeletesTotal tracks cascading deletes by root entity.
	// Labels:
	//   - root: video, comment, tweet, playlist
	//   - status: success, error
	CascadeDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_deletes_total",
			Help:      "Total number of cascading deletes",
		},
		[]string{"root", "status"},
	)

	// CascadeRowsDeleted tracks dependent rows removed by cascading deletes.
	// Labels:
	//   - kind: comment, like, playlist_entry
	CascadeRowsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_rows_deleted_total",
			Help:      "Total number of dependent rows removed by cascading deletes",
		},
		[]string{"kind"},
	)

	// StorageOperationsTotal tracks blob storage calls.
	// Labels:
	//   - operation: presign, download, delete, stat
	//   - status: success, not_found, error
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Total number of blob storage operations",
		},
		[]string{"operation", "status"},
	)

	// MediaTasksTotal tracks media worker tasks.
	// Labels:
	//   - kind: probe, purge
	//   - status: success, error, published, publish_error
	MediaTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_tasks_total",
			Help:      "Total number of media tasks",
		},
		[]string{"kind", "status"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryUpdate = "update"
	DBQueryDelete = "delete"
)

// Table name constants.
const (
	TableUsers          = "users"
	TableVideos         = "videos"
	TableComments       = "comments"
	TableTweets         = "tweets"
	TableLikes          = "likes"
	TablePlaylists      = "playlists"
	TablePlaylistVideos = "playlist_videos"
	TableSubscriptions  = "subscriptions"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// Like toggle result constants.
const (
	LikeResultLiked    = "liked"
	LikeResultUnliked  = "unliked"
	LikeResultConflict = "conflict"
	LikeResultError    = "error"
)

// Cascade and media status constants.
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusPublished    = "published"
	StatusPublishError = "publish_error"
)

// Storage operations and the extra not_found status.
const (
	StorageOpPresign  = "presign"
	StorageOpDownload = "download"
	StorageOpDelete   = "delete"
	StorageOpStat     = "stat"
	StatusNotFound    = "not_found"
)

// Cascade dependent row kinds.
const (
	CascadeKindComment       = "comment"
	CascadeKindLike          = "like"
	CascadeKindPlaylistEntry = "playlist_entry"
)
