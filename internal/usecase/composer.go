package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// Composer builds denormalized, viewer-aware views by joining roots with
// owner snippets, like counts and viewer flags. It never writes.
type Composer struct {
	store repository.Store
}

// NewComposer creates a Composer reading from store.
func NewComposer(store repository.Store) *Composer {
	return &Composer{store: store}
}

// engagement holds the joined data for a batch of roots of one kind.
type engagement struct {
	owners map[uuid.UUID]*model.User
	counts map[uuid.UUID]int64
	liked  map[uuid.UUID]bool
}

// loadEngagement fetches owners, like counts and (for a known viewer) like
// flags concurrently.
func (c *Composer) loadEngagement(
	ctx context.Context,
	kind model.TargetKind,
	ids, ownerIDs []uuid.UUID,
	viewerID uuid.UUID,
) (*engagement, error) {
	e := &engagement{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		owners, err := c.store.Users().GetByIDs(gctx, uniqueIDs(ownerIDs))
		if err != nil {
			return fmt.Errorf("load owners: %w", err)
		}
		e.owners = owners
		return nil
	})

	if kind != "" {
		g.Go(func() error {
			counts, err := c.store.Likes().CountByTargets(gctx, kind, ids)
			if err != nil {
				return fmt.Errorf("count likes: %w", err)
			}
			e.counts = counts
			return nil
		})

		if viewerID != uuid.Nil {
			g.Go(func() error {
				liked, err := c.store.Likes().LikedTargets(gctx, viewerID, kind, ids)
				if err != nil {
					return fmt.Errorf("load viewer likes: %w", err)
				}
				e.liked = liked
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *engagement) owner(id uuid.UUID) model.OwnerSnippet {
	if u, ok := e.owners[id]; ok {
		return u.Snippet()
	}
	return model.OwnerSnippet{ID: id}
}

// isLiked is nil for an anonymous viewer.
func (e *engagement) isLiked(id uuid.UUID, viewerID uuid.UUID) *bool {
	if viewerID == uuid.Nil {
		return nil
	}
	liked := e.liked[id]
	return &liked
}

// Videos composes list items for videos. Callers filter visibility first.
func (c *Composer) Videos(ctx context.Context, videos []*model.Video, viewerID uuid.UUID) ([]model.VideoView, error) {
	ids := make([]uuid.UUID, len(videos))
	ownerIDs := make([]uuid.UUID, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
		ownerIDs[i] = v.OwnerID
	}

	e, err := c.loadEngagement(ctx, model.TargetVideo, ids, ownerIDs, viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]model.VideoView, len(videos))
	for i, v := range videos {
		views[i] = model.VideoView{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			VideoURL:     v.VideoURL,
			ThumbnailURL: v.ThumbnailURL,
			Duration:     v.Duration,
			Views:        v.Views,
			IsPublished:  v.IsPublished,
			CreatedAt:    v.CreatedAt,
			UpdatedAt:    v.UpdatedAt,
			Owner:        model.ChannelSnippet{OwnerSnippet: e.owner(v.OwnerID)},
			LikesCount:   e.counts[v.ID],
			IsLiked:      e.isLiked(v.ID, viewerID),
		}
	}
	return views, nil
}

// VideoDetail composes a single video with its channel stats and comments.
func (c *Composer) VideoDetail(ctx context.Context, video *model.Video, viewerID uuid.UUID) (*model.VideoView, error) {
	var (
		base     []model.VideoView
		comments []model.CommentView
		stats    map[uuid.UUID]model.SubscriptionStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = c.Videos(gctx, []*model.Video{video}, viewerID)
		return err
	})
	g.Go(func() error {
		list, err := c.store.Comments().ListByVideo(gctx, video.ID)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		comments, err = c.Comments(gctx, list, viewerID)
		return err
	})
	if viewerID != uuid.Nil {
		g.Go(func() error {
			var err error
			stats, err = c.store.Subscriptions().Stats(gctx, []uuid.UUID{video.OwnerID}, viewerID)
			if err != nil {
				return fmt.Errorf("load subscriptions: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := base[0]
	if viewerID != uuid.Nil {
		s := stats[video.OwnerID]
		view.Owner.SubscribersCount = &s.SubscribersCount
		view.Owner.IsSubscribed = &s.IsSubscribed
	}
	view.Comments = comments
	return &view, nil
}

// Comments composes comments in the order given.
func (c *Composer) Comments(ctx context.Context, comments []*model.Comment, viewerID uuid.UUID) ([]model.CommentView, error) {
	ids := make([]uuid.UUID, len(comments))
	ownerIDs := make([]uuid.UUID, len(comments))
	for i, cm := range comments {
		ids[i] = cm.ID
		ownerIDs[i] = cm.OwnerID
	}

	e, err := c.loadEngagement(ctx, model.TargetComment, ids, ownerIDs, viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]model.CommentView, len(comments))
	for i, cm := range comments {
		views[i] = model.CommentView{
			ID:         cm.ID,
			VideoID:    cm.VideoID,
			Content:    cm.Content,
			CreatedAt:  cm.CreatedAt,
			UpdatedAt:  cm.UpdatedAt,
			Owner:      e.owner(cm.OwnerID),
			LikesCount: e.counts[cm.ID],
			IsLiked:    e.isLiked(cm.ID, viewerID),
		}
	}
	return views, nil
}

// Tweets composes tweets in the order given.
func (c *Composer) Tweets(ctx context.Context, tweets []*model.Tweet, viewerID uuid.UUID) ([]model.TweetView, error) {
	ids := make([]uuid.UUID, len(tweets))
	ownerIDs := make([]uuid.UUID, len(tweets))
	for i, t := range tweets {
		ids[i] = t.ID
		ownerIDs[i] = t.OwnerID
	}

	e, err := c.loadEngagement(ctx, model.TargetTweet, ids, ownerIDs, viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]model.TweetView, len(tweets))
	for i, t := range tweets {
		views[i] = model.TweetView{
			ID:         t.ID,
			Content:    t.Content,
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
			Owner:      e.owner(t.OwnerID),
			LikesCount: e.counts[t.ID],
			IsLiked:    e.isLiked(t.ID, viewerID),
		}
	}
	return views, nil
}

// Playlist composes a playlist with the videos viewerID may see, in insertion order.
func (c *Composer) Playlist(ctx context.Context, p *model.Playlist, viewerID uuid.UUID) (*model.PlaylistView, error) {
	var (
		videos map[uuid.UUID]*model.Video
		e      *engagement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		videos, err = c.store.Videos().GetByIDs(gctx, p.VideoIDs)
		if err != nil {
			return fmt.Errorf("load playlist videos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		e, err = c.loadEngagement(gctx, "", nil, []uuid.UUID{p.OwnerID}, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &model.PlaylistView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Owner:       e.owner(p.OwnerID),
		Videos:      []model.PlaylistVideo{},
	}
	for _, id := range p.VideoIDs {
		v, ok := videos[id]
		if !ok || !v.VisibleTo(viewerID) {
			continue
		}
		view.Videos = append(view.Videos, model.PlaylistVideo{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			VideoURL:     v.VideoURL,
			ThumbnailURL: v.ThumbnailURL,
			Duration:     v.Duration,
			Views:        v.Views,
			CreatedAt:    v.CreatedAt,
		})
		view.TotalViews += v.Views
	}
	view.TotalVideos = len(view.Videos)
	return view, nil
}

// PlaylistSummaries composes per-playlist totals over the videos viewerID may see.
func (c *Composer) PlaylistSummaries(ctx context.Context, playlists []*model.Playlist, viewerID uuid.UUID) ([]model.PlaylistSummary, error) {
	var all []uuid.UUID
	for _, p := range playlists {
		all = append(all, p.VideoIDs...)
	}

	videos, err := c.store.Videos().GetByIDs(ctx, uniqueIDs(all))
	if err != nil {
		return nil, fmt.Errorf("load playlist videos: %w", err)
	}

	summaries := make([]model.PlaylistSummary, len(playlists))
	for i, p := range playlists {
		s := model.PlaylistSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		for _, id := range p.VideoIDs {
			if v, ok := videos[id]; ok && v.VisibleTo(viewerID) {
				s.TotalVideos++
				s.TotalViews += v.Views
			}
		}
		summaries[i] = s
	}
	return summaries, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
