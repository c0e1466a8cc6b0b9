package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

type commentRepository struct{ s *Store }

func (r commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.comments[comment.ID]; ok {
			return repository.ErrDuplicate
		}
		d.comments[comment.ID] = row[model.Comment]{v: *comment, seq: d.next()}
		return nil
	})
}

func (r commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := r.s.read(ctx, func(d *data) error {
		rw, ok := d.comments[id]
		if !ok {
			return repository.ErrCommentNotFound
		}
		comment = rw.v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r commentRepository) GetLocked(ctx context.Context, id uuid.UUID, _ repository.LockMode) (*model.Comment, error) {
	return r.GetByID(ctx, id)
}

func (r commentRepository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*model.Comment, error) {
	var rows []row[model.Comment]
	err := r.s.read(ctx, func(d *data) error {
		for _, rw := range d.comments {
			if rw.v.VideoID == videoID {
				rows = append(rows, rw)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	newestFirst(rows, func(c model.Comment) time.Time { return c.CreatedAt })
	return values(rows), nil
}

func (r commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return r.s.write(ctx, func(d *data) error {
		rw, ok := d.comments[comment.ID]
		if !ok {
			return repository.ErrCommentNotFound
		}
		rw.v.Content = comment.Content
		rw.v.UpdatedAt = comment.UpdatedAt
		d.comments[comment.ID] = rw
		return nil
	})
}

func (r commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.comments[id]; !ok {
			return repository.ErrCommentNotFound
		}
		delete(d.comments, id)
		return nil
	})
}

func (r commentRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.s.write(ctx, func(d *data) error {
		for id, rw := range d.comments {
			if rw.v.VideoID == videoID {
				ids = append(ids, id)
				delete(d.comments, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

type tweetRepository struct{ s *Store }

func (r tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.tweets[tweet.ID]; ok {
			return repository.ErrDuplicate
		}
		d.tweets[tweet.ID] = row[model.Tweet]{v: *tweet, seq: d.next()}
		return nil
	})
}

func (r tweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tweet, error) {
	var tweet model.Tweet
	err := r.s.read(ctx, func(d *data) error {
		rw, ok := d.tweets[id]
		if !ok {
			return repository.ErrTweetNotFound
		}
		tweet = rw.v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r tweetRepository) GetLocked(ctx context.Context, id uuid.UUID, _ repository.LockMode) (*model.Tweet, error) {
	return r.GetByID(ctx, id)
}

func (r tweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Tweet, error) {
	var rows []row[model.Tweet]
	err := r.s.read(ctx, func(d *data) error {
		for _, rw := range d.tweets {
			if rw.v.OwnerID == ownerID {
				rows = append(rows, rw)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	newestFirst(rows, func(t model.Tweet) time.Time { return t.CreatedAt })
	return values(rows), nil
}

func (r tweetRepository) Update(ctx context.Context, tweet *model.Tweet) error {
	return r.s.write(ctx, func(d *data) error {
		rw, ok := d.tweets[tweet.ID]
		if !ok {
			return repository.ErrTweetNotFound
		}
		rw.v.Content = tweet.Content
		rw.v.UpdatedAt = tweet.UpdatedAt
		d.tweets[tweet.ID] = rw
		return nil
	})
}

func (r tweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.tweets[id]; !ok {
			return repository.ErrTweetNotFound
		}
		delete(d.tweets, id)
		return nil
	})
}
