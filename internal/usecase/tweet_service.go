package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// ListTweetsInput selects a page of a user's tweets.
type ListTweetsInput struct {
	OwnerID  uuid.UUID
	ViewerID uuid.UUID
	Sort     SortSpec
	Page     PageRequest
}

// TweetService defines tweet operations.
type TweetService interface {
	CreateTweet(ctx context.Context, actorID uuid.UUID, content string) (*model.TweetView, error)

	// ListUserTweets returns NotFound for an unknown user.
	ListUserTweets(ctx context.Context, input ListTweetsInput) (*Page[model.TweetView], error)

	UpdateTweet(ctx context.Context, actorID, tweetID uuid.UUID, content string) (*model.TweetView, error)
	DeleteTweet(ctx context.Context, actorID, tweetID uuid.UUID) error
}

type tweetService struct {
	store    repository.Store
	composer *Composer
	cascade  *CascadeCoordinator
}

// NewTweetService creates a new TweetService instance.
func NewTweetService(store repository.Store, cascade *CascadeCoordinator) TweetService {
	return &tweetService{
		store:    store,
		composer: NewComposer(store),
		cascade:  cascade,
	}
}

func (s *tweetService) CreateTweet(ctx context.Context, actorID uuid.UUID, content string) (*model.TweetView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	tweet, err := model.NewTweet(actorID, content)
	if err != nil {
		return nil, translate(err)
	}

	if err := s.store.Tweets().Create(ctx, tweet); err != nil {
		return nil, translate(fmt.Errorf("create tweet: %w", err))
	}
	return s.compose(ctx, tweet, actorID)
}

func (s *tweetService) ListUserTweets(ctx context.Context, input ListTweetsInput) (*Page[model.TweetView], error) {
	page, err := prepareListing(tweetSortKeys, input.Sort, tweetViewID, input.Page)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Users().GetByID(ctx, input.OwnerID); err != nil {
		return nil, translate(err)
	}

	tweets, err := s.store.Tweets().ListByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, translate(fmt.Errorf("list tweets: %w", err))
	}

	views, err := s.composer.Tweets(ctx, tweets, input.ViewerID)
	if err != nil {
		return nil, translate(err)
	}
	return page(views)
}

func (s *tweetService) UpdateTweet(ctx context.Context, actorID, tweetID uuid.UUID, content string) (*model.TweetView, error) {
	tweet, err := authorizeOwned(ctx, actorID,
		func(ctx context.Context) (*model.Tweet, error) { return s.store.Tweets().GetByID(ctx, tweetID) },
		func(t *model.Tweet) uuid.UUID { return t.OwnerID },
	)
	if err != nil {
		return nil, err
	}

	if err := tweet.Edit(content); err != nil {
		return nil, translate(err)
	}

	if err := s.store.Tweets().Update(ctx, tweet); err != nil {
		return nil, translate(fmt.Errorf("update tweet: %w", err))
	}
	return s.compose(ctx, tweet, actorID)
}

func (s *tweetService) DeleteTweet(ctx context.Context, actorID, tweetID uuid.UUID) error {
	_, err := s.cascade.DeleteTweet(ctx, actorID, tweetID)
	return err
}

func (s *tweetService) compose(ctx context.Context, tweet *model.Tweet, viewerID uuid.UUID) (*model.TweetView, error) {
	views, err := s.composer.Tweets(ctx, []*model.Tweet{tweet}, viewerID)
	if err != nil {
		return nil, translate(err)
	}
	return &views[0], nil
}
