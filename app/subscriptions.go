package app

import (
	"context"

	appDb "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/model"
)

// SubscriptionService manages follow edges between users and authors.
type SubscriptionService struct {
	db appDb.FollowDatabase
}

func NewSubscriptionService(database appDb.FollowDatabase) *SubscriptionService {
	return &SubscriptionService{db: database}
}

// Follow creates the edge user -> author. Following yourself is a
// validation error; following someone twice is a silent no-op (the
// storage layer swallows the duplicate-key conflict).
func (ss *SubscriptionService) Follow(ctx context.Context, userId, authorId string) error {
	if userId == authorId {
		return &appDb.ValidationError{Message: "cannot follow yourself"}
	}
	_, err := ss.db.CreateFollow(ctx, &model.Follow{UserId: userId, AuthorId: authorId})
	return err
}

// Unfollow removes the edge if it exists. Unfollowing someone never
// followed is a no-op.
func (ss *SubscriptionService) Unfollow(ctx context.Context, userId, authorId string) error {
	return ss.db.DeleteFollow(ctx, &model.Follow{UserId: userId, AuthorId: authorId})
}

func (ss *SubscriptionService) IsFollowing(ctx context.Context, userId, authorId string) (bool, error) {
	return ss.db.IsFollowing(ctx, userId, authorId)
}

func (ss *SubscriptionService) FollowerCount(ctx context.Context, authorId string) (int, error) {
	return ss.db.FollowerCount(ctx, authorId)
}

func (ss *SubscriptionService) FollowingCount(ctx context.Context, userId string) (int, error) {
	return ss.db.FollowingCount(ctx, userId)
}
