package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-be/app"
	appDb "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/db/upperdb/upperdbtest"
	"github.com/inkwell-app/inkwell-be/model"
)

func TestFollowSelf(t *testing.T) {
	store := upperdbtest.New(t)
	subs := app.NewSubscriptionService(store)
	require.NoError(t, store.CreateUser(context.Background(), &model.User{Id: "uid-1", Username: "leo"}))

	err := subs.Follow(context.Background(), "uid-1", "uid-1")
	assert.True(t, appDb.IsValidationErr(err))

	count, err := subs.FollowerCount(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFollowIdempotent(t *testing.T) {
	store := upperdbtest.New(t)
	subs := app.NewSubscriptionService(store)
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &model.User{Id: "uid-1", Username: "leo"}))
	require.NoError(t, store.CreateUser(ctx, &model.User{Id: "uid-2", Username: "ada"}))

	require.NoError(t, subs.Follow(ctx, "uid-1", "uid-2"))
	// The duplicate is success-without-change, not an error.
	require.NoError(t, subs.Follow(ctx, "uid-1", "uid-2"))

	count, err := subs.FollowerCount(ctx, "uid-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	following, err := subs.IsFollowing(ctx, "uid-1", "uid-2")
	require.NoError(t, err)
	assert.True(t, following)
}

func TestUnfollowAbsentEdge(t *testing.T) {
	store := upperdbtest.New(t)
	subs := app.NewSubscriptionService(store)
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &model.User{Id: "uid-1", Username: "leo"}))
	require.NoError(t, store.CreateUser(ctx, &model.User{Id: "uid-2", Username: "ada"}))

	require.NoError(t, subs.Unfollow(ctx, "uid-1", "uid-2"))

	require.NoError(t, subs.Follow(ctx, "uid-1", "uid-2"))
	require.NoError(t, subs.Unfollow(ctx, "uid-1", "uid-2"))
	require.NoError(t, subs.Unfollow(ctx, "uid-1", "uid-2"))

	count, err := subs.FollowingCount(ctx, "uid-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
