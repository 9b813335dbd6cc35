package upperdb

import (
	"context"

	db2 "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/upper/db/v4"
)

type FollowDB struct {
	sess db.Session
}

func getFollowDB(sess db.Session) *FollowDB {
	return &FollowDB{sess}
}

// CreateFollow is insert-or-ignore: the unique (user_id, author_id) index
// rejects a concurrent duplicate and the conflict is reported as
// created=false instead of surfacing to the caller.
func (fdb *FollowDB) CreateFollow(ctx context.Context, follow *model.Follow) (bool, error) {
	if _, err := fdb.sess.WithContext(ctx).Collection("follow").
		Insert(follow); err != nil {
		if db2.IsDupKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (fdb *FollowDB) DeleteFollow(ctx context.Context, follow *model.Follow) error {
	return fdb.sess.WithContext(ctx).Collection("follow").
		Find(db.Cond{"user_id": follow.UserId, "author_id": follow.AuthorId}).
		Delete()
}

func (fdb *FollowDB) IsFollowing(ctx context.Context, userId, authorId string) (bool, error) {
	return fdb.sess.WithContext(ctx).Collection("follow").
		Find(db.Cond{"user_id": userId, "author_id": authorId}).
		Exists()
}

func (fdb *FollowDB) FollowerCount(ctx context.Context, authorId string) (int, error) {
	count, err := fdb.sess.WithContext(ctx).Collection("follow").
		Find(db.Cond{"author_id": authorId}).
		Count()
	return int(count), err
}

func (fdb *FollowDB) FollowingCount(ctx context.Context, userId string) (int, error) {
	count, err := fdb.sess.WithContext(ctx).Collection("follow").
		Find(db.Cond{"user_id": userId}).
		Count()
	return int(count), err
}

func (fdb *FollowDB) GetFollowedAuthorIds(ctx context.Context, userId string) ([]string, error) {
	var edges []*model.Follow
	if err := fdb.sess.WithContext(ctx).Collection("follow").
		Find(db.Cond{"user_id": userId}).
		All(&edges); err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, edge := range edges {
		ids[i] = edge.AuthorId
	}
	return ids, nil
}
