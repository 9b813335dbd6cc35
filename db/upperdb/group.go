package upperdb

import (
	"context"
	"strings"

	db2 "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/upper/db/v4"
)

type GroupDB struct {
	sess db.Session
}

func getGroupDB(sess db.Session) *GroupDB {
	return &GroupDB{sess}
}

func (gdb *GroupDB) CreateGroup(ctx context.Context, req *db2.CreateGroup) (*model.Group, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Slug) == "" {
		return nil, &db2.ValidationError{Message: "group title and slug must not be empty"}
	}
	res, err := gdb.sess.WithContext(ctx).SQL().
		InsertInto("post_group").
		Columns("title", "slug", "description").
		Values(req.Title, req.Slug, req.Description).
		ExecContext(ctx)
	if err != nil {
		if db2.IsDupKeyErr(err) {
			return nil, &db2.ValidationError{Message: "group slug already in use"}
		}
		return nil, err
	}
	groupId, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Group{
		Id:          groupId,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}, nil
}

func (gdb *GroupDB) GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var group model.Group
	if err := gdb.sess.WithContext(ctx).Collection("post_group").
		Find(db.Cond{"slug": slug}).
		One(&group); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, &db2.NotFoundError{Resource: "group"}
		}
		return nil, err
	}
	return &group, nil
}

func (gdb *GroupDB) GetGroups(ctx context.Context) ([]*model.Group, error) {
	var groups []*model.Group
	err := gdb.sess.WithContext(ctx).Collection("post_group").
		Find().
		OrderBy("title").
		All(&groups)
	return groups, err
}

// DeleteGroup removes the group. Its posts survive with a nulled group
// reference; both writes happen in one transaction.
func (gdb *GroupDB) DeleteGroup(ctx context.Context, id int64) error {
	exists, err := gdb.sess.WithContext(ctx).Collection("post_group").
		Find(db.Cond{"id": id}).
		Exists()
	if err != nil {
		return err
	}
	if !exists {
		return &db2.NotFoundError{Resource: "group"}
	}
	return gdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := sess.Collection("post").
			Find(db.Cond{"group_id": id}).
			Update(map[string]interface{}{"group_id": nil}); err != nil {
			return err
		}
		return sess.Collection("post_group").
			Find(db.Cond{"id": id}).
			Delete()
	}, nil)
}
