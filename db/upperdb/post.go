package upperdb

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	db2 "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/upper/db/v4"
)

const MaxCommentLength = 250

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

type flattenedPost struct {
	Id               int64          `db:"id"`
	Text             string         `db:"text"`
	ImageBlobName    sql.NullString `db:"image_blob_name"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	AuthorId         string         `db:"firebase_id"`
	AuthorUsername   string         `db:"username"`
	AuthorIsAdmin    bool           `db:"is_admin"`
	GroupId          sql.NullInt64  `db:"group_id"`
	GroupTitle       sql.NullString `db:"group_title"`
	GroupSlug        sql.NullString `db:"group_slug"`
	GroupDescription sql.NullString `db:"group_description"`
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *db2.CreatePost) (*model.Post, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &db2.ValidationError{Message: "post text must not be empty"}
	}
	if req.GroupId != nil {
		exists, err := pdb.sess.WithContext(ctx).Collection("post_group").
			Find(db.Cond{"id": *req.GroupId}).
			Exists()
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &db2.NotFoundError{Resource: "group"}
		}
	}

	now := time.Now().UTC()
	res, err := pdb.sess.WithContext(ctx).SQL().
		InsertInto("post").
		Columns("author_id", "text", "group_id", "image_blob_name", "created_at", "updated_at").
		Values(req.AuthorId, req.Text, req.GroupId, nullableString(req.ImageBlobName), now, now).
		ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	postId, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return pdb.GetPostById(ctx, postId)
}

func (pdb *PostDB) UpdatePost(ctx context.Context, postId int64, editorId string, req *db2.UpdatePost) (*model.Post, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &db2.ValidationError{Message: "post text must not be empty"}
	}
	post, err := pdb.GetPostById(ctx, postId)
	if err != nil {
		return nil, err
	}
	if post.Author.Id != editorId {
		return nil, &db2.AuthorizationError{Message: "only the author may edit a post"}
	}
	if req.GroupId != nil {
		exists, err := pdb.sess.WithContext(ctx).Collection("post_group").
			Find(db.Cond{"id": *req.GroupId}).
			Exists()
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &db2.NotFoundError{Resource: "group"}
		}
	}

	if err := pdb.sess.WithContext(ctx).Collection("post").
		Find(db.Cond{"id": postId}).
		Update(map[string]interface{}{
			"text":            req.Text,
			"group_id":        req.GroupId,
			"image_blob_name": nullableString(req.ImageBlobName),
			"updated_at":      time.Now().UTC(),
		}); err != nil {
		return nil, err
	}
	return pdb.GetPostById(ctx, postId)
}

func (pdb *PostDB) DeletePost(ctx context.Context, postId int64, editorId string) error {
	post, err := pdb.GetPostById(ctx, postId)
	if err != nil {
		return err
	}
	if post.Author.Id != editorId {
		return &db2.AuthorizationError{Message: "only the author may delete a post"}
	}
	// Comments cascade with their post.
	return pdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := sess.Collection("comment").
			Find(db.Cond{"post_id": postId}).
			Delete(); err != nil {
			return err
		}
		return sess.Collection("post").
			Find(db.Cond{"id": postId}).
			Delete()
	}, nil)
}

func (pdb *PostDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	var post flattenedPost
	if err := pdb.postSelect(ctx).
		Where("p.id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, &db2.NotFoundError{Resource: "post"}
		}
		return nil, err
	}
	return buildPostFromFlattened(&post), nil
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *db2.PostsQuery) ([]*model.Post, int, error) {
	// A non-nil empty author set means "posts by nobody".
	if query.AuthorIds != nil && len(query.AuthorIds) == 0 {
		return []*model.Post{}, 0, nil
	}

	cond := db.Cond{}
	if query.AuthorId != "" {
		cond["p.author_id"] = query.AuthorId
	}
	if query.AuthorIds != nil {
		cond["p.author_id"] = query.AuthorIds
	}
	if query.GroupId != nil {
		cond["p.group_id"] = *query.GroupId
	}

	total, err := pdb.sess.WithContext(ctx).Collection("post").
		Find(stripAlias(cond)).
		Count()
	if err != nil {
		return nil, 0, err
	}

	sel := pdb.postSelect(ctx)
	if len(cond) > 0 {
		sel = sel.Where(cond)
	}
	var flattenedPosts []flattenedPost
	if err := sel.
		OrderBy("p.created_at DESC", "p.id DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, 0, err
	}

	posts := make([]*model.Post, len(flattenedPosts))
	for i := range flattenedPosts {
		posts[i] = buildPostFromFlattened(&flattenedPosts[i])
	}
	return posts, int(total), nil
}

func (pdb *PostDB) CreateComment(ctx context.Context, req *db2.CreateComment) (*model.Comment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &db2.ValidationError{Message: "comment text must not be empty"}
	}
	if utf8.RuneCountInString(req.Text) > MaxCommentLength {
		return nil, &db2.ValidationError{Message: "comment text must not exceed 250 characters"}
	}
	exists, err := pdb.sess.WithContext(ctx).Collection("post").
		Find(db.Cond{"id": req.PostId}).
		Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &db2.NotFoundError{Resource: "post"}
	}

	res, err := pdb.sess.WithContext(ctx).SQL().
		InsertInto("comment").
		Columns("post_id", "author_id", "text", "created_at").
		Values(req.PostId, req.AuthorId, req.Text, time.Now().UTC()).
		ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	commentId, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var comment flattenedComment
	if err := pdb.commentSelect(ctx).
		Where("c.id = ?", commentId).
		IteratorContext(ctx).
		One(&comment); err != nil {
		return nil, err
	}
	return buildCommentFromFlattened(&comment), nil
}

func (pdb *PostDB) GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error) {
	var flattenedComments []flattenedComment
	if err := pdb.commentSelect(ctx).
		Where("c.post_id = ?", postId).
		OrderBy("c.created_at DESC", "c.id DESC").
		IteratorContext(ctx).
		All(&flattenedComments); err != nil {
		return nil, err
	}
	comments := make([]*model.Comment, len(flattenedComments))
	for i := range flattenedComments {
		comments[i] = buildCommentFromFlattened(&flattenedComments[i])
	}
	return comments, nil
}

func (pdb *PostDB) postSelect(ctx context.Context) db.Selector {
	return pdb.sess.WithContext(ctx).SQL().
		Select("p.id", "p.text", "p.image_blob_name", "p.created_at", "p.updated_at",
			"person.firebase_id", "person.username", "person.is_admin",
			"p.group_id",
			db.Raw("g.title AS group_title"),
			db.Raw("g.slug AS group_slug"),
			db.Raw("g.description AS group_description")).
		From("post AS p").
		Join("person").On("p.author_id = person.firebase_id").
		LeftJoin("post_group AS g").On("p.group_id = g.id")
}

type flattenedComment struct {
	Id             int64     `db:"id"`
	PostId         int64     `db:"post_id"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
	AuthorId       string    `db:"firebase_id"`
	AuthorUsername string    `db:"username"`
	AuthorIsAdmin  bool      `db:"is_admin"`
}

func (pdb *PostDB) commentSelect(ctx context.Context) db.Selector {
	return pdb.sess.WithContext(ctx).SQL().
		Select("c.id", "c.post_id", "c.text", "c.created_at",
			"person.firebase_id", "person.username", "person.is_admin").
		From("comment AS c").
		Join("person").On("c.author_id = person.firebase_id")
}

func buildPostFromFlattened(post *flattenedPost) *model.Post {
	var group *model.Group
	if post.GroupId.Valid {
		group = &model.Group{
			Id:          post.GroupId.Int64,
			Title:       post.GroupTitle.String,
			Slug:        post.GroupSlug.String,
			Description: post.GroupDescription.String,
		}
	}
	return &model.Post{
		Id: post.Id,
		Author: &model.User{
			Id:       post.AuthorId,
			Username: post.AuthorUsername,
			IsAdmin:  post.AuthorIsAdmin,
		},
		Text:          post.Text,
		Group:         group,
		ImageBlobName: post.ImageBlobName.String,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

func buildCommentFromFlattened(comment *flattenedComment) *model.Comment {
	return &model.Comment{
		Id:     comment.Id,
		PostId: comment.PostId,
		Author: &model.User{
			Id:       comment.AuthorId,
			Username: comment.AuthorUsername,
			IsAdmin:  comment.AuthorIsAdmin,
		},
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func nullableString(val string) sql.NullString {
	return sql.NullString{String: val, Valid: val != ""}
}

// stripAlias rewrites selector conditions for use against the bare
// collection (no joins, so no table alias).
func stripAlias(cond db.Cond) db.Cond {
	stripped := db.Cond{}
	for key, val := range cond {
		stripped[strings.TrimPrefix(key.(string), "p.")] = val
	}
	return stripped
}
