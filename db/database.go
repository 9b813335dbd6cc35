package db

import (
	"context"
	"database/sql"

	"github.com/inkwell-app/inkwell-be/model"

	_ "github.com/go-sql-driver/mysql"
)

type Database interface {
	PostDatabase
	GroupDatabase
	UserDatabase
	FollowDatabase
	GetSQLDB() *sql.DB
	Close() error
}

type CreatePost struct {
	AuthorId      string
	Text          string
	GroupId       *int64
	ImageBlobName string
}

// UpdatePost carries the full editable state of a post. Author and
// creation time are immutable; a nil GroupId detaches the post from its
// group and an empty ImageBlobName removes the attachment.
type UpdatePost struct {
	Text          string
	GroupId       *int64
	ImageBlobName string
}

type CreateComment struct {
	PostId   int64
	AuthorId string
	Text     string
}

type CreateGroup struct {
	Title       string
	Slug        string
	Description string
}

// PostsQuery selects a feed slice. A nil AuthorIds means no author-set
// filter; an empty non-nil AuthorIds matches nothing (caller follows
// nobody). Results are always ordered created_at DESC, id DESC.
type PostsQuery struct {
	AuthorId  string
	AuthorIds []string
	GroupId   *int64
	Offset    int
	Limit     int
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (*model.Post, error)
	UpdatePost(ctx context.Context, postId int64, editorId string, req *UpdatePost) (*model.Post, error)
	DeletePost(ctx context.Context, postId int64, editorId string) error
	GetPostById(ctx context.Context, id int64) (*model.Post, error)
	GetPosts(ctx context.Context, query *PostsQuery) (posts []*model.Post, total int, err error)
	CreateComment(ctx context.Context, req *CreateComment) (*model.Comment, error)
	GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error)
}

type GroupDatabase interface {
	CreateGroup(ctx context.Context, req *CreateGroup) (*model.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error)
	GetGroups(ctx context.Context) ([]*model.Group, error)
	// DeleteGroup removes the group and detaches its posts (their group
	// reference is nulled in the same transaction).
	DeleteGroup(ctx context.Context, id int64) error
}

type UserDatabase interface {
	CreateUser(context.Context, *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type FollowDatabase interface {
	// CreateFollow inserts the edge unless it already exists. The unique
	// (user_id, author_id) index is the only guard against concurrent
	// duplicate inserts; the conflict is caught here and reported as
	// created=false rather than an error.
	CreateFollow(ctx context.Context, follow *model.Follow) (created bool, err error)
	// DeleteFollow removes the edge if present. Absence is not an error.
	DeleteFollow(ctx context.Context, follow *model.Follow) error
	IsFollowing(ctx context.Context, userId, authorId string) (bool, error)
	FollowerCount(ctx context.Context, authorId string) (int, error)
	FollowingCount(ctx context.Context, userId string) (int, error)
	GetFollowedAuthorIds(ctx context.Context, userId string) ([]string, error)
}
