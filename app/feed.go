package app

import (
	"context"
	"encoding/json"

	appDb "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/model"
)

// FeedService composes the three feed variants as reverse-chronological,
// page-numbered slices. The page cache intercepts reads of the global
// feed's first page only.
type FeedService struct {
	db    appDb.Database
	cache *PageCache
}

func NewFeedService(database appDb.Database, cache *PageCache) *FeedService {
	return &FeedService{db: database, cache: cache}
}

// GlobalFeed returns all posts, newest first. The first page is served
// from the cache for up to its TTL; readers tolerate that staleness.
func (fs *FeedService) GlobalFeed(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if page == 1 && fs.cache != nil {
		if data, ok := fs.cache.Get(ctx, GlobalFeedCacheKey); ok {
			var cached Page
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	result, err := fs.paginated(ctx, &appDb.PostsQuery{}, page)
	if err != nil {
		return nil, err
	}
	if result.Number == 1 && fs.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			fs.cache.Set(ctx, GlobalFeedCacheKey, data, fs.cache.TTL())
		}
	}
	return result, nil
}

// GroupFeed returns the group's posts, newest first. Unknown slugs are a
// not-found error.
func (fs *FeedService) GroupFeed(ctx context.Context, slug string, page int) (*model.Group, *Page, error) {
	group, err := fs.db.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	result, err := fs.paginated(ctx, &appDb.PostsQuery{GroupId: &group.Id}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, result, nil
}

// FollowingFeed returns posts by the authors the user follows, newest
// first. Following nobody yields an empty page, not an error.
func (fs *FeedService) FollowingFeed(ctx context.Context, userId string, page int) (*Page, error) {
	authorIds, err := fs.db.GetFollowedAuthorIds(ctx, userId)
	if err != nil {
		return nil, err
	}
	if authorIds == nil {
		authorIds = []string{}
	}
	return fs.paginated(ctx, &appDb.PostsQuery{AuthorIds: authorIds}, page)
}

// AuthorFeed returns the posts published by one author, newest first.
func (fs *FeedService) AuthorFeed(ctx context.Context, authorId string, page int) (*Page, error) {
	return fs.paginated(ctx, &appDb.PostsQuery{AuthorId: authorId}, page)
}

func (fs *FeedService) paginated(ctx context.Context, query *appDb.PostsQuery, requested int) (*Page, error) {
	if requested < 1 {
		requested = 1
	}
	query.Offset = (requested - 1) * FeedPageSize
	query.Limit = FeedPageSize
	posts, total, err := fs.db.GetPosts(ctx, query)
	if err != nil {
		return nil, err
	}

	page, offset, pageCount := clampPage(requested, total)
	if page != requested {
		// The requested page was past the end; refetch the last one.
		query.Offset = offset
		if posts, _, err = fs.db.GetPosts(ctx, query); err != nil {
			return nil, err
		}
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return &Page{
		Posts:     posts,
		Number:    page,
		PageCount: pageCount,
		Total:     total,
	}, nil
}
