package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/inkwell-be/app"
	"github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/middleware"
	"github.com/inkwell-app/inkwell-be/util"
)

type feedRoutes struct {
	feeds *app.FeedService
	cache *app.PageCache
}

func AddFeedRoutes(group *gin.RouterGroup, database db.Database, feeds *app.FeedService, cache *app.PageCache, verifier middleware.TokenVerifier) {
	routes := feedRoutes{feeds: feeds, cache: cache}
	group.GET("/", util.HandlerWrapper(routes.globalFeed, &util.HandlerOpts{}))
	group.GET("/group/:slug", util.HandlerWrapper(routes.groupFeed, &util.HandlerOpts{}))

	follow := group.Group("/follow", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	follow.GET("", util.HandlerWrapper(routes.followingFeed, &util.HandlerOpts{}))

	admin := group.Group("/admin", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	admin.POST("/cache/clear", util.HandlerWrapper(routes.clearFeedCache, &util.HandlerOpts{}))
}

func (fr *feedRoutes) globalFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	page, err := fr.feeds.GlobalFeed(c, util.ParsePage(c))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return page, nil
}

func (fr *feedRoutes) groupFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	feedGroup, page, err := fr.feeds.GroupFeed(c, c.Param("slug"), util.ParsePage(c))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"group": feedGroup,
		"feed":  page,
	}, nil
}

func (fr *feedRoutes) followingFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	user := middleware.MustGetUser(c)
	page, err := fr.feeds.FollowingFeed(c, user.Id, util.ParsePage(c))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return page, nil
}

func (fr *feedRoutes) clearFeedCache(c *gin.Context) (interface{}, *util.HTTPError) {
	if !middleware.MustGetUser(c).IsAdmin {
		return nil, &util.HTTPError{Status: http.StatusForbidden, Message: "admin only"}
	}
	if err := fr.cache.Clear(c, app.GlobalFeedCacheKey); err != nil {
		return nil, &util.HTTPError{Status: http.StatusInternalServerError, Message: "cache error"}
	}
	return nil, nil
}
