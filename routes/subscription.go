package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/inkwell-be/app"
	"github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/middleware"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/inkwell-app/inkwell-be/util"
)

type subscriptionRoutes struct {
	db   db.Database
	subs *app.SubscriptionService
}

func AddSubscriptionRoutes(group *gin.RouterGroup, database db.Database, subs *app.SubscriptionService, verifier middleware.TokenVerifier) {
	routes := subscriptionRoutes{db: database, subs: subs}
	authRequired := middleware.Auth(database, verifier, &middleware.AuthConfig{})
	group.POST("/:username/follow", authRequired, util.HandlerWrapper(routes.follow, &util.HandlerOpts{}))
	group.POST("/:username/unfollow", authRequired, util.HandlerWrapper(routes.unfollow, &util.HandlerOpts{}))
}

// follow creates the edge viewer -> author. Following an already followed
// author is success-without-change, never an error.
func (sr *subscriptionRoutes) follow(c *gin.Context) (interface{}, *util.HTTPError) {
	author, httpErr := sr.lookupAuthor(c)
	if httpErr != nil {
		return nil, httpErr
	}
	if err := sr.subs.Follow(c, middleware.MustGetUser(c).Id, author.Id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return sr.subscriptionState(c, author)
}

func (sr *subscriptionRoutes) unfollow(c *gin.Context) (interface{}, *util.HTTPError) {
	author, httpErr := sr.lookupAuthor(c)
	if httpErr != nil {
		return nil, httpErr
	}
	if err := sr.subs.Unfollow(c, middleware.MustGetUser(c).Id, author.Id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return sr.subscriptionState(c, author)
}

func (sr *subscriptionRoutes) lookupAuthor(c *gin.Context) (*model.User, *util.HTTPError) {
	author, err := sr.db.GetUserByUsername(c, c.Param("username"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return author, nil
}

func (sr *subscriptionRoutes) subscriptionState(c *gin.Context, author *model.User) (interface{}, *util.HTTPError) {
	isFollowing, err := sr.subs.IsFollowing(c, middleware.MustGetUser(c).Id, author.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	followerCount, err := sr.subs.FollowerCount(c, author.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"isFollowing":   isFollowing,
		"followerCount": followerCount,
	}, nil
}
