package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/inkwell-be/app"
	"github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/middleware"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/inkwell-app/inkwell-be/util"
)

type userRoutes struct {
	db    db.Database
	feeds *app.FeedService
	subs  *app.SubscriptionService
}

func AddUserRoutes(group *gin.RouterGroup, database db.Database, feeds *app.FeedService, subs *app.SubscriptionService, verifier middleware.TokenVerifier) {
	routes := userRoutes{db: database, feeds: feeds, subs: subs}

	users := group.Group("/users", middleware.Auth(database, verifier, &middleware.AuthConfig{
		ProfileNotRequired: true,
	}))
	users.PUT("", util.HandlerWrapper(routes.createUser, &util.HandlerOpts{}))

	group.GET("/:username", middleware.Auth(database, verifier, &middleware.AuthConfig{
		SessionNotRequired: true,
		ProfileNotRequired: true,
	}), util.HandlerWrapper(routes.getProfile, &util.HandlerOpts{}))
}

type createUserReq struct {
	Username string `json:"username"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := &model.User{
		Id:       middleware.GetToken(c).UID,
		Username: req.Username,
	}
	if err := ur.db.CreateUser(c, user); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return user, nil
}

// getProfile returns the author's page: their posts plus the social
// counters, and whether the viewer already follows them.
func (ur *userRoutes) getProfile(c *gin.Context) (interface{}, *util.HTTPError) {
	author, err := ur.db.GetUserByUsername(c, c.Param("username"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}

	page, err := ur.feeds.AuthorFeed(c, author.Id, util.ParsePage(c))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	followerCount, err := ur.subs.FollowerCount(c, author.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	followingCount, err := ur.subs.FollowingCount(c, author.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}

	isFollowing := false
	if viewer := middleware.GetUserMaybe(c); viewer != nil {
		if isFollowing, err = ur.subs.IsFollowing(c, viewer.Id, author.Id); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
	}

	return gin.H{
		"profile": &model.Profile{
			User:           author,
			PostCount:      page.Total,
			FollowerCount:  followerCount,
			FollowingCount: followingCount,
			IsFollowing:    isFollowing,
		},
		"feed": page,
	}, nil
}
