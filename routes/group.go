package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/middleware"
	"github.com/inkwell-app/inkwell-be/util"
)

type groupRoutes struct {
	db db.Database
}

// AddGroupRoutes exposes the administrative group lifecycle. Listing is
// public; creation and deletion are admin only.
func AddGroupRoutes(group *gin.RouterGroup, database db.Database, verifier middleware.TokenVerifier) {
	routes := groupRoutes{db: database}
	groups := group.Group("/groups")
	groups.GET("", util.HandlerWrapper(routes.getGroups, &util.HandlerOpts{}))

	authRequired := middleware.Auth(database, verifier, &middleware.AuthConfig{})
	groups.POST("", authRequired, util.HandlerWrapper(routes.createGroup, &util.HandlerOpts{}))
	groups.DELETE("/:id", authRequired, util.HandlerWrapper(routes.deleteGroup, &util.HandlerOpts{}))
}

func (gr *groupRoutes) getGroups(c *gin.Context) (interface{}, *util.HTTPError) {
	groups, err := gr.db.GetGroups(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return groups, nil
}

type createGroupReq struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (gr *groupRoutes) createGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	if httpErr := requireAdmin(c); httpErr != nil {
		return nil, httpErr
	}
	var req createGroupReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	group, err := gr.db.CreateGroup(c, &db.CreateGroup{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return group, nil
}

func (gr *groupRoutes) deleteGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	if httpErr := requireAdmin(c); httpErr != nil {
		return nil, httpErr
	}
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	if err := gr.db.DeleteGroup(c, id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func requireAdmin(c *gin.Context) *util.HTTPError {
	if !middleware.MustGetUser(c).IsAdmin {
		return &util.HTTPError{Status: http.StatusForbidden, Message: "admin only"}
	}
	return nil
}
