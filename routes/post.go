package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/inkwell-be/app"
	"github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/middleware"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/inkwell-app/inkwell-be/services"
	"github.com/inkwell-app/inkwell-be/util"
)

type postRoutes struct {
	db     db.Database
	subs   *app.SubscriptionService
	bucket *services.StorageBucket
}

func AddPostRoutes(group *gin.RouterGroup, database db.Database, verifier middleware.TokenVerifier, subs *app.SubscriptionService, bucket *services.StorageBucket) {
	routes := postRoutes{db: database, subs: subs, bucket: bucket}
	authRequired := middleware.Auth(database, verifier, &middleware.AuthConfig{})

	compose := group.Group("/new", authRequired)
	compose.GET("", util.HandlerWrapper(routes.getComposeContext, &util.HandlerOpts{}))
	compose.POST("", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))

	posts := group.Group("/:username/:post_id")
	posts.GET("", util.HandlerWrapper(routes.getPost, &util.HandlerOpts{}))
	posts.GET("/edit", authRequired, util.HandlerWrapper(routes.getPostForEdit, &util.HandlerOpts{}))
	posts.POST("/edit", authRequired, util.HandlerWrapper(routes.editPost, &util.HandlerOpts{}))
	posts.POST("/comment", authRequired, util.HandlerWrapper(routes.addComment, &util.HandlerOpts{}))
	posts.DELETE("", authRequired, util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
}

// getComposeContext returns what the compose form needs: the groups a
// post may be published into and, when image storage is configured, a
// preallocated blob name the client may upload an image to.
func (pr *postRoutes) getComposeContext(c *gin.Context) (interface{}, *util.HTTPError) {
	groups, err := pr.db.GetGroups(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	res := gin.H{
		"groups": groups,
	}
	if pr.bucket != nil {
		res["uploadBlobName"] = services.GeneratePostBlobName()
	}
	return res, nil
}

type createPostReq struct {
	Text          string `json:"text"`
	GroupId       *int64 `json:"groupId"`
	ImageBlobName string `json:"imageBlobName"`
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if httpErr := pr.checkImageBlob(c, req.ImageBlobName); httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.CreatePost(c, &db.CreatePost{
		AuthorId:      middleware.MustGetUser(c).Id,
		Text:          util.XSSSanitize(req.Text),
		GroupId:       req.GroupId,
		ImageBlobName: req.ImageBlobName,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return post, nil
}

func (pr *postRoutes) getPost(c *gin.Context) (interface{}, *util.HTTPError) {
	post, httpErr := pr.lookupPost(c)
	if httpErr != nil {
		return nil, httpErr
	}
	comments, err := pr.db.GetCommentsForPost(c, post.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	followerCount, err := pr.subs.FollowerCount(c, post.Author.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	followingCount, err := pr.subs.FollowingCount(c, post.Author.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"post":           post,
		"comments":       comments,
		"followerCount":  followerCount,
		"followingCount": followingCount,
	}, nil
}

func (pr *postRoutes) getPostForEdit(c *gin.Context) (interface{}, *util.HTTPError) {
	post, httpErr := pr.lookupPost(c)
	if httpErr != nil {
		return nil, httpErr
	}
	if !post.CanEdit(middleware.MustGetUser(c)) {
		return nil, pr.notAuthorErr(post)
	}
	groups, err := pr.db.GetGroups(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"post":   post,
		"groups": groups,
	}, nil
}

type editPostReq struct {
	Text          string `json:"text"`
	GroupId       *int64 `json:"groupId"`
	ImageBlobName string `json:"imageBlobName"`
}

func (pr *postRoutes) editPost(c *gin.Context) (interface{}, *util.HTTPError) {
	post, httpErr := pr.lookupPost(c)
	if httpErr != nil {
		return nil, httpErr
	}
	var req editPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if httpErr := pr.checkImageBlob(c, req.ImageBlobName); httpErr != nil {
		return nil, httpErr
	}
	updated, err := pr.db.UpdatePost(c, post.Id, middleware.MustGetUser(c).Id, &db.UpdatePost{
		Text:          util.XSSSanitize(req.Text),
		GroupId:       req.GroupId,
		ImageBlobName: req.ImageBlobName,
	})
	if err != nil {
		if db.IsAuthorizationErr(err) {
			return nil, pr.notAuthorErr(post)
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return updated, nil
}

type addCommentReq struct {
	Text string `json:"text"`
}

func (pr *postRoutes) addComment(c *gin.Context) (interface{}, *util.HTTPError) {
	post, httpErr := pr.lookupPost(c)
	if httpErr != nil {
		return nil, httpErr
	}
	var req addCommentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	comment, err := pr.db.CreateComment(c, &db.CreateComment{
		PostId:   post.Id,
		AuthorId: middleware.MustGetUser(c).Id,
		Text:     util.XSSSanitize(req.Text),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return comment, nil
}

func (pr *postRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	post, httpErr := pr.lookupPost(c)
	if httpErr != nil {
		return nil, httpErr
	}
	if err := pr.db.DeletePost(c, post.Id, middleware.MustGetUser(c).Id); err != nil {
		if db.IsAuthorizationErr(err) {
			return nil, pr.notAuthorErr(post)
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

// lookupPost resolves /:username/:post_id. A post id that exists under a
// different author is still a 404: the username is part of the canonical
// address.
func (pr *postRoutes) lookupPost(c *gin.Context) (*model.Post, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("post_id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.GetPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post.Author.Username != c.Param("username") {
		return nil, &util.HTTPError{Status: http.StatusNotFound, Message: "post not found"}
	}
	return post, nil
}

func (pr *postRoutes) notAuthorErr(post *model.Post) *util.HTTPError {
	return &util.HTTPError{
		Status:   http.StatusForbidden,
		Message:  "only the author may edit a post",
		Location: fmt.Sprintf("/%v/%v", post.Author.Username, post.Id),
	}
}

func (pr *postRoutes) checkImageBlob(c *gin.Context, blobName string) *util.HTTPError {
	if blobName == "" || pr.bucket == nil {
		return nil
	}
	exists, err := pr.bucket.Exists(c, blobName)
	if err != nil {
		return &util.HTTPError{Status: http.StatusInternalServerError, Message: "storage error"}
	}
	if !exists {
		return &util.HTTPError{Status: http.StatusBadRequest, Message: "image blob does not exist"}
	}
	return nil
}
