package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-be/app"
	appDb "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/db/upperdb"
	"github.com/inkwell-app/inkwell-be/db/upperdb/upperdbtest"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/inkwell-app/inkwell-be/routes"
)

// fakeVerifier accepts any bearer token starting with "uid-" and uses it
// as the user id.
type fakeVerifier struct{}

func (fv *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if !strings.HasPrefix(idToken, "uid-") {
		return nil, errors.New("invalid token")
	}
	return &auth.Token{UID: idToken}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *upperdb.UpperDB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := upperdbtest.New(t)
	mr := miniredis.RunT(t)
	cache := app.NewPageCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 20*time.Second)
	feeds := app.NewFeedService(store, cache)
	subs := app.NewSubscriptionService(store)
	verifier := &fakeVerifier{}

	r := gin.New()
	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddFeedRoutes(&r.RouterGroup, store, feeds, cache, verifier)
	routes.AddGroupRoutes(&r.RouterGroup, store, verifier)
	routes.AddPostRoutes(&r.RouterGroup, store, verifier, subs, nil)
	routes.AddSubscriptionRoutes(&r.RouterGroup, store, subs, verifier)
	routes.AddUserRoutes(&r.RouterGroup, store, feeds, subs, verifier)
	return r, store
}

func doRequest(t *testing.T, r *gin.Engine, method, path, uid string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+uid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var res struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.True(t, res.Success)
	return res.Data
}

func seedProfile(t *testing.T, store *upperdb.UpperDB, uid, username string) {
	t.Helper()
	require.NoError(t, store.CreateUser(context.Background(), &model.User{Id: uid, Username: username}))
}

func TestCreatePostRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/new", "", gin.H{"text": "hello"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/new", "bad-token", gin.H{"text": "hello"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostAndGlobalFeed(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")

	w := doRequest(t, r, http.MethodPost, "/new", "uid-1", gin.H{"text": "hello world"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	posts := data["posts"].([]interface{})
	require.Len(t, posts, 1)
	post := posts[0].(map[string]interface{})
	assert.Equal(t, "hello world", post["text"])
}

func TestCreatePostEmptyText(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")

	w := doRequest(t, r, http.MethodPost, "/new", "uid-1", gin.H{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupFeedUnknownSlugIs404(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/group/no-such-group", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownPathIs404(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/leo/12/unknown/deep", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditPostByNonAuthor(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	seedProfile(t, store, "uid-2", "mallory")

	post, err := store.CreatePost(context.Background(), &appDb.CreatePost{AuthorId: "uid-1", Text: "mine"})
	require.NoError(t, err)
	path := fmt.Sprintf("/leo/%v/edit", post.Id)

	w := doRequest(t, r, http.MethodPost, path, "uid-2", gin.H{"text": "stolen"})
	require.Equal(t, http.StatusForbidden, w.Code)
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, fmt.Sprintf("/leo/%v", post.Id), res["location"], "points back at the canonical post")

	fetched, err := store.GetPostById(context.Background(), post.Id)
	require.NoError(t, err)
	assert.Equal(t, "mine", fetched.Text)

	w = doRequest(t, r, http.MethodPost, path, "uid-1", gin.H{"text": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPostViewWrongAuthorIs404(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	seedProfile(t, store, "uid-2", "ada")

	post, err := store.CreatePost(context.Background(), &appDb.CreatePost{AuthorId: "uid-1", Text: "mine"})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/ada/%v", post.Id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/leo/%v", post.Id), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddComment(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	seedProfile(t, store, "uid-2", "ada")

	post, err := store.CreatePost(context.Background(), &appDb.CreatePost{AuthorId: "uid-1", Text: "mine"})
	require.NoError(t, err)
	path := fmt.Sprintf("/leo/%v/comment", post.Id)

	w := doRequest(t, r, http.MethodPost, path, "", gin.H{"text": "nice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, path, "uid-2", gin.H{"text": "nice"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, path, "uid-2", gin.H{"text": strings.Repeat("x", 251)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/leo/%v", post.Id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	comments := data["comments"].([]interface{})
	assert.Len(t, comments, 1)
}

func TestFollowRoutes(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	seedProfile(t, store, "uid-2", "ada")

	// Self-follow is rejected.
	w := doRequest(t, r, http.MethodPost, "/leo/follow", "uid-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/ada/follow", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["isFollowing"])
	assert.Equal(t, float64(1), data["followerCount"])

	// A second follow is a silent no-op.
	w = doRequest(t, r, http.MethodPost, "/ada/follow", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, float64(1), data["followerCount"])

	w = doRequest(t, r, http.MethodPost, "/ada/unfollow", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, false, data["isFollowing"])
	assert.Equal(t, float64(0), data["followerCount"])

	w = doRequest(t, r, http.MethodPost, "/nobody/follow", "uid-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowingFeedRoute(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	seedProfile(t, store, "uid-2", "ada")
	_, err := store.CreatePost(context.Background(), &appDb.CreatePost{AuthorId: "uid-2", Text: "ada writes"})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodGet, "/follow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/follow", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Empty(t, data["posts"])

	w = doRequest(t, r, http.MethodPost, "/ada/follow", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/follow", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	posts := data["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "ada writes", posts[0].(map[string]interface{})["text"])
}

func TestProfileRoute(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	seedProfile(t, store, "uid-2", "ada")
	_, err := store.CreatePost(context.Background(), &appDb.CreatePost{AuthorId: "uid-2", Text: "ada writes"})
	require.NoError(t, err)
	_, err = store.CreateFollow(context.Background(), &model.Follow{UserId: "uid-1", AuthorId: "uid-2"})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodGet, "/ada", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	profile := data["profile"].(map[string]interface{})
	assert.Equal(t, "ada", profile["username"])
	assert.Equal(t, float64(1), profile["postCount"])
	assert.Equal(t, float64(1), profile["followerCount"])
	assert.Equal(t, false, profile["isFollowing"], "anonymous viewer follows nobody")

	w = doRequest(t, r, http.MethodGet, "/ada", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	profile = data["profile"].(map[string]interface{})
	assert.Equal(t, true, profile["isFollowing"])

	w = doRequest(t, r, http.MethodGet, "/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProfileRoute(t *testing.T) {
	r, store := newTestRouter(t)

	w := doRequest(t, r, http.MethodPut, "/users", "uid-1", gin.H{"username": "leo"})
	require.Equal(t, http.StatusOK, w.Code)

	user, err := store.GetUserByUsername(context.Background(), "leo")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.Id)

	// Usernames are unique.
	w = doRequest(t, r, http.MethodPut, "/users", "uid-2", gin.H{"username": "leo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupAdminRoutes(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	require.NoError(t, store.CreateUser(context.Background(), &model.User{Id: "uid-9", Username: "root", IsAdmin: true}))

	w := doRequest(t, r, http.MethodPost, "/groups", "uid-1", gin.H{"title": "Cats", "slug": "cats"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPost, "/groups", "uid-9", gin.H{"title": "Cats", "slug": "cats"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/group/cats", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCacheClearRoute(t *testing.T) {
	r, store := newTestRouter(t)
	seedProfile(t, store, "uid-1", "leo")
	require.NoError(t, store.CreateUser(context.Background(), &model.User{Id: "uid-9", Username: "root", IsAdmin: true}))

	// Warm the cache, then write behind it.
	w := doRequest(t, r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := store.CreatePost(context.Background(), &appDb.CreatePost{AuthorId: "uid-1", Text: "behind cache"})
	require.NoError(t, err)

	w = doRequest(t, r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData(t, w)["posts"], "stale page served within TTL")

	w = doRequest(t, r, http.MethodPost, "/admin/cache/clear", "uid-1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPost, "/admin/cache/clear", "uid-9", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeData(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)
}
