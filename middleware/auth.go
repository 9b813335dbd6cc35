package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	appDb "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/model"
)

const (
	TOKEN_KEY = "authToken"
	USER_KEY  = "user"
)

// TokenVerifier is the slice of *auth.Client the middleware needs;
// tests substitute a fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthConfig struct {
	// SessionNotRequired lets anonymous requests through; the route sees
	// a nil user.
	SessionNotRequired bool
	// ProfileNotRequired lets authenticated requests through before a
	// local profile row exists (profile creation itself needs this).
	ProfileNotRequired bool
}

func Auth(userDB appDb.UserDatabase, verifier TokenVerifier, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader("Authorization")
		if authorizationHeader == "" {
			if config.SessionNotRequired {
				return
			}
			abortUnauthorized(c, "no authorization header")
			return
		}
		if strings.Index(authorizationHeader, "Bearer ") != 0 || len(authorizationHeader) < 8 {
			abortUnauthorized(c, "incorrectly formatted authorization header")
			return
		}
		token, err := verifier.VerifyIDToken(c, authorizationHeader[7:])
		if err != nil {
			if config.SessionNotRequired {
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(TOKEN_KEY, token)

		user, err := userDB.GetUser(c, token.UID)
		if err != nil && !appDb.IsNotFoundErr(err) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "database error",
			})
			c.Abort()
			return
		}
		if user == nil {
			if config.ProfileNotRequired {
				return
			}
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "must have a user profile",
			})
			c.Abort()
			return
		}
		c.Set(USER_KEY, user)
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

func GetToken(c *gin.Context) *auth.Token {
	token, _ := c.Get(TOKEN_KEY)
	return token.(*auth.Token)
}

// GetTokenMaybe returns the verified token or nil for anonymous requests.
func GetTokenMaybe(c *gin.Context) *auth.Token {
	token, exists := c.Get(TOKEN_KEY)
	if !exists {
		return nil
	}
	return token.(*auth.Token)
}

// MustGetUser returns the local user; only call it behind Auth without
// SessionNotRequired/ProfileNotRequired.
func MustGetUser(c *gin.Context) *model.User {
	user, _ := c.Get(USER_KEY)
	return user.(*model.User)
}

// GetUserMaybe returns the local user or nil for anonymous requests.
func GetUserMaybe(c *gin.Context) *model.User {
	user, exists := c.Get(USER_KEY)
	if !exists {
		return nil
	}
	return user.(*model.User)
}
