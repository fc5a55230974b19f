package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/models"
	"github.com/CUknot/forum_backend/utils"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie holds the browser session token
	SessionCookie = "session"

	userKey   = "user"
	userIDKey = "userID"
)

// Authenticate attaches the requester to the context when the request
// carries a valid bearer token or session cookie. Anonymous requests pass through.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString, _ = c.Cookie(SessionCookie)
		}
		if tokenString != "" {
			if user := loadUser(tokenString, secret); user != nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// JWTAuth rejects API requests without a valid bearer token
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := bearerToken(header)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		user := loadUser(tokenString, secret)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// LoginRequired redirects anonymous visitors to loginPath, remembering where they were going
func LoginRequired(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated requester, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// CurrentUserID returns the authenticated requester's id, or 0
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID)
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func loadUser(tokenString, secret string) *models.User {
	userID, err := utils.ParseToken(tokenString, secret)
	if err != nil {
		return nil
	}
	user, err := database.FindUser(userID)
	if err != nil {
		return nil
	}
	return user
}
