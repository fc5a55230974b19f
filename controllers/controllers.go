package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CUknot/forum_backend/config"
	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/logging"
	"github.com/CUknot/forum_backend/middleware"
	"github.com/CUknot/forum_backend/utils"
	"github.com/gin-gonic/gin"
)

// NotAllowed is the body returned when the requester does not own the row
const NotAllowed = "You are not allowed here!"

var settings = &config.Config{
	JWTSecret: "your-secret-key",
	TokenTTL:  7 * 24 * time.Hour,
	MediaDir:  "static/images",
}

// Init installs the configuration the handlers read and registers the form validators
func Init(cfg *config.Config) error {
	settings = cfg
	return registerValidators()
}

// render adds the values every page needs and writes the template
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["currentUser"] = middleware.CurrentUser(c)
	data["flashes"] = popFlashes(c)
	if _, ok := data["q"]; !ok {
		data["q"] = ""
	}
	c.HTML(status, name, data)
}

// parseID reads the :id path parameter, answering 404 when it is not a number
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Not found")
		return 0, false
	}
	return uint(id), true
}

// lookupFailed answers a failed lookup with 404 or 500
func lookupFailed(c *gin.Context, err error, what string) {
	if errors.Is(err, database.ErrNotFound) {
		c.String(http.StatusNotFound, what+" not found")
		return
	}
	serverError(c, err)
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.String(http.StatusInternalServerError, "Something went wrong")
}

func notAllowed(c *gin.Context) {
	c.String(http.StatusForbidden, NotAllowed)
}

// startSession issues a token for userID and stores it in the session cookie
func startSession(c *gin.Context, userID uint) error {
	token, err := utils.GenerateToken(userID, settings.JWTSecret, settings.TokenTTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(settings.TokenTTL.Seconds()), "/", "", settings.CookieSecure, true)
	return nil
}

func endSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", settings.CookieSecure, true)
}

// safeNext keeps redirects on this site
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}
