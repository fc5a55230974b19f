package controllers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	flashKey    = "flashes"
)

// addFlash queues a message for the next rendered page, surviving one redirect
func addFlash(c *gin.Context, message string) {
	flashes := append(c.GetStringSlice(flashKey), message)
	c.Set(flashKey, flashes)

	encoded, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.URLEncoding.EncodeToString(encoded), 0, "/", "", settings.CookieSecure, true)
}

// popFlashes returns the messages carried over from the previous request
// followed by the ones queued during this one, and clears them
func popFlashes(c *gin.Context) []string {
	var flashes []string
	if raw, err := c.Cookie(flashCookie); err == nil && raw != "" {
		if decoded, err := base64.URLEncoding.DecodeString(raw); err == nil {
			_ = json.Unmarshal(decoded, &flashes)
		}
		c.SetCookie(flashCookie, "", -1, "/", "", settings.CookieSecure, true)
	}

	if pending := c.GetStringSlice(flashKey); len(pending) > 0 {
		flashes = append(flashes, pending...)
		c.Set(flashKey, []string(nil))
		c.SetCookie(flashCookie, "", -1, "/", "", settings.CookieSecure, true)
	}
	return flashes
}
