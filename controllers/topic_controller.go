package controllers

import (
	"net/http"

	"github.com/CUknot/forum_backend/database"
	"github.com/gin-gonic/gin"
)

// Topics lists the topics whose name contains q
func Topics(c *gin.Context) {
	q := c.Query("q")

	topics, err := database.ListTopics(q, 0)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "topics.html", gin.H{"q": q, "topics": topics})
}
