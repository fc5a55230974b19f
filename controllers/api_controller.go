package controllers

import (
	"net/http"
	"strconv"

	"github.com/CUknot/forum_backend/database"
	"github.com/gin-gonic/gin"
)

// Routes is the list GetRoutes advertises
var Routes = []string{
	"GET /api",
	"GET /api/rooms",
	"GET /api/rooms/:id",
	"POST /api/register",
	"POST /api/login",
	"POST /api/rooms/:id/messages",
	"DELETE /api/messages/:id",
}

// GetRoutes godoc
// @Summary List API routes
// @Description Returns every endpoint of the JSON API
// @Tags api
// @Produce json
// @Success 200 {array} string "Routes"
// @Router /api [get]
func GetRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, Routes)
}

// Health godoc
// @Summary Health check
// @Description Reports whether the server can reach its database
// @Tags api
// @Produce json
// @Success 200 {object} map[string]string "ok"
// @Failure 503 {object} map[string]string "Database unavailable"
// @Router /healthz [get]
func Health(c *gin.Context) {
	if err := database.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseAPIID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
