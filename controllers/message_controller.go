package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/middleware"
	"github.com/CUknot/forum_backend/models"
	"github.com/CUknot/forum_backend/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Activity lists every message, newest first
func Activity(c *gin.Context) {
	roomMessages, err := database.AllMessages()
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "activity.html", gin.H{"roomMessages": roomMessages})
}

// ShowDeleteMessage asks the author to confirm the deletion
func ShowDeleteMessage(c *gin.Context) {
	message, ok := authoredMessage(c)
	if !ok {
		return
	}

	render(c, http.StatusOK, "delete.html", gin.H{
		"obj":    message.String(),
		"action": fmt.Sprintf("/delete-message/%d", message.ID),
	})
}

// DeleteMessage removes the message
func DeleteMessage(c *gin.Context) {
	message, ok := authoredMessage(c)
	if !ok {
		return
	}

	if err := database.DeleteMessage(message.ID); err != nil {
		lookupFailed(c, err, "Message")
		return
	}

	broadcastDeleted(message)
	c.Redirect(http.StatusFound, "/")
}

// authoredMessage loads the :id message and checks that the requester wrote it
func authoredMessage(c *gin.Context) (*models.Message, bool) {
	messageID, ok := parseID(c)
	if !ok {
		return nil, false
	}

	message, err := database.FindMessage(messageID)
	if err != nil {
		lookupFailed(c, err, "Message")
		return nil, false
	}

	if !message.IsAuthoredBy(middleware.CurrentUserID(c)) {
		notAllowed(c)
		return nil, false
	}
	return message, true
}

func broadcastDeleted(message *models.Message) {
	websocket.BroadcastToRoom(message.RoomID, websocket.EventMessageDeleted, gin.H{
		"id":      message.ID,
		"room_id": message.RoomID,
	})
}

// CreateMessage godoc
// @Summary Post a message to a room
// @Description Creates a message and records the author as a room participant
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param message body MessageForm true "Message"
// @Success 201 {object} map[string]interface{} "Message sent successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms/{id}/messages [post]
func CreateMessage(c *gin.Context) {
	roomID, err := parseAPIID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	body, err := bindMessage(c, binding.JSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": fieldErrors(err)})
		return
	}

	if _, err := database.FindRoom(roomID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		return
	}

	message, err := database.CreateMessage(middleware.CurrentUserID(c), roomID, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	// Broadcast message to room
	websocket.BroadcastToRoom(roomID, websocket.EventMessageCreated, message)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    message,
	})
}

// RemoveMessage godoc
// @Summary Delete a message
// @Description Deletes a message written by the authenticated user
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} map[string]string "Message deleted successfully"
// @Failure 400 {object} map[string]string "Invalid message ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Message not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/messages/{id} [delete]
func RemoveMessage(c *gin.Context) {
	messageID, err := parseAPIID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	message, err := database.FindMessage(messageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch message"})
		return
	}

	if !message.IsAuthoredBy(middleware.CurrentUserID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": NotAllowed})
		return
	}

	if err := database.DeleteMessage(message.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	broadcastDeleted(message)
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
}
