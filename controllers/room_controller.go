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

// homeTopicLimit is how many topics the home sidebar lists
const homeTopicLimit = 5

// Home lists the rooms matching q with the topic sidebar and the activity feed
func Home(c *gin.Context) {
	q := c.Query("q")

	rooms, err := database.SearchRooms(q)
	if err != nil {
		serverError(c, err)
		return
	}

	topics, err := database.ListTopics("", homeTopicLimit)
	if err != nil {
		serverError(c, err)
		return
	}

	topicCount, err := database.CountTopics()
	if err != nil {
		serverError(c, err)
		return
	}

	roomMessages, err := database.MessagesByTopic(q)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "home.html", gin.H{
		"q":            q,
		"rooms":        rooms,
		"roomCount":    len(rooms),
		"topics":       topics,
		"topicCount":   topicCount,
		"roomMessages": roomMessages,
	})
}

// ShowRoom renders a room with its conversation and participants
func ShowRoom(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	room, err := database.FindRoom(roomID)
	if err != nil {
		lookupFailed(c, err, "Room")
		return
	}

	roomMessages, err := database.RoomMessages(room.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "room.html", gin.H{
		"room":         room,
		"roomMessages": roomMessages,
		"participants": room.Participants,
	})
}

// PostMessage adds the submitted message to a room and joins its author to the participants
func PostMessage(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	room, err := database.FindRoom(roomID)
	if err != nil {
		lookupFailed(c, err, "Room")
		return
	}

	body, err := bindMessage(c, binding.Default(c.Request.Method, c.ContentType()))
	if err != nil {
		addFlash(c, "Message cannot be empty")
		c.Redirect(http.StatusFound, roomPath(room.ID))
		return
	}

	message, err := database.CreateMessage(middleware.CurrentUserID(c), room.ID, body)
	if err != nil {
		serverError(c, err)
		return
	}

	websocket.BroadcastToRoom(room.ID, websocket.EventMessageCreated, message)
	c.Redirect(http.StatusFound, roomPath(room.ID))
}

// ShowCreateRoom renders an empty room form
func ShowCreateRoom(c *gin.Context) {
	renderRoomForm(c, http.StatusOK, nil, RoomForm{}, map[string]string{})
}

// CreateRoom creates a room hosted by the requester
func CreateRoom(c *gin.Context) {
	var form RoomForm
	if err := c.ShouldBind(&form); err != nil {
		renderRoomForm(c, http.StatusOK, nil, form, fieldErrors(err))
		return
	}

	if _, err := database.CreateRoom(middleware.CurrentUserID(c), form.Topic, form.Name, form.Description); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ShowUpdateRoom renders the room form prefilled with the room
func ShowUpdateRoom(c *gin.Context) {
	room, ok := hostedRoom(c)
	if !ok {
		return
	}

	form := RoomForm{Topic: room.TopicName(), Name: room.Name, Description: room.Description}
	renderRoomForm(c, http.StatusOK, room, form, map[string]string{})
}

// UpdateRoom saves the room form
func UpdateRoom(c *gin.Context) {
	room, ok := hostedRoom(c)
	if !ok {
		return
	}

	var form RoomForm
	if err := c.ShouldBind(&form); err != nil {
		renderRoomForm(c, http.StatusOK, room, form, fieldErrors(err))
		return
	}

	if err := database.UpdateRoom(room, form.Topic, form.Name, form.Description); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ShowDeleteRoom asks the host to confirm the deletion
func ShowDeleteRoom(c *gin.Context) {
	room, ok := hostedRoom(c)
	if !ok {
		return
	}

	render(c, http.StatusOK, "delete.html", gin.H{
		"obj":    room.Name,
		"action": fmt.Sprintf("/delete-room/%d", room.ID),
	})
}

// DeleteRoom removes the room with its messages
func DeleteRoom(c *gin.Context) {
	room, ok := hostedRoom(c)
	if !ok {
		return
	}

	if err := database.DeleteRoom(room.ID); err != nil {
		lookupFailed(c, err, "Room")
		return
	}

	websocket.BroadcastToRoom(room.ID, websocket.EventRoomDeleted, gin.H{"room_id": room.ID})
	c.Redirect(http.StatusFound, "/")
}

// hostedRoom loads the :id room and checks that the requester hosts it
func hostedRoom(c *gin.Context) (*models.Room, bool) {
	roomID, ok := parseID(c)
	if !ok {
		return nil, false
	}

	room, err := database.FindRoom(roomID)
	if err != nil {
		lookupFailed(c, err, "Room")
		return nil, false
	}

	if !room.IsHostedBy(middleware.CurrentUserID(c)) {
		notAllowed(c)
		return nil, false
	}
	return room, true
}

func renderRoomForm(c *gin.Context, status int, room *models.Room, form RoomForm, errs map[string]string) {
	topics, err := database.ListTopics("", 0)
	if err != nil {
		serverError(c, err)
		return
	}

	data := gin.H{
		"form":   form,
		"errors": errs,
		"topics": topics,
		"action": "/create-room",
	}
	if room != nil {
		data["room"] = room
		data["action"] = fmt.Sprintf("/update-room/%d", room.ID)
	}
	render(c, status, "room_form.html", data)
}

func roomPath(id uint) string {
	return fmt.Sprintf("/room/%d", id)
}

// GetRooms godoc
// @Summary List rooms
// @Description Returns every room whose topic, name or description contains q
// @Tags rooms
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} models.Room "List of rooms"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms [get]
func GetRooms(c *gin.Context) {
	rooms, err := database.SearchRooms(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary Get details of a specific room
// @Description Returns the room with its host, topic and participants
// @Tags rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} models.Room "Room details"
// @Failure 400 {object} map[string]string "Invalid room ID"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms/{id} [get]
func GetRoom(c *gin.Context) {
	roomID, err := parseAPIID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	room, err := database.FindRoom(roomID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		return
	}

	c.JSON(http.StatusOK, room)
}
