package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/logging"
	"github.com/CUknot/forum_backend/middleware"
	"github.com/CUknot/forum_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var avatarExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UserProfile renders a user's hosted rooms and messages
func UserProfile(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}

	user, err := database.FindUser(userID)
	if err != nil {
		lookupFailed(c, err, "User")
		return
	}

	rooms, err := database.HostedRooms(user.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	roomMessages, err := database.UserMessages(user.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	topics, err := database.ListTopics("", 0)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "profile.html", gin.H{
		"user":         user,
		"rooms":        rooms,
		"roomMessages": roomMessages,
		"topics":       topics,
	})
}

// ShowUpdateUser renders the profile form for the requester
func ShowUpdateUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	form := UserForm{Name: user.Name, Username: user.Username, Email: user.Email, Bio: user.Bio}
	render(c, http.StatusOK, "update_user.html", gin.H{"form": form, "errors": map[string]string{}})
}

// UpdateUser saves the profile form and an optional new avatar
func UpdateUser(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form UserForm
	errs := fieldErrors(c.ShouldBind(&form))
	if err := checkUnique(errs, form.Username, form.Email, user.ID); err != nil {
		serverError(c, err)
		return
	}

	file, err := c.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		file = nil
	case err != nil:
		errs["avatar"] = "Upload a valid image."
	case !avatarExtensions[strings.ToLower(filepath.Ext(file.Filename))]:
		errs["avatar"] = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	}

	if len(errs) > 0 {
		render(c, http.StatusOK, "update_user.html", gin.H{"form": form, "errors": errs})
		return
	}

	updates := map[string]interface{}{
		"name":     form.Name,
		"username": strings.ToLower(form.Username),
		"email":    strings.ToLower(form.Email),
		"bio":      form.Bio,
	}
	if file != nil {
		avatar, err := saveAvatar(c, file)
		if err != nil {
			serverError(c, err)
			return
		}
		updates["avatar"] = avatar
	}

	if err := database.DB.Model(&models.User{ID: user.ID}).Updates(updates).Error; err != nil {
		if avatar, ok := updates["avatar"].(string); ok {
			removeAvatar(avatar)
		}
		serverError(c, err)
		return
	}
	if _, replaced := updates["avatar"]; replaced {
		removeAvatar(user.Avatar)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%d", user.ID))
}

// saveAvatar stores an uploaded picture under a fresh name in the media directory
func saveAvatar(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(settings.MediaDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(settings.MediaDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// removeAvatar deletes an uploaded picture. The shared default is kept.
func removeAvatar(name string) {
	if name == "" || name == models.DefaultAvatar || name != filepath.Base(name) {
		return
	}
	if err := os.Remove(filepath.Join(settings.MediaDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Str("avatar", name).Msg("failed to remove avatar")
	}
}
