// Package templates embeds the HTML pages rendered by the controllers.
package templates

import (
	"embed"
	"html/template"
	"time"

	"github.com/CUknot/forum_backend/models"
	"github.com/dustin/go-humanize"
)

//go:embed *.html
var files embed.FS

// Load parses every embedded page. Each page is addressed by its file name.
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "*.html")
}

// Funcs returns the helpers available inside the pages
func Funcs() template.FuncMap {
	return template.FuncMap{
		"avatarURL": AvatarURL,
		"timesince": TimeSince,
	}
}

// AvatarURL returns the public path of an avatar file name
func AvatarURL(avatar string) string {
	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	return "/images/" + avatar
}

// TimeSince renders the age of t the way the activity feed shows it
func TimeSince(t time.Time) string {
	return humanize.Time(t)
}
