package models

import (
	"time"
)

// summaryLength is how much of the body String shows
const summaryLength = 50

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	Room      *Room     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String returns the first characters of the body
func (m Message) String() string {
	runes := []rune(m.Body)
	if len(runes) <= summaryLength {
		return m.Body
	}
	return string(runes[:summaryLength])
}

// IsAuthoredBy reports whether userID wrote the message
func (m *Message) IsAuthoredBy(userID uint) bool {
	return m.UserID == userID
}
