package models

import (
	"time"
)

type Room struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	HostID       *uint     `json:"host_id"`
	Host         *User     `gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL" json:"host,omitempty"`
	TopicID      *uint     `json:"topic_id"`
	Topic        *Topic    `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"topic,omitempty"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Participants []User    `gorm:"many2many:room_participants;" json:"participants,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsHostedBy reports whether userID owns the room
func (r *Room) IsHostedBy(userID uint) bool {
	return r.HostID != nil && *r.HostID == userID
}

// TopicName returns the room's topic name, or "" when it has none
func (r *Room) TopicName() string {
	if r.Topic == nil {
		return ""
	}
	return r.Topic.Name
}

// RoomParticipant is the join row between a room and a user who posted in it
type RoomParticipant struct {
	RoomID    uint      `gorm:"primaryKey" json:"room_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
