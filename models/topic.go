package models

type Topic struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:200;not null;uniqueIndex" json:"name"`
}

// TopicWithCount is a topic together with the number of rooms tagged with it
type TopicWithCount struct {
	Topic
	RoomCount int64 `json:"room_count"`
}
