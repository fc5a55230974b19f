package database

import (
	"strings"

	"github.com/CUknot/forum_backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const newestFirst = "updated_at DESC, created_at DESC"

// containsPattern turns q into a LIKE pattern matching any value that
// contains q case-insensitively. Wildcards in q are matched literally.
func containsPattern(q string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(q))
	return "%" + escaped + "%"
}

// SearchRooms returns the rooms whose topic name, name or description contains q
func SearchRooms(q string) ([]models.Room, error) {
	pattern := containsPattern(q)

	var rooms []models.Room
	err := DB.Preload("Host").Preload("Topic").Preload("Participants").
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR topic_id IN (?)`,
			pattern, pattern,
			DB.Model(&models.Topic{}).Select("id").Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)).
		Order(newestFirst).
		Find(&rooms).Error
	return rooms, err
}

// FindRoom loads one room with its host, topic and participants
func FindRoom(id uint) (*models.Room, error) {
	var room models.Room
	if err := DB.Preload("Host").Preload("Topic").Preload("Participants").First(&room, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

// ListTopics returns topics whose name contains q with their room counts.
// A limit of zero or less returns every match.
func ListTopics(q string, limit int) ([]models.TopicWithCount, error) {
	query := DB.Model(&models.Topic{}).
		Select("topics.id, topics.name, COUNT(rooms.id) AS room_count").
		Joins("LEFT JOIN rooms ON rooms.topic_id = topics.id").
		Where(`LOWER(topics.name) LIKE ? ESCAPE '\'`, containsPattern(q)).
		Group("topics.id, topics.name").
		Order("topics.id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var topics []models.TopicWithCount
	err := query.Scan(&topics).Error
	return topics, err
}

// CountTopics returns the total number of topics
func CountTopics() (int64, error) {
	var count int64
	err := DB.Model(&models.Topic{}).Count(&count).Error
	return count, err
}

// GetOrCreateTopic returns the topic called name, creating it when missing.
// A blank name means the room has no topic and yields nil.
func GetOrCreateTopic(tx *gorm.DB, name string) (*models.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	topic := models.Topic{Name: name}
	if err := tx.Where(models.Topic{Name: name}).FirstOrCreate(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// CreateRoom inserts a room hosted by hostID, tagging it with topicName
func CreateRoom(hostID uint, topicName, name, description string) (*models.Room, error) {
	room := models.Room{
		HostID:      &hostID,
		Name:        name,
		Description: description,
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		topic, err := GetOrCreateTopic(tx, topicName)
		if err != nil {
			return err
		}
		if topic != nil {
			room.TopicID = &topic.ID
			room.Topic = topic
		}
		return tx.Omit(clause.Associations).Create(&room).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom rewrites the editable fields of room
func UpdateRoom(room *models.Room, topicName, name, description string) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		topic, err := GetOrCreateTopic(tx, topicName)
		if err != nil {
			return err
		}

		room.Name = name
		room.Description = description
		room.Topic = topic
		room.TopicID = nil
		if topic != nil {
			room.TopicID = &topic.ID
		}

		return tx.Model(room).Updates(map[string]interface{}{
			"name":        room.Name,
			"description": room.Description,
			"topic_id":    room.TopicID,
		}).Error
	})
}

// DeleteRoom removes a room together with its messages and participants
func DeleteRoom(id uint) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&models.RoomParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Room{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// RoomMessages returns the messages posted in a room, newest first
func RoomMessages(roomID uint) ([]models.Message, error) {
	var messages []models.Message
	err := DB.Preload("User").Where("room_id = ?", roomID).Order(newestFirst).Find(&messages).Error
	return messages, err
}

// MessagesByTopic returns the messages whose room's topic name contains q.
// An empty q returns every message.
func MessagesByTopic(q string) ([]models.Message, error) {
	query := DB.Preload("User").Preload("Room").Order(newestFirst)
	if q != "" {
		query = query.Where("room_id IN (?)",
			DB.Table("rooms").Select("rooms.id").
				Joins("JOIN topics ON topics.id = rooms.topic_id").
				Where(`LOWER(topics.name) LIKE ? ESCAPE '\'`, containsPattern(q)))
	}

	var messages []models.Message
	err := query.Find(&messages).Error
	return messages, err
}

// CreateMessage posts body in a room and records the author as a participant
func CreateMessage(userID, roomID uint, body string) (*models.Message, error) {
	message := models.Message{
		Body:   body,
		RoomID: roomID,
		UserID: userID,
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&message).Error; err != nil {
			return err
		}
		participant := models.RoomParticipant{RoomID: roomID, UserID: userID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error
	})
	if err != nil {
		return nil, err
	}

	// Load user data for the message
	if err := DB.Preload("User").First(&message, message.ID).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// FindMessage loads one message with its author
func FindMessage(id uint) (*models.Message, error) {
	var message models.Message
	if err := DB.Preload("User").First(&message, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}

// DeleteMessage removes a single message
func DeleteMessage(id uint) error {
	result := DB.Delete(&models.Message{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindUser loads a user by primary key
func FindUser(id uint) (*models.User, error) {
	var user models.User
	if err := DB.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUserByEmail looks a user up by email, ignoring case
func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := DB.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UsernameTaken reports whether another user than exceptID holds username
func UsernameTaken(username string, exceptID uint) (bool, error) {
	return taken("username", strings.ToLower(username), exceptID)
}

// EmailTaken reports whether another user than exceptID holds email
func EmailTaken(email string, exceptID uint) (bool, error) {
	return taken("email", strings.ToLower(email), exceptID)
}

func taken(column, value string, exceptID uint) (bool, error) {
	var count int64
	err := DB.Model(&models.User{}).Where(column+" = ? AND id <> ?", value, exceptID).Count(&count).Error
	return count > 0, err
}

// HostedRooms returns the rooms a user hosts
func HostedRooms(userID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := DB.Preload("Host").Preload("Topic").Preload("Participants").
		Where("host_id = ?", userID).Order(newestFirst).Find(&rooms).Error
	return rooms, err
}

// UserMessages returns every message a user wrote
func UserMessages(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := DB.Preload("User").Preload("Room").Where("user_id = ?", userID).Order(newestFirst).Find(&messages).Error
	return messages, err
}

// AllMessages returns every message, newest first
func AllMessages() ([]models.Message, error) {
	return MessagesByTopic("")
}
