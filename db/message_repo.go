package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/gorm"
)

// MessageRepository interface
type MessageRepository interface {
	Save(msg *models.Message) error
	ListByConversation(conversationID string) ([]models.Message, error)
	MarkRead(conversationID, viewerID string) ([]models.Message, error)
	CountUnread(conversationID, viewerID string) (int64, error)
}

type messageRepo struct {
	DB *gorm.DB
}

// NewMessageRepo creates a new instance of MessageRepository
func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

func (r *messageRepo) Save(msg *models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if err := r.DB.Create(msg).Error; err != nil {
		return errors.Wrap(err, "save message")
	}
	return nil
}

// ListByConversation returns the full ordered feed: created_at ascending,
// message id as tiebreaker.
func (r *messageRepo) ListByConversation(conversationID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return msgs, nil
}

// MarkRead flips is_read to true on every message addressed to the viewer
// and returns the flipped messages so callers can republish them to live
// feeds. false-to-true only; repeated calls with no new messages return
// nothing. The UPDATE predicate is authoritative; the preceding SELECT only
// captures the rows for the return value.
func (r *messageRepo) MarkRead(conversationID, viewerID string) ([]models.Message, error) {
	var pending []models.Message
	err := r.DB.
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationID, viewerID, false).
		Find(&pending).Error
	if err != nil {
		return nil, errors.Wrap(err, "load unread messages")
	}
	if len(pending) == 0 {
		return nil, nil
	}

	res := r.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationID, viewerID, false).
		Update("is_read", true)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mark messages read")
	}
	for i := range pending {
		pending[i].IsRead = true
	}
	return pending, nil
}

// CountUnread is a full scan by design; no maintained counter. Known
// scaling ceiling for very long conversations.
func (r *messageRepo) CountUnread(conversationID, viewerID string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationID, viewerID, false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count unread messages")
	}
	return count, nil
}
