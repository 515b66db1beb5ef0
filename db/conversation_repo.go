package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository interface
type ConversationRepository interface {
	GetOrCreate(conv *models.Conversation) (*models.Conversation, error)
	Get(id string) (*models.Conversation, error)
	ListByUser(userID string) ([]models.Conversation, error)
	UpdateLastMessage(id, preview string, at time.Time, senderID string) error
}

type conversationRepo struct {
	DB *gorm.DB
}

// NewConversationRepo creates a new instance of ConversationRepository
func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

// GetOrCreate inserts the record if absent and returns whichever record
// exists afterwards. The conditional insert makes first contact idempotent:
// when both participants race, the second insert is a no-op and both callers
// observe the same row.
func (r *conversationRepo) GetOrCreate(conv *models.Conversation) (*models.Conversation, error) {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(conv).Error
	if err != nil {
		return nil, errors.Wrap(err, "create conversation")
	}

	var existing models.Conversation
	if err := r.DB.First(&existing, "id = ?", conv.ID).Error; err != nil {
		return nil, errors.Wrap(err, "fetch conversation after create")
	}
	return &existing, nil
}

func (r *conversationRepo) Get(id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.DB.First(&conv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByUser returns every conversation the user participates in, newest
// activity first. If the ordered query fails (e.g. a missing index on a
// fresh deployment), it degrades to an unordered scan sorted client-side
// instead of failing the read.
func (r *conversationRepo) ListByUser(userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.DB.
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&convs).Error
	if err == nil {
		return convs, nil
	}

	logger.Get().Warn().Err(err).Str("user_id", userID).
		Msg("ordered conversation query failed, falling back to client-side sort")

	convs = convs[:0]
	if err := r.DB.
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Find(&convs).Error; err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	sortConversations(convs)
	return convs, nil
}

func (r *conversationRepo) UpdateLastMessage(id, preview string, at time.Time, senderID string) error {
	res := r.DB.Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message":           preview,
			"last_message_at":        at,
			"last_message_sender_id": senderID,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update conversation preview")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// sortConversations mirrors the database ordering: last_message_at
// descending with NULL (no messages yet) treated as oldest.
func sortConversations(convs []models.Conversation) {
	for i := 1; i < len(convs); i++ {
		for j := i; j > 0 && laterActivity(&convs[j], &convs[j-1]); j-- {
			convs[j], convs[j-1] = convs[j-1], convs[j]
		}
	}
}

func laterActivity(a, b *models.Conversation) bool {
	switch {
	case a.LastMessageAt == nil:
		return false
	case b.LastMessageAt == nil:
		return true
	default:
		return a.LastMessageAt.After(*b.LastMessageAt)
	}
}
