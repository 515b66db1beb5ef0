package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"github.com/sportlinkhq/sportlink/db"
	apiError "github.com/sportlinkhq/sportlink/errors"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/gorm"
)

// mediaPreview stands in for the text preview when a message carries only
// an attachment.
const mediaPreview = "Sent an attachment"

// MessageService interface
type MessageService interface {
	Send(conversationID, senderID string, req *models.SendMessageRequest) (*models.Message, *apiError.Error)
	MarkRead(conversationID, viewerID string) *apiError.Error
	History(conversationID, viewerID string) ([]models.Message, *apiError.Error)
	UnreadCount(conversationID, viewerID string) (int64, *apiError.Error)
}

// messageService struct
type messageService struct {
	convRepo  db.ConversationRepository
	msgRepo   db.MessageRepository
	publisher RealtimePublisher
}

// NewMessageService instantiates a messageService
func NewMessageService(convRepo db.ConversationRepository, msgRepo db.MessageRepository, publisher RealtimePublisher) MessageService {
	return &messageService{
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		publisher: publisher,
	}
}

// Send appends a message and then updates the parent conversation's preview.
// The two writes are deliberately not atomic: a failed preview update is
// logged and the send still succeeds (the list view heals on the next send).
func (s *messageService) Send(conversationID, senderID string, req *models.SendMessageRequest) (*models.Message, *apiError.Error) {
	if err := conform.Strings(req); err != nil {
		return nil, apiError.ErrBadRequest
	}
	if req.Empty() {
		return nil, apiError.ErrEmptyMessage
	}

	conv, apiErr := s.getParticipantConversation(conversationID, senderID)
	if apiErr != nil {
		return nil, apiErr
	}

	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        req.Content,
		MediaURL:       req.MediaURL,
		IsRead:         false,
		CreatedAt:      time.Now(),
	}
	if err := s.msgRepo.Save(msg); err != nil {
		logger.Get().Error().Err(err).Str("conversation_id", conv.ID).Msg("save message failed")
		return nil, apiError.ErrInternalServerError
	}

	preview := msg.Content
	if preview == "" {
		preview = mediaPreview
	}
	if err := s.convRepo.UpdateLastMessage(conv.ID, preview, msg.CreatedAt, senderID); err != nil {
		// accepted staleness window: the message exists, the preview catches
		// up on the next write
		logger.Get().Warn().Err(err).Str("conversation_id", conv.ID).Msg("preview update failed after send")
	} else {
		conv.LastMessage = preview
		conv.LastMessageAt = &msg.CreatedAt
		conv.LastMessageSenderID = senderID
	}

	if s.publisher != nil {
		s.publisher.PublishMessage(msg)
		s.publisher.PublishConversation(conv)
	}
	return msg, nil
}

// MarkRead flips every unread message addressed to the viewer and
// republishes the flipped messages so live feeds pick up the read state.
// Idempotent: a second call with no new messages affects nothing and
// publishes nothing.
func (s *messageService) MarkRead(conversationID, viewerID string) *apiError.Error {
	conv, apiErr := s.getParticipantConversation(conversationID, viewerID)
	if apiErr != nil {
		return apiErr
	}

	flipped, err := s.msgRepo.MarkRead(conv.ID, viewerID)
	if err != nil {
		logger.Get().Error().Err(err).Str("conversation_id", conv.ID).Msg("mark read failed")
		return apiError.ErrInternalServerError
	}

	if len(flipped) > 0 && s.publisher != nil {
		for i := range flipped {
			s.publisher.PublishMessage(&flipped[i])
		}
		s.publisher.PublishConversation(conv)
	}
	return nil
}

func (s *messageService) History(conversationID, viewerID string) ([]models.Message, *apiError.Error) {
	conv, apiErr := s.getParticipantConversation(conversationID, viewerID)
	if apiErr != nil {
		return nil, apiErr
	}

	msgs, err := s.msgRepo.ListByConversation(conv.ID)
	if err != nil {
		logger.Get().Warn().Err(err).Str("conversation_id", conv.ID).
			Msg("message history unavailable, returning empty result")
		return []models.Message{}, nil
	}
	return msgs, nil
}

func (s *messageService) UnreadCount(conversationID, viewerID string) (int64, *apiError.Error) {
	conv, apiErr := s.getParticipantConversation(conversationID, viewerID)
	if apiErr != nil {
		return 0, apiErr
	}

	count, err := s.msgRepo.CountUnread(conv.ID, viewerID)
	if err != nil {
		logger.Get().Warn().Err(err).Str("conversation_id", conv.ID).Msg("unread count unavailable")
		return 0, nil
	}
	return count, nil
}

func (s *messageService) getParticipantConversation(conversationID, userID string) (*models.Conversation, *apiError.Error) {
	conv, err := s.convRepo.Get(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		logger.Get().Error().Err(err).Str("conversation_id", conversationID).Msg("fetch conversation failed")
		return nil, apiError.ErrInternalServerError
	}
	if !conv.HasParticipant(userID) {
		return nil, apiError.ErrNotParticipant
	}
	return conv, nil
}
