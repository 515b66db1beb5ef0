package services

import (
	"context"
	"errors"

	"github.com/sportlinkhq/sportlink/db"
	apiError "github.com/sportlinkhq/sportlink/errors"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/gorm"
)

// RealtimePublisher receives change notifications after successful writes.
// Satisfied by realtime.Hub; nil-safe wrapper keeps services testable
// without a hub.
type RealtimePublisher interface {
	PublishConversation(conv *models.Conversation)
	PublishMessage(msg *models.Message)
}

// ConversationService interface
type ConversationService interface {
	GetOrCreate(callerID, otherID string) (*models.Conversation, *apiError.Error)
	Get(conversationID string) (*models.Conversation, *apiError.Error)
	List(viewerID string) ([]models.ConversationView, error)
	Enrich(viewerID string, convs []models.Conversation) []models.ConversationView
}

// conversationService struct
type conversationService struct {
	convRepo  db.ConversationRepository
	msgRepo   db.MessageRepository
	directory DirectoryService
	publisher RealtimePublisher
}

// NewConversationService instantiates a conversationService
func NewConversationService(convRepo db.ConversationRepository, msgRepo db.MessageRepository, directory DirectoryService, publisher RealtimePublisher) ConversationService {
	return &conversationService{
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		directory: directory,
		publisher: publisher,
	}
}

// GetOrCreate resolves the canonical conversation for the pair, creating it
// lazily on first contact. Safe to call from both sides concurrently; both
// converge on the same record.
func (s *conversationService) GetOrCreate(callerID, otherID string) (*models.Conversation, *apiError.Error) {
	conv, err := models.NewConversation(callerID, otherID)
	if err != nil {
		if errors.Is(err, models.ErrSelfConversation) {
			return nil, apiError.ErrSelfConversation
		}
		return nil, apiError.ErrBadRequest
	}

	created, err := s.convRepo.GetOrCreate(conv)
	if err != nil {
		logger.Get().Error().Err(err).Str("conversation_id", conv.ID).Msg("get-or-create conversation failed")
		return nil, apiError.ErrInternalServerError
	}

	if s.publisher != nil {
		s.publisher.PublishConversation(created)
	}
	return created, nil
}

func (s *conversationService) Get(conversationID string) (*models.Conversation, *apiError.Error) {
	conv, err := s.convRepo.Get(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		logger.Get().Error().Err(err).Str("conversation_id", conversationID).Msg("fetch conversation failed")
		return nil, apiError.ErrInternalServerError
	}
	return conv, nil
}

// List is a best-effort read: a store failure yields an empty list and a
// diagnostic, never an aborted request. A session that ended mid-flight
// (store-level permission denial) looks the same as having no conversations.
func (s *conversationService) List(viewerID string) ([]models.ConversationView, error) {
	convs, err := s.convRepo.ListByUser(viewerID)
	if err != nil {
		log := logger.WithUserID(viewerID)
		log.Warn().Err(err).Msg("conversation list unavailable, returning empty result")
		return []models.ConversationView{}, nil
	}
	return s.Enrich(viewerID, convs), nil
}

// Enrich builds the viewer-scoped list: peer display profile from the
// directory (with fallback), unread count per conversation, sorted by last
// activity descending.
func (s *conversationService) Enrich(viewerID string, convs []models.Conversation) []models.ConversationView {
	ctx := context.Background()
	views := make([]models.ConversationView, 0, len(convs))
	for _, conv := range convs {
		peerID := conv.OtherParticipant(viewerID)
		unread, err := s.msgRepo.CountUnread(conv.ID, viewerID)
		if err != nil {
			logger.Get().Warn().Err(err).Str("conversation_id", conv.ID).Msg("unread count unavailable")
			unread = 0
		}
		views = append(views, models.ConversationView{
			Conversation: conv,
			Peer:         s.directory.Profile(ctx, peerID),
			UnreadCount:  unread,
		})
	}
	models.SortConversationViews(views)
	return views
}
