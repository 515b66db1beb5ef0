package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
)

// queueSize bounds each subscription's change queue. A full queue never
// blocks a writer: the notification is dropped, the subscription is marked
// stale and resynchronizes from the store on its next tick.
const queueSize = 16

// ConversationLister supplies the snapshot and the enrichment step for
// conversation-list subscriptions. Satisfied by services.ConversationService.
type ConversationLister interface {
	List(viewerID string) ([]models.ConversationView, error)
	Enrich(viewerID string, convs []models.Conversation) []models.ConversationView
}

// MessageLister supplies ordered message snapshots for message-feed
// subscriptions. Satisfied by db.MessageRepository.
type MessageLister interface {
	ListByConversation(conversationID string) ([]models.Message, error)
}

// Hub fans store writes out to live subscriptions. Each subscription owns a
// single consumer goroutine, so tick processing is serialized per
// subscription while independent subscriptions run concurrently.
type Hub struct {
	mu       sync.RWMutex
	lister   ConversationLister
	messages MessageLister
	convSubs map[uint64]*conversationSubscription
	msgSubs  map[uint64]*messageSubscription
	nextID   uint64
	seq      atomic.Uint64
}

// NewHub creates a hub. The conversation lister is attached separately
// because the service that provides it publishes through this hub.
func NewHub(messages MessageLister) *Hub {
	return &Hub{
		messages: messages,
		convSubs: make(map[uint64]*conversationSubscription),
		msgSubs:  make(map[uint64]*messageSubscription),
	}
}

// SetConversationLister must be called before the first conversation-list
// subscription.
func (h *Hub) SetConversationLister(l ConversationLister) {
	h.mu.Lock()
	h.lister = l
	h.mu.Unlock()
}

// PublishConversation notifies every conversation-list subscription whose
// user participates in the conversation. Each subscription internally runs
// two sources, one per participant column; the merge step dedups by id.
func (h *Hub) PublishConversation(conv *models.Conversation) {
	if conv == nil {
		return
	}
	seq := h.seq.Add(1)
	update := convUpdate{seq: seq, conv: *conv}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.convSubs {
		for _, src := range sub.sources {
			if src.matches(&update.conv) {
				sub.enqueue(update)
			}
		}
	}
}

// PublishMessage notifies the message feed of the owning conversation.
func (h *Hub) PublishMessage(msg *models.Message) {
	if msg == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.msgSubs {
		if sub.conversationID == msg.ConversationID {
			sub.enqueue(*msg)
		}
	}
}

// SubscribeConversations opens a live conversation-list subscription for
// userID. The callback receives the full merged, enriched, sorted list once
// per tick, starting with an initial snapshot. It is always invoked from a
// single goroutine.
func (h *Hub) SubscribeConversations(userID string, callback func([]models.ConversationView)) *Subscription {
	sub := newConversationSubscription(userID, callback)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	lister := h.lister
	h.convSubs[id] = sub
	h.mu.Unlock()

	activeSubscriptions.WithLabelValues("conversations").Inc()
	go sub.run(lister)

	return &Subscription{cancel: func() {
		sub.stop()
		h.mu.Lock()
		delete(h.convSubs, id)
		h.mu.Unlock()
		activeSubscriptions.WithLabelValues("conversations").Dec()
	}}
}

// SubscribeMessages opens a live ordered message feed for one conversation.
// Arriving messages are inserted at the position implied by their ordering
// key; messages already delivered never reorder.
func (h *Hub) SubscribeMessages(conversationID string, callback func([]models.Message)) *Subscription {
	sub := newMessageSubscription(conversationID, callback)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.msgSubs[id] = sub
	h.mu.Unlock()

	activeSubscriptions.WithLabelValues("messages").Inc()
	go sub.run(h.messages)

	return &Subscription{cancel: func() {
		sub.stop()
		h.mu.Lock()
		delete(h.msgSubs, id)
		h.mu.Unlock()
		activeSubscriptions.WithLabelValues("messages").Dec()
	}}
}

// Subscription is a handle to a live feed. Cancel tears down the underlying
// sources and unregisters immediately; the consumer re-checks the cancel
// flag before each callback, so at most one already-started callback can
// still complete after Cancel returns.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

func logListError(userID string, err error) {
	log := logger.WithUserID(userID)
	log.Warn().Err(err).Msg("subscription snapshot failed")
}
