package realtime

import (
	"sync/atomic"

	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
)

// convUpdate is one stamped change notification. The monotonic seq lets the
// merge step discard a stale version of a record that arrives after a newer
// one was already applied.
type convUpdate struct {
	seq  uint64
	conv models.Conversation
}

// convSource is one of the two live queries backing a conversation-list
// subscription: user-as-participant-A and user-as-participant-B.
type convSource struct {
	userID string
	column func(*models.Conversation) string
}

func (s convSource) matches(conv *models.Conversation) bool {
	return s.column(conv) == s.userID
}

type stampedConv struct {
	seq  uint64
	conv models.Conversation
}

type conversationSubscription struct {
	userID    string
	callback  func([]models.ConversationView)
	queue     chan convUpdate
	done      chan struct{}
	cancelled atomic.Bool
	overflow  atomic.Bool
	sources   [2]convSource

	// merged state, touched only by the consumer goroutine
	merged map[string]stampedConv
}

func newConversationSubscription(userID string, callback func([]models.ConversationView)) *conversationSubscription {
	return &conversationSubscription{
		userID:   userID,
		callback: callback,
		queue:    make(chan convUpdate, queueSize),
		done:     make(chan struct{}),
		merged:   make(map[string]stampedConv),
		sources: [2]convSource{
			{userID: userID, column: func(c *models.Conversation) string { return c.ParticipantA }},
			{userID: userID, column: func(c *models.Conversation) string { return c.ParticipantB }},
		},
	}
}

func (s *conversationSubscription) enqueue(u convUpdate) {
	// a record matching both sources is impossible (a user cannot occupy
	// both participant columns), so no dedup is needed at enqueue time
	select {
	case s.queue <- u:
	default:
		// queue full: the consumer has work pending and will resync
		s.overflow.Store(true)
		ticksDropped.WithLabelValues("conversations").Inc()
	}
}

func (s *conversationSubscription) stop() {
	s.cancelled.Store(true)
	close(s.done)
}

// run is the single consumer loop. A burst of queued updates is coalesced
// into one merge tick, so two rapid pushes from the underlying sources
// produce a single callback with the fully merged list.
func (s *conversationSubscription) run(lister ConversationLister) {
	if lister == nil {
		logger.Get().Error().Str("user_id", s.userID).Msg("conversation subscription started without a lister")
		return
	}

	views, err := lister.List(s.userID)
	if err != nil {
		logListError(s.userID, err)
		views = []models.ConversationView{}
	}
	for _, v := range views {
		s.merged[v.ID] = stampedConv{conv: v.Conversation}
	}
	if s.cancelled.Load() {
		return
	}
	s.callback(views)
	ticksDelivered.WithLabelValues("conversations").Inc()

	for {
		select {
		case <-s.done:
			return
		case u := <-s.queue:
			s.apply(u)
			s.drain()

			if s.overflow.Swap(false) {
				s.resync(lister)
			}

			convs := make([]models.Conversation, 0, len(s.merged))
			for _, st := range s.merged {
				convs = append(convs, st.conv)
			}
			enriched := lister.Enrich(s.userID, convs)

			if s.cancelled.Load() {
				return
			}
			s.callback(enriched)
			ticksDelivered.WithLabelValues("conversations").Inc()
		}
	}
}

// apply keeps the most recently stamped version of each record.
func (s *conversationSubscription) apply(u convUpdate) {
	if existing, ok := s.merged[u.conv.ID]; ok && existing.seq > u.seq {
		return
	}
	s.merged[u.conv.ID] = stampedConv{seq: u.seq, conv: u.conv}
}

func (s *conversationSubscription) drain() {
	for {
		select {
		case u := <-s.queue:
			s.apply(u)
		default:
			return
		}
	}
}

// resync rebuilds the merge map from the store after an overflow dropped
// notifications.
func (s *conversationSubscription) resync(lister ConversationLister) {
	views, err := lister.List(s.userID)
	if err != nil {
		logListError(s.userID, err)
		return
	}
	for k := range s.merged {
		delete(s.merged, k)
	}
	for _, v := range views {
		s.merged[v.ID] = stampedConv{conv: v.Conversation}
	}
}

type messageSubscription struct {
	conversationID string
	callback       func([]models.Message)
	queue          chan models.Message
	done           chan struct{}
	cancelled      atomic.Bool
	overflow       atomic.Bool

	// ordered feed state, touched only by the consumer goroutine
	feed []models.Message
}

func newMessageSubscription(conversationID string, callback func([]models.Message)) *messageSubscription {
	return &messageSubscription{
		conversationID: conversationID,
		callback:       callback,
		queue:          make(chan models.Message, queueSize),
		done:           make(chan struct{}),
	}
}

func (s *messageSubscription) enqueue(msg models.Message) {
	select {
	case s.queue <- msg:
	default:
		s.overflow.Store(true)
		ticksDropped.WithLabelValues("messages").Inc()
	}
}

func (s *messageSubscription) stop() {
	s.cancelled.Store(true)
	close(s.done)
}

func (s *messageSubscription) run(lister MessageLister) {
	feed, err := lister.ListByConversation(s.conversationID)
	if err != nil {
		logger.Get().Warn().Err(err).Str("conversation_id", s.conversationID).Msg("message snapshot failed")
		feed = []models.Message{}
	}
	s.feed = feed
	if s.cancelled.Load() {
		return
	}
	s.callback(s.snapshot())
	ticksDelivered.WithLabelValues("messages").Inc()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.queue:
			s.insert(msg)
			for {
				select {
				case more := <-s.queue:
					s.insert(more)
					continue
				default:
				}
				break
			}

			if s.overflow.Swap(false) {
				if fresh, err := lister.ListByConversation(s.conversationID); err == nil {
					s.feed = fresh
				}
			}

			if s.cancelled.Load() {
				return
			}
			s.callback(s.snapshot())
			ticksDelivered.WithLabelValues("messages").Inc()
		}
	}
}

// insert places msg at the position implied by its ordering key
// (created_at, id). Messages normally arrive in order, so the scan from the
// tail is cheap. Earlier delivered messages never move.
func (s *messageSubscription) insert(msg models.Message) {
	for i := range s.feed {
		if s.feed[i].ID == msg.ID {
			// duplicate delivery or a read-state flip; keep position
			s.feed[i] = msg
			return
		}
	}

	pos := len(s.feed)
	for pos > 0 && msg.Before(&s.feed[pos-1]) {
		pos--
	}
	s.feed = append(s.feed, models.Message{})
	copy(s.feed[pos+1:], s.feed[pos:])
	s.feed[pos] = msg
}

func (s *messageSubscription) snapshot() []models.Message {
	out := make([]models.Message, len(s.feed))
	copy(out, s.feed)
	return out
}
