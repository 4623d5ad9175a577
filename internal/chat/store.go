package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultReplyDelay is the simulated thinking time before an AI reply.
const DefaultReplyDelay = 1500 * time.Millisecond

// Options configures a Store. Zero values fall back to defaults.
type Options struct {
	ReplyDelay time.Duration
	Responder  *Responder
	Notifier   Notifier
	Now        func() time.Time
	NewID      func() string
}

// pendingReply is a scheduled AI reply; seq guards against stale timer callbacks.
type pendingReply struct {
	seq   uint64
	timer *time.Timer
}

// Store holds support conversations and schedules simulated AI replies.
type Store struct {
	mu            sync.Mutex
	conversations []*Conversation
	activeID      string
	pending       map[string]*pendingReply
	replySeq      uint64
	closed        bool

	delay     time.Duration
	responder *Responder
	notifier  Notifier
	now       func() time.Time
	newID     func() string
}

// NewStore constructs a Store holding copies of conversations.
func NewStore(conversations []Conversation, opts Options) *Store {
	s := &Store{
		conversations: make([]*Conversation, 0, len(conversations)),
		pending:       make(map[string]*pendingReply),
		delay:         opts.ReplyDelay,
		responder:     opts.Responder,
		notifier:      opts.Notifier,
		now:           opts.Now,
		newID:         opts.NewID,
	}
	if s.delay <= 0 {
		s.delay = DefaultReplyDelay
	}
	if s.responder == nil {
		s.responder = NewResponder()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	for i := range conversations {
		conv := conversations[i].clone()
		s.conversations = append(s.conversations, &conv)
	}
	return s
}

// SetNotifier replaces the event subscriber.
func (s *Store) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// SetReplyDelay changes the delay for replies scheduled after the call.
// A non-positive delay restores DefaultReplyDelay.
func (s *Store) SetReplyDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultReplyDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// ReplyDelay returns the current reply delay.
func (s *Store) ReplyDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// Conversations returns copies of the conversations matching filter, in store order.
func (s *Store) Conversations(filter Filter) []Conversation {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		if status != "" && status != "all" && string(conv.Status) != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(conv.CustomerName), query) &&
			!strings.Contains(strings.ToLower(conv.CustomerEmail), query) &&
			!strings.Contains(strings.ToLower(conv.LastMessage), query) {
			continue
		}
		out = append(out, conv.clone())
	}
	return out
}

// Conversation returns a copy of one conversation.
func (s *Store) Conversation(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// SetActiveConversation selects a conversation and marks it read. An empty id
// clears the selection.
func (s *Store) SetActiveConversation(id string) error {
	s.mu.Lock()
	if id == "" {
		s.activeID = ""
		s.mu.Unlock()
		return nil
	}
	conv := s.findLocked(id)
	if conv == nil {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	s.activeID = id
	event := s.markReadLocked(conv)
	notifier := s.notifier
	s.mu.Unlock()

	emit(notifier, event)
	return nil
}

// ActiveConversation returns the selected conversation, if any.
func (s *Store) ActiveConversation() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return Conversation{}, false
	}
	conv := s.findLocked(s.activeID)
	if conv == nil {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// AddMessage appends a message. Customer messages count as unread; any message
// reopens a resolved conversation.
func (s *Store) AddMessage(conversationID, content string, sender Sender) (Message, error) {
	if !sender.Valid() {
		return Message{}, ErrInvalidSender
	}

	s.mu.Lock()
	conv := s.findLocked(conversationID)
	if conv == nil {
		s.mu.Unlock()
		return Message{}, ErrConversationNotFound
	}
	msg := s.appendLocked(conv, content, sender)
	event := messageEvent(conv, msg)
	notifier := s.notifier
	s.mu.Unlock()

	emit(notifier, event)
	return msg, nil
}

// SendAIResponse schedules a canned reply to triggeringMessage after the reply
// delay. A newer trigger for the same conversation replaces a pending one.
func (s *Store) SendAIResponse(conversationID, triggeringMessage string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	if s.findLocked(conversationID) == nil {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	if prev, ok := s.pending[conversationID]; ok {
		prev.timer.Stop()
	}
	s.replySeq++
	seq := s.replySeq
	reply := &pendingReply{seq: seq}
	reply.timer = time.AfterFunc(s.delay, func() {
		s.deliverReply(conversationID, seq, triggeringMessage)
	})
	s.pending[conversationID] = reply
	event := Event{Type: EventTypingStarted, ConversationID: conversationID, Timestamp: s.now()}
	notifier := s.notifier
	s.mu.Unlock()

	emit(notifier, event)
	return nil
}

// SimulateCustomerMessage appends a sample customer message and schedules the AI reply to it.
func (s *Store) SimulateCustomerMessage(conversationID string) (Message, error) {
	s.mu.Lock()
	content := s.responder.CustomerMessage()
	s.mu.Unlock()

	msg, errAdd := s.AddMessage(conversationID, content, SenderCustomer)
	if errAdd != nil {
		return Message{}, errAdd
	}
	if errReply := s.SendAIResponse(conversationID, content); errReply != nil {
		return msg, errReply
	}
	return msg, nil
}

// CancelReply drops a pending reply and reports whether one existed.
func (s *Store) CancelReply(conversationID string) bool {
	s.mu.Lock()
	cancelled := s.cancelLocked(conversationID)
	event := Event{Type: EventTypingStopped, ConversationID: conversationID, Timestamp: s.now()}
	notifier := s.notifier
	s.mu.Unlock()

	if cancelled {
		emit(notifier, event)
	}
	return cancelled
}

// IsTyping reports whether any reply is pending.
func (s *Store) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// IsTypingIn reports whether a reply is pending for one conversation.
func (s *Store) IsTypingIn(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[conversationID]
	return ok
}

// MarkAsRead marks every message read and resets the unread counter.
func (s *Store) MarkAsRead(conversationID string) error {
	s.mu.Lock()
	conv := s.findLocked(conversationID)
	if conv == nil {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	event := s.markReadLocked(conv)
	notifier := s.notifier
	s.mu.Unlock()

	emit(notifier, event)
	return nil
}

// ResolveConversation sets the status to resolved.
func (s *Store) ResolveConversation(conversationID string) error {
	s.mu.Lock()
	conv := s.findLocked(conversationID)
	if conv == nil {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	conv.Status = StatusResolved
	event := Event{
		Type:           EventConversationResolved,
		ConversationID: conv.ID,
		Status:         conv.Status,
		UnreadCount:    conv.UnreadCount,
		Timestamp:      s.now(),
	}
	notifier := s.notifier
	s.mu.Unlock()

	emit(notifier, event)
	return nil
}

// DeleteConversation removes a conversation and cancels its pending reply.
func (s *Store) DeleteConversation(conversationID string) error {
	s.mu.Lock()
	idx := -1
	for i, conv := range s.conversations {
		if conv.ID == conversationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	s.cancelLocked(conversationID)
	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	if s.activeID == conversationID {
		s.activeID = ""
	}
	event := Event{Type: EventConversationDeleted, ConversationID: conversationID, Timestamp: s.now()}
	notifier := s.notifier
	s.mu.Unlock()

	emit(notifier, event)
	return nil
}

// TotalUnread sums unread counters across conversations.
func (s *Store) TotalUnread() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, conv := range s.conversations {
		total += conv.UnreadCount
	}
	return total
}

// Close cancels every pending reply; later SendAIResponse calls fail with ErrStoreClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id := range s.pending {
		s.cancelLocked(id)
	}
}

func (s *Store) deliverReply(conversationID string, seq uint64, trigger string) {
	s.mu.Lock()
	reply, ok := s.pending[conversationID]
	if !ok || reply.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.pending, conversationID)
	conv := s.findLocked(conversationID)
	if s.closed || conv == nil {
		s.mu.Unlock()
		return
	}
	msg := s.appendLocked(conv, s.responder.Reply(trigger), SenderAI)
	events := []Event{
		messageEvent(conv, msg),
		{Type: EventTypingStopped, ConversationID: conversationID, Timestamp: msg.Timestamp},
	}
	notifier := s.notifier
	s.mu.Unlock()

	for _, event := range events {
		emit(notifier, event)
	}
}

func (s *Store) cancelLocked(conversationID string) bool {
	reply, ok := s.pending[conversationID]
	if !ok {
		return false
	}
	reply.timer.Stop()
	delete(s.pending, conversationID)
	return true
}

func (s *Store) appendLocked(conv *Conversation, content string, sender Sender) Message {
	msg := Message{
		ID:             s.newID(),
		ConversationID: conv.ID,
		Sender:         sender,
		Content:        content,
		Timestamp:      s.now(),
		IsRead:         sender != SenderCustomer,
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastMessage = content
	conv.LastMessageTime = msg.Timestamp
	if sender == SenderCustomer {
		conv.UnreadCount++
	}
	if conv.Status == StatusResolved {
		conv.Status = StatusActive
	}
	return msg
}

func (s *Store) markReadLocked(conv *Conversation) Event {
	conv.UnreadCount = 0
	for i := range conv.Messages {
		conv.Messages[i].IsRead = true
	}
	return Event{Type: EventConversationRead, ConversationID: conv.ID, Status: conv.Status, Timestamp: s.now()}
}

func (s *Store) findLocked(id string) *Conversation {
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

func messageEvent(conv *Conversation, msg Message) Event {
	return Event{
		Type:           EventMessageAdded,
		ConversationID: conv.ID,
		Message:        &msg,
		Status:         conv.Status,
		UnreadCount:    conv.UnreadCount,
		Timestamp:      msg.Timestamp,
	}
}

func emit(n Notifier, event Event) {
	if n == nil {
		return
	}
	n.Notify(event)
}
