package chat

import (
	"errors"
	"time"
)

// Chat store errors.
var (
	// ErrConversationNotFound indicates an unknown conversation id.
	ErrConversationNotFound = errors.New("chat: conversation not found")
	// ErrInvalidSender indicates a sender outside customer/ai/admin.
	ErrInvalidSender = errors.New("chat: invalid sender")
	// ErrStoreClosed indicates the store no longer schedules replies.
	ErrStoreClosed = errors.New("chat: store closed")
)

// Sender identifies who wrote a message.
type Sender string

// Sender values.
const (
	SenderCustomer Sender = "customer"
	SenderAI       Sender = "ai"
	SenderAdmin    Sender = "admin"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	switch s {
	case SenderCustomer, SenderAI, SenderAdmin:
		return true
	default:
		return false
	}
}

// Status is the flat lifecycle flag of a conversation.
type Status string

// Status values.
const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusResolved:
		return true
	default:
		return false
	}
}

// Message is a single chat line.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         Sender    `json:"sender"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"is_read"`
}

// Conversation is a customer support thread.
type Conversation struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerAvatar  string    `json:"customer_avatar"`
	Status          Status    `json:"status"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
	Messages        []Message `json:"messages"`
}

func (c *Conversation) clone() Conversation {
	out := *c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}

// Filter narrows Conversations. An empty or "all" status matches every
// conversation; Query is a case-insensitive substring over the customer name,
// email and last message.
type Filter struct {
	Status string
	Query  string
}

// EventType names a chat store mutation.
type EventType string

// EventType values.
const (
	EventMessageAdded         EventType = "message_added"
	EventConversationRead     EventType = "conversation_read"
	EventConversationResolved EventType = "conversation_resolved"
	EventConversationDeleted  EventType = "conversation_deleted"
	EventTypingStarted        EventType = "typing_started"
	EventTypingStopped        EventType = "typing_stopped"
)

// Event describes a mutation for push subscribers.
type Event struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
	Message        *Message  `json:"message,omitempty"`
	Status         Status    `json:"status,omitempty"`
	UnreadCount    int       `json:"unread_count"`
	Timestamp      time.Time `json:"timestamp"`
}

// Notifier receives store events. Notify is called without the store lock held.
type Notifier interface {
	Notify(Event)
}
