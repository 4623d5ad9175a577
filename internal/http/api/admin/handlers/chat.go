package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bookmytix/admin-core/internal/chat"
	"github.com/bookmytix/admin-core/internal/realtime"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ChatHandler exposes the support chat store.
type ChatHandler struct {
	store *chat.Store
	hub   *realtime.Hub
}

// NewChatHandler constructs a ChatHandler. hub may be nil when push is disabled.
func NewChatHandler(store *chat.Store, hub *realtime.Hub) *ChatHandler {
	return &ChatHandler{store: store, hub: hub}
}

// List returns conversations filtered by ?status= and ?q=.
func (h *ChatHandler) List(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && status != "all" && !chat.Status(status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	conversations := h.store.Conversations(chat.Filter{Status: status, Query: c.Query("q")})
	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total_unread":  h.store.TotalUnread(),
	})
}

// Get returns one conversation with its messages.
func (h *ChatHandler) Get(c *gin.Context) {
	id := c.Param("id")
	conv, ok := h.store.Conversation(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"is_typing":    h.store.IsTypingIn(id),
	})
}

// Delete removes a conversation.
func (h *ChatHandler) Delete(c *gin.Context) {
	if errDelete := h.store.DeleteConversation(c.Param("id")); errDelete != nil {
		respondChatError(c, errDelete)
		return
	}
	c.Status(http.StatusNoContent)
}

// addMessageRequest is the payload for posting a message.
type addMessageRequest struct {
	Content   string `json:"content"`
	Sender    string `json:"sender"`     // Defaults to admin.
	AutoReply bool   `json:"auto_reply"` // Schedule an AI reply to a customer message.
}

// AddMessage appends a message to a conversation.
func (h *ChatHandler) AddMessage(c *gin.Context) {
	var body addMessageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	sender := chat.SenderAdmin
	if raw := strings.TrimSpace(body.Sender); raw != "" {
		sender = chat.Sender(strings.ToLower(raw))
	}

	id := c.Param("id")
	msg, errAdd := h.store.AddMessage(id, content, sender)
	if errAdd != nil {
		respondChatError(c, errAdd)
		return
	}

	replyScheduled := false
	if body.AutoReply && sender == chat.SenderCustomer {
		if errReply := h.store.SendAIResponse(id, content); errReply != nil {
			log.WithError(errReply).WithField("conversation_id", id).Warn("chat auto reply not scheduled")
		} else {
			replyScheduled = true
		}
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg, "reply_scheduled": replyScheduled})
}

// aiResponseRequest names the message the AI replies to.
type aiResponseRequest struct {
	Message string `json:"message"`
}

// AIResponse schedules a simulated AI reply. The body is optional.
func (h *ChatHandler) AIResponse(c *gin.Context) {
	var body aiResponseRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil && !errors.Is(errBind, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	id := c.Param("id")
	if errReply := h.store.SendAIResponse(id, body.Message); errReply != nil {
		respondChatError(c, errReply)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"conversation_id": id,
		"delay_ms":        h.store.ReplyDelay().Milliseconds(),
	})
}

// Simulate posts a sample customer message and schedules the AI reply.
func (h *ChatHandler) Simulate(c *gin.Context) {
	msg, errSimulate := h.store.SimulateCustomerMessage(c.Param("id"))
	if errSimulate != nil {
		respondChatError(c, errSimulate)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg, "reply_scheduled": true})
}

// MarkRead clears the unread counter.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	h.respondWithConversation(c, h.store.MarkAsRead(c.Param("id")))
}

// Resolve closes a conversation.
func (h *ChatHandler) Resolve(c *gin.Context) {
	h.respondWithConversation(c, h.store.ResolveConversation(c.Param("id")))
}

// GetActive returns the selected conversation, or null.
func (h *ChatHandler) GetActive(c *gin.Context) {
	conv, ok := h.store.ActiveConversation()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"conversation": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// setActiveRequest selects a conversation; an empty id clears the selection.
type setActiveRequest struct {
	ConversationID string `json:"conversation_id"`
}

// SetActive selects a conversation and marks it read.
func (h *ChatHandler) SetActive(c *gin.Context) {
	var body setActiveRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	id := strings.TrimSpace(body.ConversationID)
	if errSet := h.store.SetActiveConversation(id); errSet != nil {
		respondChatError(c, errSet)
		return
	}
	h.GetActive(c)
}

// Unread returns the unread badge and typing indicator.
func (h *ChatHandler) Unread(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_unread": h.store.TotalUnread(),
		"is_typing":    h.store.IsTyping(),
	})
}

// Stream upgrades to a websocket carrying chat events.
func (h *ChatHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime disabled"})
		return
	}
	adminID, _ := readAdminIDFromContext(c)
	if errServe := h.hub.ServeWS(c.Writer, c.Request, adminID); errServe != nil {
		if errors.Is(errServe, realtime.ErrHubNotRunning) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime not running"})
			return
		}
		log.WithError(errServe).WithField("admin_id", adminID).Warn("chat websocket upgrade failed")
	}
}

func (h *ChatHandler) respondWithConversation(c *gin.Context, err error) {
	if err != nil {
		respondChatError(c, err)
		return
	}
	conv, ok := h.store.Conversation(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// respondChatError maps store errors to HTTP responses.
func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, chat.ErrInvalidSender):
		c.JSON(http.StatusBadRequest, gin.H{"error": "sender must be customer, ai or admin"})
	case errors.Is(err, chat.ErrStoreClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is shutting down"})
	default:
		log.WithError(err).Error("chat request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat request failed"})
	}
}
