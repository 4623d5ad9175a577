package chat

import "time"

// DefaultConversations returns the demo support inbox.
func DefaultConversations() []Conversation {
	at := func(hour, minute, second int) time.Time {
		return time.Date(2026, time.February, 1, hour, minute, second, 0, time.UTC)
	}
	avatar := func(name, background string) string {
		return "https://ui-avatars.com/api/?name=" + name + "&background=" + background + "&color=fff"
	}

	return []Conversation{
		{
			ID:              "conv-1",
			CustomerID:      "cust-1",
			CustomerName:    "Ahmad Rizki",
			CustomerEmail:   "ahmad.rizki@gmail.com",
			CustomerAvatar:  avatar("Ahmad+Rizki", "6366f1"),
			Status:          StatusActive,
			LastMessage:     "I need help with my booking",
			LastMessageTime: at(12, 30, 0),
			UnreadCount:     2,
			Messages: []Message{
				{ID: "msg-1", ConversationID: "conv-1", Sender: SenderCustomer, Content: "Hello, I need help with my flight booking", Timestamp: at(12, 25, 0), IsRead: true},
				{ID: "msg-2", ConversationID: "conv-1", Sender: SenderAI, Content: "Hello Ahmad! I'd be happy to help you with your flight booking. Could you please provide me with your booking reference number (PNR)?", Timestamp: at(12, 25, 30), IsRead: true},
				{ID: "msg-3", ConversationID: "conv-1", Sender: SenderCustomer, Content: "My PNR is ABC123. I want to change my flight date", Timestamp: at(12, 28, 0)},
				{ID: "msg-4", ConversationID: "conv-1", Sender: SenderCustomer, Content: "I need help with my booking", Timestamp: at(12, 30, 0)},
			},
		},
		{
			ID:              "conv-2",
			CustomerID:      "cust-2",
			CustomerName:    "Siti Nurhaliza",
			CustomerEmail:   "siti.n@yahoo.com",
			CustomerAvatar:  avatar("Siti+Nurhaliza", "10b981"),
			Status:          StatusPending,
			LastMessage:     "Can I get a refund for my cancelled flight?",
			LastMessageTime: at(11, 45, 0),
			UnreadCount:     1,
			Messages: []Message{
				{ID: "msg-5", ConversationID: "conv-2", Sender: SenderCustomer, Content: "Can I get a refund for my cancelled flight?", Timestamp: at(11, 45, 0)},
			},
		},
		{
			ID:              "conv-3",
			CustomerID:      "cust-3",
			CustomerName:    "Budi Santoso",
			CustomerEmail:   "budi.santoso@company.co.id",
			CustomerAvatar:  avatar("Budi+Santoso", "f59e0b"),
			Status:          StatusResolved,
			LastMessage:     "Thank you for your help!",
			LastMessageTime: at(9, 0, 0),
			Messages: []Message{
				{ID: "msg-6", ConversationID: "conv-3", Sender: SenderCustomer, Content: "I need to book for a group of 10 people", Timestamp: at(8, 30, 0), IsRead: true},
				{ID: "msg-7", ConversationID: "conv-3", Sender: SenderAI, Content: "I can help you with group booking! For groups of 10 or more passengers, I recommend using our Group Booking feature for special rates. Would you like me to guide you through the process?", Timestamp: at(8, 31, 0), IsRead: true},
				{ID: "msg-8", ConversationID: "conv-3", Sender: SenderCustomer, Content: "Yes please, that would be great!", Timestamp: at(8, 45, 0), IsRead: true},
				{ID: "msg-9", ConversationID: "conv-3", Sender: SenderAdmin, Content: "Hi Budi! I'm taking over from our AI assistant. Let me help you with the group booking. Please send me the travel dates and passenger list.", Timestamp: at(8, 50, 0), IsRead: true},
				{ID: "msg-10", ConversationID: "conv-3", Sender: SenderCustomer, Content: "Thank you for your help!", Timestamp: at(9, 0, 0), IsRead: true},
			},
		},
	}
}
