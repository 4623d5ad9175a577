package chat

import (
	"math/rand"
	"strings"
)

// replyBucket maps trigger keywords to canned responses.
type replyBucket struct {
	name      string
	keywords  []string
	responses []string
}

var replyBuckets = []replyBucket{
	{
		name:     "booking",
		keywords: []string{"book", "reservation", "pnr"},
		responses: []string{
			"I'd be happy to help you with your booking! Could you please provide me with your booking reference number (PNR)?",
			"I can assist you with modifying your booking. What changes would you like to make?",
		},
	},
	{
		name:     "refund",
		keywords: []string{"refund", "cancel", "money back"},
		responses: []string{
			"I understand you'd like to request a refund. Our refund policy allows cancellations up to 24 hours before departure. Let me check your booking details.",
			"I'm processing your refund request. This typically takes 3-5 business days to reflect in your account.",
		},
	},
	{
		name:     "flight",
		keywords: []string{"flight", "travel", "fly"},
		responses: []string{
			"I can help you find available flights! Where would you like to travel, and on what dates?",
			"Let me search for the best flight options for you. One moment please...",
		},
	},
}

var defaultBucket = replyBucket{
	name: "default",
	responses: []string{
		"Thank you for reaching out! How can I assist you today?",
		"I'm here to help! Could you please provide more details about your inquiry?",
		"I understand. Let me look into this for you right away.",
		"Is there anything else I can help you with?",
	},
}

// customerSamples seed simulated customer messages.
var customerSamples = []string{
	"I have a question about my booking",
	"Can you help me with seat selection?",
	"What's the baggage allowance?",
	"I need to change my flight date",
}

// Responder picks canned replies by keyword. Buckets are checked in a fixed
// order (booking, refund, flight) and the first hit wins.
type Responder struct {
	pick func(n int) int
}

// NewResponder returns a Responder choosing uniformly at random within a bucket.
func NewResponder() *Responder {
	return &Responder{pick: rand.Intn}
}

// NewResponderWithPicker returns a Responder using pick(n) in [0, n) to choose a reply.
func NewResponderWithPicker(pick func(n int) int) *Responder {
	if pick == nil {
		pick = rand.Intn
	}
	return &Responder{pick: pick}
}

// Category returns the bucket name message falls into.
func (r *Responder) Category(message string) string {
	return matchBucket(message).name
}

// Reply returns a canned response for message.
func (r *Responder) Reply(message string) string {
	bucket := matchBucket(message)
	idx := r.pick(len(bucket.responses))
	if idx < 0 || idx >= len(bucket.responses) {
		idx = 0
	}
	return bucket.responses[idx]
}

// CustomerMessage returns a sample customer message for simulations.
func (r *Responder) CustomerMessage() string {
	idx := r.pick(len(customerSamples))
	if idx < 0 || idx >= len(customerSamples) {
		idx = 0
	}
	return customerSamples[idx]
}

func matchBucket(message string) replyBucket {
	lower := strings.ToLower(message)
	for _, bucket := range replyBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(lower, keyword) {
				return bucket
			}
		}
	}
	return defaultBucket
}
