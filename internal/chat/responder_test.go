package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponderBucketOrder(t *testing.T) {
	r := NewResponderWithPicker(func(int) int { return 0 })

	cases := map[string]string{
		"I want to BOOK a seat":                       "booking",
		"Where is my reservation?":                    "booking",
		"my pnr is XYZ":                               "booking",
		"Please refund me":                            "refund",
		"I need to cancel":                            "refund",
		"I want my money back":                        "refund",
		"Any flight to Bali?":                         "flight",
		"I love to travel":                            "flight",
		"Can I fly tomorrow?":                         "flight",
		"Cancel my booking":                           "booking",
		"Can I get a refund for my cancelled flight?": "refund",
		"hello there":                                 "default",
		"":                                            "default",
	}
	for message, want := range cases {
		assert.Equal(t, want, r.Category(message), "message %q", message)
	}
}

func TestResponderReplyUsesPicker(t *testing.T) {
	var gotN []int
	r := NewResponderWithPicker(func(n int) int {
		gotN = append(gotN, n)
		return n - 1
	})

	assert.Equal(t, "I can assist you with modifying your booking. What changes would you like to make?", r.Reply("booking help"))
	assert.Equal(t, "Is there anything else I can help you with?", r.Reply("hi"))
	assert.Equal(t, []int{2, 4}, gotN)
}

func TestResponderReplyClampsOutOfRangePick(t *testing.T) {
	r := NewResponderWithPicker(func(n int) int { return n + 5 })
	assert.Equal(t, "I can help you find available flights! Where would you like to travel, and on what dates?", r.Reply("flight"))
}

func TestResponderDefaultPickerStaysInBucket(t *testing.T) {
	r := NewResponder()
	for i := 0; i < 50; i++ {
		assert.Contains(t, replyBuckets[1].responses, r.Reply("refund please"))
	}
}

func TestCustomerMessageClampsPick(t *testing.T) {
	r := NewResponderWithPicker(func(int) int { return 99 })
	assert.Equal(t, "I have a question about my booking", r.CustomerMessage())
}
