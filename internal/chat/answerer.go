package chat

import (
	"context"
	"strings"
)

const SupportFallback = "I apologize, but I'm having trouble processing your request right now. " +
	"Please contact our support team at 084 543 7641 or info@kelnic.co.za for assistance."

type topic struct {
	keywords []string
	reply    string
}

var topics = []topic{
	{
		keywords: []string{"pay", "card", "checkout", "refund", "price", "cost"},
		reply: "We accept Visa, Mastercard and American Express. Prices are in South African rand (ZAR) " +
			"and your order ID is shown as soon as the payment goes through.",
	},
	{
		keywords: []string{"course", "learn", "download", "training"},
		reply: "We offer courses in AI programming, cybersecurity and data science. " +
			"Purchased courses appear on your dashboard, ready to download.",
	},
	{
		keywords: []string{"service", "website", "marketing", "content", "algorithm", "security"},
		reply: "Our services cover AI content creation, algorithm development, security scripts, " +
			"marketing campaigns and responsive websites. Add one to your cart to get started.",
	},
	{
		keywords: []string{"contact", "phone", "email", "call", "human", "support"},
		reply: "You can reach our team on 084 543 7641 or at info@kelnic.co.za.",
	},
}

// SupportAnswerer replies from a fixed set of storefront topics.
type SupportAnswerer struct{}

func (SupportAnswerer) Answer(_ context.Context, question string) string {
	q := strings.ToLower(question)

	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(q, kw) {
				return t.reply
			}
		}
	}

	return SupportFallback
}

// Ask lets SupportAnswerer serve a Session directly, without the HTTP round trip.
func (a SupportAnswerer) Ask(ctx context.Context, question string) string {
	return a.Answer(ctx, question)
}
