package provider

import (
	"context"
	"strings"
)

// MockGenerator answers with canned replies keyed on words in the latest
// message. Used in dev mode.
type MockGenerator struct{}

func (MockGenerator) Generate(_ context.Context, req GenerationRequest) (string, error) {
	last := ""
	if n := len(req.Messages); n > 0 {
		last = strings.ToLower(req.Messages[n-1].Content)
	}
	words := strings.FieldsFunc(last, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	has := func(w ...string) bool {
		for _, word := range words {
			for _, x := range w {
				if word == x {
					return true
				}
			}
		}
		return false
	}

	switch {
	case has("hello", "hi", "hey"):
		return "Hello! I'm your B2B sales assistant. How can I help you today?", nil
	case has("price", "pricing", "cost", "quote"):
		return "Our pricing depends on your specific requirements. Could you tell me more about the features you need?", nil
	case has("product", "products", "service", "services"):
		return "We offer a range of B2B solutions including integrations, analytics and enterprise security. Which area interests you most?", nil
	}
	return "Thank you for your message. I'd be happy to discuss our products and services with you. Could you tell me more about your business needs?", nil
}

var _ IGenerator = MockGenerator{}
