package provider

import (
	"fmt"
	"sort"
	"strings"

	"sales-assistant/internal/domain/entities"
)

const greetingPrompt = `You are a friendly B2B sales assistant for a software company.
Greet the buyer warmly and ask how you can help with our products and services.
If they mention a specific need, acknowledge it and ask a relevant follow-up question.`

var stagePrompts = map[entities.Stage]string{
	entities.StageGreeting: greetingPrompt,
	entities.StageProductQA: `You are a knowledgeable B2B sales assistant for a software company.
Answer product questions accurately and completely, highlighting the key benefits.
When the buyer seems ready to talk about requirements, guide them there.`,
	entities.StageRequirements: `You are a B2B sales assistant gathering the buyer's requirements.
Ask clear questions about the features they need and separate required from optional ones.
Try to understand their business needs in detail.`,
	entities.StagePricing: `You are a B2B sales assistant presenting pricing.
Summarise the collected requirements and present a clear price breakdown.
Quotes sit about 15% above our minimum profitable threshold.`,
	entities.StageConfirmation: `You are a B2B sales assistant confirming an order.
Summarise the requirements and the proposed price, then ask whether the buyer wants to proceed.
If they accept, prepare the order inquiry. If they decline, offer a human representative.`,
	entities.StageHandoff: `You are a B2B sales assistant handing the buyer over to a human representative.
Thank them for their interest and assure them a representative will be in touch soon.
Ask for a preferred contact method or time if you do not have one yet.`,
}

// SystemPrompt returns the template for stage. Stages without their own
// template use the greeting one.
func SystemPrompt(stage entities.Stage) string {
	if p, ok := stagePrompts[stage]; ok {
		return p
	}
	return greetingPrompt
}

// ContextBlock renders retrieved passages for inclusion in the system prompt.
func ContextBlock(passages []string) string {
	if len(passages) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Relevant information from our knowledge base:\n")
	for _, p := range passages {
		b.WriteString("---\n")
		b.WriteString(strings.TrimSpace(p))
		b.WriteString("\n")
	}
	return b.String()
}

// QuoteBlock renders the computed quote so the model can present it.
func QuoteBlock(quote *entities.PricingResult) string {
	if quote == nil {
		return ""
	}
	names := make([]string, 0, len(quote.Breakdown))
	for name := range quote.Breakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Current quote for this buyer:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %.2f %s\n", name, quote.Breakdown[name], quote.Currency)
	}
	fmt.Fprintf(&b, "Base price: %.2f %s\n", quote.BasePrice, quote.Currency)
	fmt.Fprintf(&b, "Final price: %.2f %s\n", quote.FinalPrice, quote.Currency)
	return b.String()
}

// ComposeContext joins retrieved passages and the quote, skipping whichever
// is empty.
func ComposeContext(passages []string, quote *entities.PricingResult) string {
	blocks := make([]string, 0, 2)
	for _, block := range []string{ContextBlock(passages), QuoteBlock(quote)} {
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n")
}

func systemWithContext(req GenerationRequest) string {
	if req.Context == "" {
		return req.System
	}
	return req.System + "\n\n" + req.Context
}
