package intent

import "sales-assistant/internal/domain/entities"

// Example is a labeled utterance.
type Example struct {
	Stage entities.Stage
	Text  string
}

// DefaultExamples is the fixed labeled set, grouped in stage enumeration order.
var DefaultExamples = []Example{
	{entities.StageGreeting, "Hello"},
	{entities.StageGreeting, "Hi there"},
	{entities.StageGreeting, "Good morning"},
	{entities.StageGreeting, "Hey, is anyone available to help?"},

	{entities.StageProductQA, "What does your product do?"},
	{entities.StageProductQA, "Tell me about your products and services"},
	{entities.StageProductQA, "Does the platform support integrations?"},
	{entities.StageProductQA, "How does Advanced Analytics work?"},

	{entities.StageRequirements, "We need the following features"},
	{entities.StageRequirements, "Our company requires multi-user support"},
	{entities.StageRequirements, "We are looking for a solution with mobile access"},
	{entities.StageRequirements, "These are our requirements"},

	{entities.StagePricing, "What's the price?"},
	{entities.StagePricing, "How much does it cost?"},
	{entities.StagePricing, "Can you send me a quote?"},
	{entities.StagePricing, "What is your pricing?"},

	{entities.StageConfirmation, "Yes, let's proceed"},
	{entities.StageConfirmation, "That works for us, we accept"},
	{entities.StageConfirmation, "Please confirm the order"},

	{entities.StageHandoff, "Can I talk to a sales representative?"},
	{entities.StageHandoff, "Please have someone contact me"},
	{entities.StageHandoff, "I'd like to speak with a human"},

	{entities.StageCompleted, "Thanks, that's all"},
	{entities.StageCompleted, "Goodbye"},
}
