package repocontants

const (
	CONVERSATION_COLLECTION = "conversations"
	ORDER_COLLECTION        = "order_inquiries"
)
