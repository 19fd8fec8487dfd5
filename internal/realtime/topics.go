package realtime

// Event names pushed to connected clients.
const (
	EventNewMessage      = "new-message"
	EventDeleteMessage   = "delete-message"
	EventConnectRequest  = "connect-request"
	EventNewConversation = "new-conversation"
)

// ChatTopic addresses everyone attached to a conversation.
func ChatTopic(conversationID string) string {
	return "chat-" + conversationID
}

// UserTopic addresses a single user's connected clients.
func UserTopic(userID string) string {
	return "user-" + userID
}
