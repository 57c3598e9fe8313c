package models

import (
	"fmt"
	"strings"
)

// Message is a direct or group chat message
type Message struct {
	ConversationID string         `dynamodbav:"conversationId" json:"conversationId"`
	SortKey        string         `dynamodbav:"sortKey" json:"-"` // createdAt#messageId
	MessageID      string         `dynamodbav:"messageId" json:"messageId"`
	SenderID       string         `dynamodbav:"senderId" json:"senderId"`
	RecipientID    string         `dynamodbav:"recipientId,omitempty" json:"recipientId,omitempty"`
	GroupID        string         `dynamodbav:"groupId,omitempty" json:"groupId,omitempty"`
	Content        string         `dynamodbav:"content,omitempty" json:"content,omitempty"`
	MessageType    string         `dynamodbav:"messageType" json:"messageType"`
	MediaRef       string         `dynamodbav:"mediaRef,omitempty" json:"mediaRef,omitempty"`
	MediaDuration  float64        `dynamodbav:"mediaDuration,omitempty" json:"mediaDuration,omitempty"`
	IsRead         bool           `dynamodbav:"isRead" json:"isRead"`
	CreatedAt      string         `dynamodbav:"createdAt" json:"createdAt"`
	Sender         *PublicProfile `dynamodbav:"-" json:"sender,omitempty"`
}

// DirectConversationID builds the canonical partition key for a user pair,
// identical regardless of who sends.
func DirectConversationID(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return fmt.Sprintf("direct#%s#%s", a, b)
}

// GroupConversationID builds the partition key for a group room
func GroupConversationID(groupID string) string {
	return "group#" + groupID
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"

// GSIs on Messages
const (
	MessageIDIndex   = "messageId-index"
	SenderIDIndex    = "senderId-index"
	RecipientIDIndex = "recipientId-index"
)
