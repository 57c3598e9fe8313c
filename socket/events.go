package socket

import (
	"errors"

	"voxlink_server/models"
)

// Client -> server events
const (
	EventJoinGroup        = "join-group"
	EventLeaveGroup       = "leave-group"
	EventSendMessage      = "send-message"
	EventVoiceMessageSent = "voice-message-sent"
	EventTyping           = "typing"
	EventFriendRequest    = "friend-request-sent"
)

// Server -> client events
const (
	EventNewMessage      = "new-message"
	EventMessageSent     = "message-sent"
	EventMessageError    = "message-error"
	EventNewVoiceMessage = "new-voice-message"
	EventUserTyping      = "user-typing"
	EventNewFriendReq    = "new-friend-request"
)

// Identity is the sender summary stamped onto server -> client events
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// MessagePayload carries a realtime text message. Exactly one of
// RecipientID and GroupID must be set.
type MessagePayload struct {
	RecipientID string `json:"recipientId,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	Content     string `json:"content"`
	MessageType string `json:"messageType,omitempty"`
}

func (p MessagePayload) Validate() error {
	if (p.RecipientID == "") == (p.GroupID == "") {
		return errors.New("exactly one of recipientId and groupId is required")
	}
	if p.Content == "" {
		return errors.New("content is required")
	}
	// voice messages arrive over REST and are announced separately
	switch p.MessageType {
	case "", models.MessageTypeText:
	default:
		return errors.New("only text messages can be sent over this event")
	}
	return nil
}

// VoicePayload announces a voice message already persisted over REST.
// The full message record rides along so receivers can render it
// without a refetch.
type VoicePayload struct {
	RecipientID string         `json:"recipientId,omitempty"`
	GroupID     string         `json:"groupId,omitempty"`
	Message     models.Message `json:"message"`
}

func (p VoicePayload) Validate() error {
	if (p.RecipientID == "") == (p.GroupID == "") {
		return errors.New("exactly one of recipientId and groupId is required")
	}
	if p.Message.MessageID == "" {
		return errors.New("message is required")
	}
	return nil
}

// TypingPayload is fire and forget; it never touches storage.
// IsTyping false clears the indicator on the other side.
type TypingPayload struct {
	RecipientID string `json:"recipientId,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	IsTyping    bool   `json:"isTyping"`
}

func (p TypingPayload) Validate() error {
	if (p.RecipientID == "") == (p.GroupID == "") {
		return errors.New("exactly one of recipientId and groupId is required")
	}
	return nil
}

// TypingNotice mirrors a typing signal to the counterparty's connections
type TypingNotice struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// FriendRequestPayload nudges the recipient to refresh their pending queue
type FriendRequestPayload struct {
	RecipientID string `json:"recipientId"`
	RequestID   string `json:"requestId,omitempty"`
}

func (p FriendRequestPayload) Validate() error {
	if p.RecipientID == "" {
		return errors.New("recipientId is required")
	}
	return nil
}

// FriendRequestNotice tells the recipient who the request came from
type FriendRequestNotice struct {
	From      Identity `json:"from"`
	RequestID string   `json:"requestId,omitempty"`
}

// ErrorPayload is emitted back to the originating connection only
type ErrorPayload struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}

// targetRoom picks the delivery room: the recipient's own-identity room
// for direct traffic, the shared group room otherwise.
func targetRoom(recipientID, groupID string) string {
	if groupID != "" {
		return groupRoom(groupID)
	}
	return recipientID
}

func groupRoom(groupID string) string {
	return "group:" + groupID
}
