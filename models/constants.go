package models

// ✅ Message Types
const (
	MessageTypeText  = "text"
	MessageTypeVoice = "voice"
	MessageTypeImage = "image"
)

// ✅ Friend Request Statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// ✅ Voice Note Visibility
const (
	VisibilityPrivate = "private"
	VisibilityFriends = "friends"
	VisibilityPublic  = "public"
)

// Fixed-width UTC timestamp so Dynamo sort keys order lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
