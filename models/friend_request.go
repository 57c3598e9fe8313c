package models

// FriendRequest is one entry in the recipient's pending queue.
// Keyed by (receiverId, senderId) so a conditional put can enforce
// at most one pending request per ordered pair.
type FriendRequest struct {
	ReceiverID string `dynamodbav:"receiverId" json:"receiverId"`
	SenderID   string `dynamodbav:"senderId" json:"senderId"`
	RequestID  string `dynamodbav:"requestId" json:"requestId"`
	Status     string `dynamodbav:"status" json:"status"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// FriendRequestWithProfile annotates a request with the sender's summary
type FriendRequestWithProfile struct {
	FriendRequest
	From PublicProfile `json:"from"`
}

// FriendRequestsTable is the DynamoDB table name for pending friend requests
const FriendRequestsTable = "FriendRequests"
