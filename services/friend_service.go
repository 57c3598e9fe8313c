package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"voxlink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// FriendService owns the friend graph and the pending-request queue.
//
// Invariants enforced here:
//   - at most one pending request per ordered (sender, recipient) pair,
//     via a conditional put keyed on (receiverId, senderId)
//   - a recipient already friends with the sender never gets a request
//   - accept and reject race on the same request through a conditional
//     delete; the loser observes NotFound
type FriendService struct {
	Dynamo Store
	Users  *UserService
}

const requestQueueLimit = 100

// SendRequest appends a pending request to the recipient's queue
func (fs *FriendService) SendRequest(ctx context.Context, senderID, recipientID string) error {
	if senderID == recipientID {
		return ErrSelfTarget
	}

	recipient, err := fs.Users.GetProfile(ctx, recipientID)
	if err != nil {
		return err
	}
	if recipient.HasFriend(senderID) {
		return ErrAlreadyFriends
	}

	request := models.FriendRequest{
		ReceiverID: recipientID,
		SenderID:   senderID,
		RequestID:  uuid.New().String(),
		Status:     models.RequestStatusPending,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	// attribute_not_exists on the sort key rejects a second pending
	// request from the same sender, including the concurrent case
	err = fs.Dynamo.PutItemConditional(ctx, models.FriendRequestsTable, request, "attribute_not_exists(senderId)", nil)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrDuplicateRequest
		}
		return err
	}

	log.Printf("✅ Friend request stored: %s -> %s", senderID, recipientID)
	return nil
}

// AcceptRequest resolves a pending request: removes it from the queue and
// adds each party to the other's friend set.
//
// The queue delete is the linearization point. The two friend-set writes
// use Dynamo string-set ADD, which is idempotent, so a partially applied
// accept can be retried safely; both writes are retried here.
func (fs *FriendService) AcceptRequest(ctx context.Context, userID, requestID string) error {
	request, err := fs.findRequest(ctx, userID, requestID)
	if err != nil {
		return err
	}

	if err := fs.claimRequest(ctx, request); err != nil {
		return err
	}

	// the request is already claimed at this point, so both writes are
	// retried; the string-set ADDs are idempotent and converge
	if err := fs.addFriendWithRetry(ctx, userID, request.SenderID); err != nil {
		return fmt.Errorf("failed to add %s to %s's friend list: %w", request.SenderID, userID, err)
	}
	if err := fs.addFriendWithRetry(ctx, request.SenderID, userID); err != nil {
		return fmt.Errorf("failed to add %s to %s's friend list: %w", userID, request.SenderID, err)
	}

	log.Printf("🎉 Friend request accepted: %s ↔ %s", userID, request.SenderID)
	return nil
}

// RejectRequest removes a pending request without touching friend sets.
// A request that no longer exists fails with NotFound, matching accept.
func (fs *FriendService) RejectRequest(ctx context.Context, userID, requestID string) error {
	request, err := fs.findRequest(ctx, userID, requestID)
	if err != nil {
		return err
	}

	if err := fs.claimRequest(ctx, request); err != nil {
		return err
	}

	log.Printf("✅ Friend request rejected: %s from %s", requestID, request.SenderID)
	return nil
}

// ListRequests returns the pending queue with sender summaries attached
func (fs *FriendService) ListRequests(ctx context.Context, userID string) ([]models.FriendRequestWithProfile, error) {
	requests, err := fs.queueFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.FriendRequestWithProfile, 0, len(requests))
	for _, request := range requests {
		sender, err := fs.Users.GetPublicProfile(ctx, request.SenderID)
		if err != nil {
			// a deleted sender leaves a dangling request; skip it
			log.Printf("⚠️ Skipping request %s, sender %s unavailable: %v", request.RequestID, request.SenderID, err)
			continue
		}
		result = append(result, models.FriendRequestWithProfile{FriendRequest: request, From: *sender})
	}
	return result, nil
}

// ListFriends returns public summaries for the user's friend set
func (fs *FriendService) ListFriends(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	profile, err := fs.Users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]models.PublicProfile, 0, len(profile.Friends))
	for _, friendID := range profile.Friends {
		friend, err := fs.Users.GetPublicProfile(ctx, friendID)
		if err != nil {
			log.Printf("⚠️ Skipping friend %s: %v", friendID, err)
			continue
		}
		friends = append(friends, *friend)
	}
	return friends, nil
}

func (fs *FriendService) queueFor(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	keyCondition := "receiverId = :receiver"
	expressionValues := map[string]types.AttributeValue{
		":receiver": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := fs.Dynamo.QueryItems(ctx, models.FriendRequestsTable, keyCondition, expressionValues, nil, requestQueueLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend requests: %w", err)
	}

	var requests []models.FriendRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse friend requests: %w", err)
	}
	return requests, nil
}

func (fs *FriendService) findRequest(ctx context.Context, userID, requestID string) (*models.FriendRequest, error) {
	requests, err := fs.queueFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].RequestID == requestID {
			return &requests[i], nil
		}
	}
	return nil, ErrNotFound
}

// claimRequest deletes the request iff it is still the same pending request.
// Concurrent accept/reject: first claim wins, the loser gets NotFound.
func (fs *FriendService) claimRequest(ctx context.Context, request *models.FriendRequest) error {
	key := map[string]types.AttributeValue{
		"receiverId": &types.AttributeValueMemberS{Value: request.ReceiverID},
		"senderId":   &types.AttributeValueMemberS{Value: request.SenderID},
	}
	expressionValues := map[string]types.AttributeValue{
		":rid":     &types.AttributeValueMemberS{Value: request.RequestID},
		":pending": &types.AttributeValueMemberS{Value: models.RequestStatusPending},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}

	err := fs.Dynamo.DeleteItemConditional(ctx, models.FriendRequestsTable, key,
		"requestId = :rid AND #status = :pending", expressionValues, expressionNames)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (fs *FriendService) addFriendWithRetry(ctx context.Context, userID, friendID string) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if lastErr = fs.addFriend(ctx, userID, friendID); lastErr == nil {
			return nil
		}
		log.Printf("⚠️ Retrying friend-list write for %s (attempt %d): %v", userID, attempt+1, lastErr)
	}
	return lastErr
}

func (fs *FriendService) addFriend(ctx context.Context, userID, friendID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	expressionValues := map[string]types.AttributeValue{
		":friend": &types.AttributeValueMemberSS{Value: []string{friendID}},
	}

	_, err := fs.Dynamo.UpdateItem(ctx, models.UserProfilesTable, "ADD friends :friend", key, expressionValues, nil)
	return err
}
