package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"voxlink_server/models"
	"voxlink_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService owns direct and group messages: send, history, read state,
// deletion and the per-user conversation aggregation.
type ChatService struct {
	Dynamo Store
	Users  *UserService
}

const DefaultPageSize = 50

// SendText persists a text message and returns it with the sender attached
func (cs *ChatService) SendText(ctx context.Context, senderID, recipientID, groupID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	msg := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		GroupID:     groupID,
		Content:     content,
		MessageType: models.MessageTypeText,
	}
	return cs.store(ctx, &msg)
}

// SendVoice persists a voice message referencing an uploaded audio object
func (cs *ChatService) SendVoice(ctx context.Context, senderID, recipientID, groupID, mediaRef string, duration float64) (*models.Message, error) {
	if strings.TrimSpace(mediaRef) == "" {
		return nil, ErrEmptyContent
	}

	msg := models.Message{
		SenderID:      senderID,
		RecipientID:   recipientID,
		GroupID:       groupID,
		MessageType:   models.MessageTypeVoice,
		MediaRef:      mediaRef,
		MediaDuration: duration,
	}
	return cs.store(ctx, &msg)
}

// store validates addressing, stamps identity/time and persists.
// Persistence must complete before any fanout happens upstream.
func (cs *ChatService) store(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if err := validateAddress(msg.RecipientID, msg.GroupID); err != nil {
		return nil, err
	}

	if msg.RecipientID != "" {
		if _, err := cs.Users.GetProfile(ctx, msg.RecipientID); err != nil {
			return nil, err
		}
		msg.ConversationID = models.DirectConversationID(msg.SenderID, msg.RecipientID)
	} else {
		msg.ConversationID = models.GroupConversationID(msg.GroupID)
	}

	msg.MessageID = uuid.New().String()
	msg.CreatedAt = time.Now().UTC().Format(models.TimestampLayout)
	msg.SortKey = msg.CreatedAt + "#" + msg.MessageID
	msg.IsRead = false

	if err := cs.Dynamo.PutItem(ctx, models.MessagesTable, *msg); err != nil {
		log.Printf("❌ Failed to store message: %v", err)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	sender, err := cs.Users.GetPublicProfile(ctx, msg.SenderID)
	if err == nil {
		msg.Sender = sender
	}

	log.Printf("📩 Message stored: %s -> %s", msg.SenderID, msg.ConversationID)
	return msg, nil
}

// FetchHistory returns one page of a conversation in chronological order.
// For a direct counterparty it also marks that counterparty's messages to
// the caller as read, matching the "open the conversation" semantics.
func (cs *ChatService) FetchHistory(ctx context.Context, userID, recipientID, groupID string, page, limit int) ([]models.Message, error) {
	return cs.fetchHistory(ctx, userID, recipientID, groupID, page, limit, true)
}

// PeekHistory is FetchHistory without the read-marking side effect,
// used by the voice message listing.
func (cs *ChatService) PeekHistory(ctx context.Context, userID, recipientID, groupID string, page, limit int) ([]models.Message, error) {
	return cs.fetchHistory(ctx, userID, recipientID, groupID, page, limit, false)
}

func (cs *ChatService) fetchHistory(ctx context.Context, userID, recipientID, groupID string, page, limit int, markRead bool) ([]models.Message, error) {
	if err := validateAddress(recipientID, groupID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var conversationID string
	if groupID != "" {
		conversationID = models.GroupConversationID(groupID)
	} else {
		conversationID = models.DirectConversationID(userID, recipientID)
	}

	keyCondition := "conversationId = :cid"
	expressionValues := map[string]types.AttributeValue{
		":cid": &types.AttributeValueMemberS{Value: conversationID},
	}

	// newest first, enough rows to slice the requested page
	items, err := cs.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(page*limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	messages = PaginateNewestFirst(messages, page, limit)

	// reverse so the latest message lands at the bottom for the UI
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if err := cs.attachSenders(ctx, messages); err != nil {
		log.Printf("⚠️ Failed to attach sender profiles: %v", err)
	}

	if markRead && recipientID != "" {
		if err := cs.markConversationRead(ctx, conversationID, userID, recipientID); err != nil {
			log.Printf("⚠️ Failed to mark messages as read: %v", err)
		}
		for i := range messages {
			if messages[i].SenderID == recipientID {
				messages[i].IsRead = true
			}
		}
	}

	return messages, nil
}

// DeleteMessage hard-deletes a message; only the original sender may do so
func (cs *ChatService) DeleteMessage(ctx context.Context, requesterID, messageID string) error {
	keyCondition := "messageId = :mid"
	expressionValues := map[string]types.AttributeValue{
		":mid": &types.AttributeValueMemberS{Value: messageID},
	}

	items, err := cs.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.MessageIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return fmt.Errorf("failed to look up message: %w", err)
	}
	if len(items) == 0 {
		return ErrNotFound
	}

	var msg models.Message
	if err := attributevalue.UnmarshalMap(items[0], &msg); err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.SenderID != requesterID {
		return ErrForbidden
	}

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: msg.ConversationID},
		"sortKey":        &types.AttributeValueMemberS{Value: msg.SortKey},
	}
	if err := cs.Dynamo.DeleteItem(ctx, models.MessagesTable, key); err != nil {
		return err
	}

	log.Printf("🗑 Message %s deleted by %s", messageID, requesterID)
	return nil
}

// markConversationRead flips isRead on every unread message the
// counterparty sent to userID in this conversation.
func (cs *ChatService) markConversationRead(ctx context.Context, conversationID, userID, counterpartyID string) error {
	keyCondition := "conversationId = :cid"
	expressionValues := map[string]types.AttributeValue{
		":cid":    &types.AttributeValueMemberS{Value: conversationID},
		":sender": &types.AttributeValueMemberS{Value: counterpartyID},
		":false":  &types.AttributeValueMemberBOOL{Value: false},
	}

	items, err := cs.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, expressionValues, nil,
		"senderId = :sender AND isRead = :false")
	if err != nil {
		return fmt.Errorf("failed to fetch unread messages: %w", err)
	}

	for _, item := range items {
		sortKey := utils.ExtractString(item, "sortKey")
		if sortKey == "" {
			continue
		}
		key := map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			"sortKey":        &types.AttributeValueMemberS{Value: sortKey},
		}
		updateValues := map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		}
		if _, err := cs.Dynamo.UpdateItem(ctx, models.MessagesTable, "SET isRead = :true", key, updateValues, nil); err != nil {
			log.Printf("❌ Failed to mark message %s as read: %v", utils.ExtractString(item, "messageId"), err)
		}
	}

	return nil
}

func (cs *ChatService) attachSenders(ctx context.Context, messages []models.Message) error {
	profiles := make(map[string]*models.PublicProfile)
	for i := range messages {
		senderID := messages[i].SenderID
		profile, ok := profiles[senderID]
		if !ok {
			var err error
			profile, err = cs.Users.GetPublicProfile(ctx, senderID)
			if err != nil {
				profile = nil
			}
			profiles[senderID] = profile
		}
		messages[i].Sender = profile
	}
	return nil
}

// validateAddress enforces exactly one addressing mode per message
func validateAddress(recipientID, groupID string) error {
	if recipientID == "" && groupID == "" {
		return fmt.Errorf("%w: either recipientId or groupId is required", ErrInvalidQuery)
	}
	if recipientID != "" && groupID != "" {
		return fmt.Errorf("%w: recipientId and groupId are mutually exclusive", ErrInvalidQuery)
	}
	return nil
}

// PaginateNewestFirst slices one page out of a newest-first message list
func PaginateNewestFirst(messages []models.Message, page, limit int) []models.Message {
	start := (page - 1) * limit
	if start >= len(messages) {
		return nil
	}
	end := start + limit
	if end > len(messages) {
		end = len(messages)
	}
	return messages[start:end]
}
