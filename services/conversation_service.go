package services

import (
	"context"
	"fmt"
	"sort"

	"voxlink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConversationSummary is the derived per-counterparty entry in a user's
// conversation list. It is never stored; it is recomputed on every query.
type ConversationSummary struct {
	CounterpartyID string                `json:"counterpartyId"`
	Counterparty   *models.PublicProfile `json:"counterparty,omitempty"`
	LastMessage    models.Message        `json:"lastMessage"`
	UnreadCount    int                   `json:"unreadCount"`
}

// AggregateConversations folds every direct message involving the user into
// one summary per counterparty: last message plus unread-to-user count,
// sorted by last-message time descending.
func (cs *ChatService) AggregateConversations(ctx context.Context, userID string) ([]ConversationSummary, error) {
	sent, err := cs.messagesByIndex(ctx, models.SenderIDIndex, "senderId = :id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent messages: %w", err)
	}
	received, err := cs.messagesByIndex(ctx, models.RecipientIDIndex, "recipientId = :id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch received messages: %w", err)
	}

	summaries := FoldConversations(userID, append(sent, received...))

	for i := range summaries {
		profile, err := cs.Users.GetPublicProfile(ctx, summaries[i].CounterpartyID)
		if err != nil {
			continue
		}
		summaries[i].Counterparty = profile
		if summaries[i].LastMessage.SenderID == profile.UserID {
			summaries[i].LastMessage.Sender = profile
		}
	}

	return summaries, nil
}

// FoldConversations is the pure grouping step behind AggregateConversations.
// Group messages carry no counterparty and are skipped.
func FoldConversations(userID string, messages []models.Message) []ConversationSummary {
	byCounterparty := make(map[string]*ConversationSummary)
	seen := make(map[string]struct{}, len(messages))

	for _, msg := range messages {
		if msg.RecipientID == "" {
			continue
		}
		// a self-addressed message comes back from both the sender and
		// recipient indexes; count it once
		if msg.MessageID != "" {
			if _, dup := seen[msg.MessageID]; dup {
				continue
			}
			seen[msg.MessageID] = struct{}{}
		}
		counterparty := msg.RecipientID
		if msg.SenderID != userID {
			counterparty = msg.SenderID
		} else if msg.RecipientID == userID {
			// self-conversation: keep it keyed on the user
			counterparty = userID
		}

		summary, ok := byCounterparty[counterparty]
		if !ok {
			summary = &ConversationSummary{CounterpartyID: counterparty, LastMessage: msg}
			byCounterparty[counterparty] = summary
		} else if msg.CreatedAt > summary.LastMessage.CreatedAt {
			summary.LastMessage = msg
		}

		if msg.RecipientID == userID && !msg.IsRead {
			summary.UnreadCount++
		}
	}

	summaries := make([]ConversationSummary, 0, len(byCounterparty))
	for _, summary := range byCounterparty {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt > summaries[j].LastMessage.CreatedAt
	})
	return summaries
}

func (cs *ChatService) messagesByIndex(ctx context.Context, index, keyCondition, userID string) ([]models.Message, error) {
	expressionValues := map[string]types.AttributeValue{
		":id": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := cs.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, index, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}
