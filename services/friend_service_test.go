package services

import (
	"context"
	"testing"

	"voxlink_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileStore answers GetItem on UserProfiles from a fixture set
func profileStore(t *testing.T, profiles ...models.UserProfile) func(context.Context, string, map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	byID := make(map[string]map[string]types.AttributeValue, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = marshalOne(t, p)
	}
	return func(_ context.Context, _ string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
		id := key["userId"].(*types.AttributeValueMemberS).Value
		item, ok := byID[id]
		if !ok {
			return nil, ErrNotFound
		}
		return item, nil
	}
}

func TestSendRequest(t *testing.T) {
	alice := models.UserProfile{UserID: "alice", Username: "alice"}
	bob := models.UserProfile{UserID: "bob", Username: "bob"}

	t.Run("stores a pending request", func(t *testing.T) {
		var stored models.FriendRequest
		store := &fakeStore{
			getItem: profileStore(t, alice, bob),
			putItemConditional: func(_ context.Context, tableName string, item interface{}, condition string, _ map[string]types.AttributeValue) error {
				assert.Equal(t, models.FriendRequestsTable, tableName)
				assert.Equal(t, "attribute_not_exists(senderId)", condition)
				stored = item.(models.FriendRequest)
				return nil
			},
		}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}

		require.NoError(t, fs.SendRequest(context.Background(), "alice", "bob"))
		assert.Equal(t, "bob", stored.ReceiverID)
		assert.Equal(t, "alice", stored.SenderID)
		assert.Equal(t, models.RequestStatusPending, stored.Status)
		assert.NotEmpty(t, stored.RequestID)
	})

	t.Run("rejects self-befriending", func(t *testing.T) {
		fs := &FriendService{Dynamo: &fakeStore{}, Users: &UserService{Dynamo: &fakeStore{}}}
		assert.ErrorIs(t, fs.SendRequest(context.Background(), "alice", "alice"), ErrSelfTarget)
	})

	t.Run("rejects an unknown recipient", func(t *testing.T) {
		store := &fakeStore{getItem: profileStore(t, alice)}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}
		assert.ErrorIs(t, fs.SendRequest(context.Background(), "alice", "ghost"), ErrNotFound)
	})

	t.Run("rejects an existing friend", func(t *testing.T) {
		bobWithAlice := models.UserProfile{UserID: "bob", Friends: []string{"alice"}}
		store := &fakeStore{getItem: profileStore(t, alice, bobWithAlice)}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}
		assert.ErrorIs(t, fs.SendRequest(context.Background(), "alice", "bob"), ErrAlreadyFriends)
	})

	t.Run("maps a duplicate pending request", func(t *testing.T) {
		store := &fakeStore{
			getItem: profileStore(t, alice, bob),
			putItemConditional: func(_ context.Context, _ string, _ interface{}, _ string, _ map[string]types.AttributeValue) error {
				return conditionFailed()
			},
		}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}
		assert.ErrorIs(t, fs.SendRequest(context.Background(), "alice", "bob"), ErrDuplicateRequest)
	})
}

func TestAcceptRequest(t *testing.T) {
	pending := models.FriendRequest{
		ReceiverID: "bob",
		SenderID:   "alice",
		RequestID:  "req-1",
		Status:     models.RequestStatusPending,
		CreatedAt:  "2024-05-01T10:00:00Z",
	}

	queue := func(t *testing.T, requests ...models.FriendRequest) func(context.Context, string, string, map[string]types.AttributeValue, map[string]string, int32) ([]map[string]types.AttributeValue, error) {
		items := make([]map[string]types.AttributeValue, 0, len(requests))
		for _, r := range requests {
			items = append(items, marshalOne(t, r))
		}
		return func(_ context.Context, _, _ string, _ map[string]types.AttributeValue, _ map[string]string, _ int32) ([]map[string]types.AttributeValue, error) {
			return items, nil
		}
	}

	t.Run("claims the request and writes both friend sets", func(t *testing.T) {
		var friendWrites []string
		store := &fakeStore{
			queryItems: queue(t, pending),
			deleteConditional: func(_ context.Context, tableName string, key map[string]types.AttributeValue, condition string, values map[string]types.AttributeValue, names map[string]string) error {
				assert.Equal(t, models.FriendRequestsTable, tableName)
				assert.Equal(t, "requestId = :rid AND #status = :pending", condition)
				assert.Equal(t, &types.AttributeValueMemberS{Value: "bob"}, key["receiverId"])
				assert.Equal(t, &types.AttributeValueMemberS{Value: "alice"}, key["senderId"])
				assert.Equal(t, map[string]string{"#status": "status"}, names)
				return nil
			},
			updateItem: func(_ context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, _ map[string]string) (map[string]types.AttributeValue, error) {
				assert.Equal(t, models.UserProfilesTable, tableName)
				assert.Equal(t, "ADD friends :friend", updateExpression)
				owner := key["userId"].(*types.AttributeValueMemberS).Value
				added := values[":friend"].(*types.AttributeValueMemberSS).Value
				require.Len(t, added, 1)
				friendWrites = append(friendWrites, owner+"+"+added[0])
				return nil, nil
			},
		}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}

		require.NoError(t, fs.AcceptRequest(context.Background(), "bob", "req-1"))
		assert.Equal(t, []string{"bob+alice", "alice+bob"}, friendWrites)
	})

	t.Run("returns not-found for an unknown request id", func(t *testing.T) {
		store := &fakeStore{queryItems: queue(t, pending)}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}
		assert.ErrorIs(t, fs.AcceptRequest(context.Background(), "bob", "other"), ErrNotFound)
	})

	t.Run("loses the claim race as not-found", func(t *testing.T) {
		store := &fakeStore{
			queryItems: queue(t, pending),
			deleteConditional: func(_ context.Context, _ string, _ map[string]types.AttributeValue, _ string, _ map[string]types.AttributeValue, _ map[string]string) error {
				return conditionFailed()
			},
		}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}
		assert.ErrorIs(t, fs.AcceptRequest(context.Background(), "bob", "req-1"), ErrNotFound)
	})

	t.Run("retries a transient failure on either friend-set write", func(t *testing.T) {
		tests := []struct {
			name        string
			failOnWrite int
			wantWrites  int
		}{
			{"recipient side fails once", 1, 3},
			{"sender side fails once", 2, 3},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				writes := 0
				var owners []string
				store := &fakeStore{
					queryItems: queue(t, pending),
					deleteConditional: func(_ context.Context, _ string, _ map[string]types.AttributeValue, _ string, _ map[string]types.AttributeValue, _ map[string]string) error {
						return nil
					},
					updateItem: func(_ context.Context, _, _ string, key, _ map[string]types.AttributeValue, _ map[string]string) (map[string]types.AttributeValue, error) {
						writes++
						owners = append(owners, key["userId"].(*types.AttributeValueMemberS).Value)
						if writes == tt.failOnWrite {
							return nil, assert.AnError
						}
						return nil, nil
					},
				}
				fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}

				require.NoError(t, fs.AcceptRequest(context.Background(), "bob", "req-1"))
				assert.Equal(t, tt.wantWrites, writes)
				// the failed side is retried before moving on
				assert.Equal(t, owners[tt.failOnWrite-1], owners[tt.failOnWrite])
			})
		}
	})
}

func TestRejectRequest(t *testing.T) {
	pending := models.FriendRequest{
		ReceiverID: "bob",
		SenderID:   "alice",
		RequestID:  "req-1",
		Status:     models.RequestStatusPending,
	}

	t.Run("removes the request without touching friend sets", func(t *testing.T) {
		deleted := false
		store := &fakeStore{
			queryItems: func(_ context.Context, _, _ string, _ map[string]types.AttributeValue, _ map[string]string, _ int32) ([]map[string]types.AttributeValue, error) {
				return []map[string]types.AttributeValue{marshalOne(t, pending)}, nil
			},
			deleteConditional: func(_ context.Context, _ string, _ map[string]types.AttributeValue, _ string, _ map[string]types.AttributeValue, _ map[string]string) error {
				deleted = true
				return nil
			},
			// updateItem stays nil: any friend-set write would fail the test
		}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}

		require.NoError(t, fs.RejectRequest(context.Background(), "bob", "req-1"))
		assert.True(t, deleted)
	})

	t.Run("returns not-found for a missing request", func(t *testing.T) {
		store := &fakeStore{
			queryItems: func(_ context.Context, _, _ string, _ map[string]types.AttributeValue, _ map[string]string, _ int32) ([]map[string]types.AttributeValue, error) {
				return nil, nil
			},
		}
		fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}
		assert.ErrorIs(t, fs.RejectRequest(context.Background(), "bob", "req-1"), ErrNotFound)
	})
}

func TestListRequests(t *testing.T) {
	alice := models.UserProfile{UserID: "alice", Username: "alice"}
	reqFromAlice := models.FriendRequest{ReceiverID: "bob", SenderID: "alice", RequestID: "req-1", Status: models.RequestStatusPending}
	reqFromGhost := models.FriendRequest{ReceiverID: "bob", SenderID: "ghost", RequestID: "req-2", Status: models.RequestStatusPending}

	store := &fakeStore{
		queryItems: func(_ context.Context, _, _ string, values map[string]types.AttributeValue, _ map[string]string, _ int32) ([]map[string]types.AttributeValue, error) {
			assert.Equal(t, &types.AttributeValueMemberS{Value: "bob"}, values[":receiver"])
			return []map[string]types.AttributeValue{marshalOne(t, reqFromAlice), marshalOne(t, reqFromGhost)}, nil
		},
		getItem: profileStore(t, alice),
	}
	fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}

	requests, err := fs.ListRequests(context.Background(), "bob")
	require.NoError(t, err)

	// the request from the deleted sender is skipped
	require.Len(t, requests, 1)
	assert.Equal(t, "req-1", requests[0].RequestID)
	assert.Equal(t, "alice", requests[0].From.Username)
}

func TestListFriends(t *testing.T) {
	bob := models.UserProfile{UserID: "bob", Friends: []string{"alice", "ghost"}}
	alice := models.UserProfile{UserID: "alice", Username: "alice"}

	store := &fakeStore{getItem: profileStore(t, bob, alice)}
	fs := &FriendService{Dynamo: store, Users: &UserService{Dynamo: store}}

	friends, err := fs.ListFriends(context.Background(), "bob")
	require.NoError(t, err)

	// dangling friend ids are skipped instead of failing the listing
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].Username)
}
