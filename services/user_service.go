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
	"golang.org/x/crypto/bcrypt"
)

// UserService owns accounts: registration, credential checks, lookups,
// presence and the user search behind the friends UI.
type UserService struct {
	Dynamo Store
}

const searchResultCap = 20

// CreateAccount registers a new user with a bcrypt-hashed password
func (us *UserService) CreateAccount(ctx context.Context, username, email, password string) (*models.UserProfile, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 6 {
		return nil, fmt.Errorf("%w: username, email and a password of at least 6 characters are required", ErrInvalidQuery)
	}

	if existing, err := us.GetProfileByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateAccount
	}
	if existing, err := us.getProfileByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	profile := models.UserProfile{
		UserID:       uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := us.Dynamo.PutItemConditional(ctx, models.UserProfilesTable, profile, "attribute_not_exists(userId)", nil); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Printf("✅ Account created for %s", username)
	return &profile, nil
}

// Authenticate verifies email/password and stamps lastLogin
func (us *UserService) Authenticate(ctx context.Context, email, password string) (*models.UserProfile, error) {
	profile, err := us.GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	now := time.Now().UTC().Format(time.RFC3339)
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: profile.UserID},
	}
	_, err = us.Dynamo.UpdateItem(ctx, models.UserProfilesTable,
		"SET lastLogin = :now, updatedAt = :now",
		key,
		map[string]types.AttributeValue{":now": &types.AttributeValueMemberS{Value: now}},
		nil,
	)
	if err != nil {
		// login still succeeds; the stamp is advisory
		log.Printf("⚠️ Failed to stamp lastLogin for %s: %v", profile.UserID, err)
	}
	profile.LastLogin = now

	return profile, nil
}

// GetProfile retrieves a user profile by ID
func (us *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := us.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// GetPublicProfile returns the shareable summary for a user
func (us *UserService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	profile, err := us.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := profile.Public()
	return &public, nil
}

// GetProfileByEmail returns the profile for an email, or nil when absent
func (us *UserService) GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	keyCondition := "email = :email"
	expressionValues := map[string]types.AttributeValue{
		":email": &types.AttributeValueMemberS{Value: email},
	}

	items, err := us.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.EmailIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by email: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (us *UserService) getProfileByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	keyCondition := "username = :username"
	expressionValues := map[string]types.AttributeValue{
		":username": &types.AttributeValueMemberS{Value: username},
	}

	items, err := us.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.UsernameIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by username: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// SearchUsers does a case-insensitive substring match over username and email,
// excluding the requester. Queries shorter than 2 characters are rejected.
func (us *UserService) SearchUsers(ctx context.Context, query, excludeUserID string) ([]models.PublicProfile, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", ErrInvalidQuery)
	}
	needle := strings.ToLower(query)

	filterFunc := func(item map[string]types.AttributeValue) bool {
		username := strings.ToLower(utils.ExtractString(item, "username"))
		email := strings.ToLower(utils.ExtractString(item, "email"))
		return strings.Contains(username, needle) || strings.Contains(email, needle)
	}

	var matches []models.PublicProfile
	err := us.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, filterFunc, map[string]string{"userId": excludeUserID}, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	if len(matches) > searchResultCap {
		matches = matches[:searchResultCap]
	}
	return matches, nil
}

// SetPresence flips the online flag and stamps lastSeen; called by the
// socket layer on connect and on last-connection disconnect.
func (us *UserService) SetPresence(ctx context.Context, userID string, online bool) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	expressionValues := map[string]types.AttributeValue{
		":online":   &types.AttributeValueMemberBOOL{Value: online},
		":lastSeen": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	_, err := us.Dynamo.UpdateItem(ctx, models.UserProfilesTable, "SET isOnline = :online, lastSeen = :lastSeen", key, expressionValues, nil)
	if err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}
	return nil
}
