package models

// UserProfile defines the structure for user accounts
type UserProfile struct {
	UserID       string   `dynamodbav:"userId" json:"userId"`
	Username     string   `dynamodbav:"username" json:"username"`
	Email        string   `dynamodbav:"email" json:"email"`
	PasswordHash string   `dynamodbav:"passwordHash" json:"-"`
	ProfilePic   string   `dynamodbav:"profilePic,omitempty" json:"profilePic,omitempty"`
	Bio          string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Friends      []string `dynamodbav:"friends,stringset,omitempty" json:"friends,omitempty"`
	IsOnline     bool     `dynamodbav:"isOnline" json:"isOnline"`
	LastSeen     string   `dynamodbav:"lastSeen,omitempty" json:"lastSeen,omitempty"`
	LastLogin    string   `dynamodbav:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// PublicProfile is the summary attached to requests, friends lists and messages
type PublicProfile struct {
	UserID     string `dynamodbav:"userId" json:"userId"`
	Username   string `dynamodbav:"username" json:"username"`
	Email      string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	ProfilePic string `dynamodbav:"profilePic,omitempty" json:"profilePic,omitempty"`
	Bio        string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
}

// Public strips the profile down to the fields other users may see
func (p UserProfile) Public() PublicProfile {
	return PublicProfile{
		UserID:     p.UserID,
		Username:   p.Username,
		Email:      p.Email,
		ProfilePic: p.ProfilePic,
		Bio:        p.Bio,
	}
}

// HasFriend reports whether userID is already in the friend set
func (p UserProfile) HasFriend(userID string) bool {
	for _, id := range p.Friends {
		if id == userID {
			return true
		}
	}
	return false
}

// UserProfilesTable is the DynamoDB table name for user accounts
const UserProfilesTable = "UserProfiles"

// GSIs on UserProfiles
const (
	UsernameIndex = "username-index"
	EmailIndex    = "email-index"
)
