package models

// VoiceComment is an append-only comment on a voice note
type VoiceComment struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	Text      string `dynamodbav:"text" json:"text"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// VoiceNote is a social-feed audio post
type VoiceNote struct {
	OwnerID       string         `dynamodbav:"ownerId" json:"ownerId"`
	NoteID        string         `dynamodbav:"noteId" json:"noteId"`
	Title         string         `dynamodbav:"title" json:"title"`
	MediaRef      string         `dynamodbav:"mediaRef" json:"mediaRef"`
	Duration      float64        `dynamodbav:"duration" json:"duration"`
	Transcription string         `dynamodbav:"transcription,omitempty" json:"transcription,omitempty"`
	Tags          []string       `dynamodbav:"tags,stringset,omitempty" json:"tags,omitempty"`
	Visibility    string         `dynamodbav:"visibility" json:"visibility"`
	LikedBy       []string       `dynamodbav:"likedBy,stringset,omitempty" json:"likedBy,omitempty"`
	Comments      []VoiceComment `dynamodbav:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt     string         `dynamodbav:"createdAt" json:"createdAt"`
	Owner         *PublicProfile `dynamodbav:"-" json:"owner,omitempty"`
}

// VoiceNotesTable is the DynamoDB table name for voice notes
const VoiceNotesTable = "VoiceNotes"

// NoteIDIndex is the GSI used to resolve a note by its id alone
const NoteIDIndex = "noteId-index"
