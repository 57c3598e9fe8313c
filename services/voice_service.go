package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"voxlink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// VoiceService owns the voice-note feed: creation, per-user listing,
// the friends feed with visibility gating, likes and comments.
type VoiceService struct {
	Dynamo Store
	Users  *UserService
}

const notePartitionLimit = 200

// CreateNote stores a new voice note referencing an uploaded audio object
func (vs *VoiceService) CreateNote(ctx context.Context, ownerID, title, mediaRef string, duration float64, transcription string, tags []string, visibility string) (*models.VoiceNote, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(mediaRef) == "" {
		return nil, fmt.Errorf("%w: title and audio are required", ErrEmptyContent)
	}
	switch visibility {
	case "":
		visibility = models.VisibilityFriends
	case models.VisibilityPrivate, models.VisibilityFriends, models.VisibilityPublic:
	default:
		return nil, fmt.Errorf("%w: unknown visibility %q", ErrInvalidQuery, visibility)
	}

	note := models.VoiceNote{
		OwnerID:       ownerID,
		NoteID:        uuid.New().String(),
		Title:         title,
		MediaRef:      mediaRef,
		Duration:      duration,
		Transcription: transcription,
		Tags:          cleanTags(tags),
		Visibility:    visibility,
		CreatedAt:     time.Now().UTC().Format(models.TimestampLayout),
	}

	if err := vs.Dynamo.PutItem(ctx, models.VoiceNotesTable, note); err != nil {
		return nil, fmt.Errorf("failed to store voice note: %w", err)
	}

	owner, err := vs.Users.GetPublicProfile(ctx, ownerID)
	if err == nil {
		note.Owner = owner
	}

	log.Printf("🎙 Voice note created: %s by %s", note.NoteID, ownerID)
	return &note, nil
}

// ListNotes returns one page of the owner's notes, newest first
func (vs *VoiceService) ListNotes(ctx context.Context, ownerID string, page, limit int) ([]models.VoiceNote, error) {
	notes, err := vs.notesFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt > notes[j].CreatedAt })
	notes = paginateNotes(notes, page, limit)
	vs.attachOwners(ctx, notes)
	return notes, nil
}

// Feed returns one page of notes visible to the user: their own, plus
// friends' notes whose visibility allows it.
func (vs *VoiceService) Feed(ctx context.Context, userID string, page, limit int) ([]models.VoiceNote, error) {
	profile, err := vs.Users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	owners := append([]string{userID}, profile.Friends...)
	var all []models.VoiceNote
	for _, ownerID := range owners {
		notes, err := vs.notesFor(ctx, ownerID)
		if err != nil {
			log.Printf("⚠️ Skipping notes for %s: %v", ownerID, err)
			continue
		}
		all = append(all, notes...)
	}

	visible := FilterFeed(userID, all)
	sort.Slice(visible, func(i, j int) bool { return visible[i].CreatedAt > visible[j].CreatedAt })
	visible = paginateNotes(visible, page, limit)
	vs.attachOwners(ctx, visible)
	return visible, nil
}

// LikeNote appends the user to the note's liked set; liking twice is a no-op
func (vs *VoiceService) LikeNote(ctx context.Context, userID, noteID string) error {
	note, err := vs.findNote(ctx, noteID)
	if err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"ownerId": &types.AttributeValueMemberS{Value: note.OwnerID},
		"noteId":  &types.AttributeValueMemberS{Value: note.NoteID},
	}
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberSS{Value: []string{userID}},
	}

	_, err = vs.Dynamo.UpdateItem(ctx, models.VoiceNotesTable, "ADD likedBy :user", key, expressionValues, nil)
	if err != nil {
		return fmt.Errorf("failed to like note: %w", err)
	}
	return nil
}

// CommentNote appends a comment to the note's comment list
func (vs *VoiceService) CommentNote(ctx context.Context, userID, noteID, text string) (*models.VoiceComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyContent
	}

	note, err := vs.findNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	comment := models.VoiceComment{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC().Format(models.TimestampLayout),
	}
	commentAttr, err := attributevalue.MarshalMap(comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comment: %w", err)
	}

	key := map[string]types.AttributeValue{
		"ownerId": &types.AttributeValueMemberS{Value: note.OwnerID},
		"noteId":  &types.AttributeValueMemberS{Value: note.NoteID},
	}
	expressionValues := map[string]types.AttributeValue{
		":comment": &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberM{Value: commentAttr}}},
		":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
	}

	_, err = vs.Dynamo.UpdateItem(ctx, models.VoiceNotesTable,
		"SET comments = list_append(if_not_exists(comments, :empty), :comment)", key, expressionValues, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to store comment: %w", err)
	}
	return &comment, nil
}

// FilterFeed applies visibility gating: the viewer always sees their own
// notes; anyone else's notes show only with friends or public visibility.
// Callers are expected to pass notes from the viewer and their friends.
func FilterFeed(viewerID string, notes []models.VoiceNote) []models.VoiceNote {
	visible := make([]models.VoiceNote, 0, len(notes))
	for _, note := range notes {
		if note.OwnerID == viewerID {
			visible = append(visible, note)
			continue
		}
		if note.Visibility == models.VisibilityFriends || note.Visibility == models.VisibilityPublic {
			visible = append(visible, note)
		}
	}
	return visible
}

func (vs *VoiceService) notesFor(ctx context.Context, ownerID string) ([]models.VoiceNote, error) {
	keyCondition := "ownerId = :owner"
	expressionValues := map[string]types.AttributeValue{
		":owner": &types.AttributeValueMemberS{Value: ownerID},
	}

	items, err := vs.Dynamo.QueryItems(ctx, models.VoiceNotesTable, keyCondition, expressionValues, nil, notePartitionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voice notes: %w", err)
	}

	var notes []models.VoiceNote
	if err := attributevalue.UnmarshalListOfMaps(items, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse voice notes: %w", err)
	}
	return notes, nil
}

func (vs *VoiceService) findNote(ctx context.Context, noteID string) (*models.VoiceNote, error) {
	keyCondition := "noteId = :nid"
	expressionValues := map[string]types.AttributeValue{
		":nid": &types.AttributeValueMemberS{Value: noteID},
	}

	items, err := vs.Dynamo.QueryItemsWithIndex(ctx, models.VoiceNotesTable, models.NoteIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to look up voice note: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	var note models.VoiceNote
	if err := attributevalue.UnmarshalMap(items[0], &note); err != nil {
		return nil, fmt.Errorf("failed to parse voice note: %w", err)
	}
	return &note, nil
}

func (vs *VoiceService) attachOwners(ctx context.Context, notes []models.VoiceNote) {
	profiles := make(map[string]*models.PublicProfile)
	for i := range notes {
		ownerID := notes[i].OwnerID
		profile, ok := profiles[ownerID]
		if !ok {
			var err error
			profile, err = vs.Users.GetPublicProfile(ctx, ownerID)
			if err != nil {
				profile = nil
			}
			profiles[ownerID] = profile
		}
		notes[i].Owner = profile
	}
}

func paginateNotes(notes []models.VoiceNote, page, limit int) []models.VoiceNote {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(notes) {
		return nil
	}
	end := start + limit
	if end > len(notes) {
		end = len(notes)
	}
	return notes[start:end]
}

func cleanTags(tags []string) []string {
	var cleaned []string
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
