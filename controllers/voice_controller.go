package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"voxlink_server/helpers"
	"voxlink_server/middleware"
	"voxlink_server/services"

	"github.com/gorilla/mux"
)

// maxAudioBytes caps audio uploads at 10 MiB
const maxAudioBytes = 10 << 20

// VoiceController handles voice notes, the feed and voice messages
type VoiceController struct {
	Voice *services.VoiceService
	Chats *services.ChatService
	Media services.MediaStore
}

// NewVoiceController initializes the voice controller
func NewVoiceController(voice *services.VoiceService, chats *services.ChatService, media services.MediaStore) *VoiceController {
	return &VoiceController{Voice: voice, Chats: chats, Media: media}
}

// CreateNote handles POST /api/voice/notes (multipart audio + metadata)
func (c *VoiceController) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	mediaRef, ok := c.storeUploadedAudio(w, r)
	if !ok {
		return
	}

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)
	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	note, err := c.Voice.CreateNote(r.Context(), userID, r.FormValue("title"), mediaRef, duration,
		r.FormValue("transcription"), tags, r.FormValue("visibility"))
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to create voice note")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, helpers.APIResponse{
		Success: true,
		Message: "Voice note created successfully",
		Data:    note,
	})
}

// ListNotes handles GET /api/voice/notes?page=&limit=
func (c *VoiceController) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	notes, err := c.Voice.ListNotes(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "limit", 10))
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to fetch voice notes")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: notes})
}

// Feed handles GET /api/voice/feed?page=&limit=
func (c *VoiceController) Feed(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	notes, err := c.Voice.Feed(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "limit", 10))
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to fetch voice note feed")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: notes})
}

// SendVoiceMessage handles POST /api/voice/messages (multipart audio + addressing)
func (c *VoiceController) SendVoiceMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	mediaRef, ok := c.storeUploadedAudio(w, r)
	if !ok {
		return
	}

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	message, err := c.Chats.SendVoice(r.Context(), userID, r.FormValue("recipient"), r.FormValue("groupId"), mediaRef, duration)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to send voice message")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, helpers.APIResponse{
		Success: true,
		Message: "Voice message sent successfully",
		Data:    message,
	})
}

// GetVoiceMessages handles GET /api/voice/messages?recipientId=|groupId=
// History here does not alter read state; that side effect belongs to
// the text conversation endpoint.
func (c *VoiceController) GetVoiceMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", services.DefaultPageSize)

	messages, err := c.Chats.PeekHistory(r.Context(), userID, r.URL.Query().Get("recipientId"), r.URL.Query().Get("groupId"), page, limit)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to fetch messages")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: map[string]interface{}{"messages": messages}})
}

// LikeNote handles POST /api/voice/notes/{noteId}/like
func (c *VoiceController) LikeNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	noteID := mux.Vars(r)["noteId"]

	if err := c.Voice.LikeNote(r.Context(), userID, noteID); err != nil {
		helpers.WriteJSONError(w, err, "Failed to like voice note")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Message: "Voice note liked"})
}

// CommentNote handles POST /api/voice/notes/{noteId}/comments
func (c *VoiceController) CommentNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	noteID := mux.Vars(r)["noteId"]

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	comment, err := c.Voice.CommentNote(r.Context(), userID, noteID, payload.Text)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to comment on voice note")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, helpers.APIResponse{Success: true, Data: comment})
}

// MediaURL handles GET /api/voice/media?key= returning a presigned read URL
func (c *VoiceController) MediaURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "key is required"})
		return
	}

	url, err := c.Media.ReadURL(r.Context(), key)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to generate media URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: map[string]string{"url": url}})
}

// storeUploadedAudio validates and uploads the multipart "audio" part,
// returning the stored object key. Writes the error response itself.
func (c *VoiceController) storeUploadedAudio(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "Audio file is required and must be under 10MB"})
		return "", false
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "Audio file is required"})
		return "", false
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "Only audio files are allowed"})
		return "", false
	}

	key, err := c.Media.UploadAudio(r.Context(), file, contentType, header.Filename)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to store audio")
		return "", false
	}
	return key, true
}
