package socket

import (
	"context"
	"errors"
	"log"
	"strings"

	socketio "github.com/googollee/go-socket.io"

	"voxlink_server/middleware"
	"voxlink_server/services"
)

// roomBroadcaster is the slice of the socket engine delivery needs;
// *socketio.Server satisfies it, tests substitute a fake.
type roomBroadcaster interface {
	ForEach(namespace, room string, f socketio.EachFunc) bool
}

// Server wraps the Socket.IO engine with the session registry and the
// services events need.
type Server struct {
	IO       *socketio.Server
	Registry *Registry

	rooms  roomBroadcaster
	users  *services.UserService
	chats  *services.ChatService
	secret []byte
}

// NewServer builds the realtime server. Handshakes carry a JWT either as
// a "token" query parameter or a bearer Authorization header; connections
// that present neither, or an invalid token, are rejected.
func NewServer(users *services.UserService, chats *services.ChatService, secret []byte) *Server {
	s := &Server{
		IO:       socketio.NewServer(nil),
		Registry: NewRegistry(),
		users:    users,
		chats:    chats,
		secret:   secret,
	}
	s.rooms = s.IO

	s.IO.OnConnect("/", s.onConnect)
	s.IO.OnDisconnect("/", s.onDisconnect)
	s.IO.OnError("/", func(c socketio.Conn, err error) {
		log.Println("⚠️ Socket error:", err)
	})

	s.IO.OnEvent("/", EventJoinGroup, s.onJoinGroup)
	s.IO.OnEvent("/", EventLeaveGroup, s.onLeaveGroup)
	s.IO.OnEvent("/", EventSendMessage, s.onSendMessage)
	s.IO.OnEvent("/", EventVoiceMessageSent, s.onVoiceMessage)
	s.IO.OnEvent("/", EventTyping, s.onTyping)
	s.IO.OnEvent("/", EventFriendRequest, s.onFriendRequest)

	return s
}

func (s *Server) onConnect(c socketio.Conn) error {
	token := handshakeToken(c)
	if token == "" {
		log.Println("❌ Socket rejected: missing token")
		return errors.New("authentication required")
	}

	userID, username, err := middleware.VerifyToken(s.secret, token)
	if err != nil {
		log.Println("❌ Socket rejected: invalid token")
		return errors.New("invalid token")
	}

	s.Registry.Bind(c.ID(), Binding{UserID: userID, Username: username})
	// Every connection sits in its owner's identity room so direct
	// messages reach all of the user's open sessions.
	c.Join(userID)

	if err := s.users.SetPresence(context.Background(), userID, true); err != nil {
		log.Println("⚠️ Failed to mark user online:", err)
	}
	log.Printf("✅ Socket connected: %s (user %s)\n", c.ID(), userID)
	return nil
}

func (s *Server) onDisconnect(c socketio.Conn, reason string) {
	binding, ok, stillOnline := s.Registry.Unbind(c.ID())
	if !ok {
		return
	}
	if !stillOnline {
		if err := s.users.SetPresence(context.Background(), binding.UserID, false); err != nil {
			log.Println("⚠️ Failed to mark user offline:", err)
		}
	}
	log.Printf("❌ Socket disconnected: %s (%s)\n", c.ID(), reason)
}

func (s *Server) onJoinGroup(c socketio.Conn, groupID string) {
	if groupID == "" {
		log.Println("❌ Invalid groupId in join request")
		return
	}
	c.Join(groupRoom(groupID))
	log.Printf("👥 Connection %s joined group %s\n", c.ID(), groupID)
}

func (s *Server) onLeaveGroup(c socketio.Conn, groupID string) {
	if groupID == "" {
		return
	}
	c.Leave(groupRoom(groupID))
}

// onSendMessage persists the message, then fans it out. Persistence comes
// first: a message the sender saw confirmed must survive a restart.
func (s *Server) onSendMessage(c socketio.Conn, payload MessagePayload) {
	binding, ok := s.Registry.Lookup(c.ID())
	if !ok {
		return
	}
	if err := payload.Validate(); err != nil {
		c.Emit(EventMessageError, ErrorPayload{Event: EventSendMessage, Reason: err.Error()})
		return
	}

	msg, err := s.chats.SendText(context.Background(), binding.UserID, payload.RecipientID, payload.GroupID, payload.Content)
	if err != nil {
		log.Println("❌ Failed to store realtime message:", err)
		c.Emit(EventMessageError, ErrorPayload{Event: EventSendMessage, Reason: "message could not be delivered"})
		return
	}

	s.fanout(c.ID(), targetRoom(payload.RecipientID, payload.GroupID), EventNewMessage, msg)
	c.Emit(EventMessageSent, msg)
	log.Printf("📩 Realtime message %s delivered\n", msg.MessageID)
}

// onVoiceMessage relays a REST-persisted voice message so receivers can
// render it without a refetch.
func (s *Server) onVoiceMessage(c socketio.Conn, payload VoicePayload) {
	if _, ok := s.Registry.Lookup(c.ID()); !ok {
		return
	}
	if err := payload.Validate(); err != nil {
		c.Emit(EventMessageError, ErrorPayload{Event: EventVoiceMessageSent, Reason: err.Error()})
		return
	}
	s.fanout(c.ID(), targetRoom(payload.RecipientID, payload.GroupID), EventNewVoiceMessage, payload.Message)
	log.Printf("🎙 Voice message %s announced\n", payload.Message.MessageID)
}

func (s *Server) onTyping(c socketio.Conn, payload TypingPayload) {
	binding, ok := s.Registry.Lookup(c.ID())
	if !ok || payload.Validate() != nil {
		return
	}
	s.fanout(c.ID(), targetRoom(payload.RecipientID, payload.GroupID), EventUserTyping, TypingNotice{
		UserID:   binding.UserID,
		Username: binding.Username,
		IsTyping: payload.IsTyping,
	})
}

func (s *Server) onFriendRequest(c socketio.Conn, payload FriendRequestPayload) {
	binding, ok := s.Registry.Lookup(c.ID())
	if !ok {
		return
	}
	if err := payload.Validate(); err != nil {
		return
	}
	s.fanout(c.ID(), payload.RecipientID, EventNewFriendReq, FriendRequestNotice{
		From:      Identity{UserID: binding.UserID, Username: binding.Username},
		RequestID: payload.RequestID,
	})
}

// fanout emits to every connection in the room except the originator.
// The sender gets its own confirmation event instead of an echo.
func (s *Server) fanout(senderConnID, room, event string, v interface{}) {
	s.rooms.ForEach("/", room, func(conn socketio.Conn) {
		if conn.ID() == senderConnID {
			return
		}
		conn.Emit(event, v)
	})
}

func handshakeToken(c socketio.Conn) string {
	u := c.URL()
	if token := u.Query().Get("token"); token != "" {
		return token
	}
	auth := c.RemoteHeader().Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
