package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// Event names pushed to cove rooms. Clients treat every event as "refetch
// this collection": the authoritative state always comes from the server,
// so a failed optimistic write on the client is corrected by the next push.
const (
	EventQuoteChanged    = "quoteChanged"
	EventStoryChanged    = "storyChanged"
	EventPinChanged      = "pinChanged"
	EventCapsuleChanged  = "capsuleChanged"
	EventReactionChanged = "reactionChanged"
	EventCoveChanged     = "coveChanged"
)

// Notifier publishes change events for a cove. Controllers call it after
// successful writes; a nil *Server is a no-op so services can be exercised
// without a socket layer.
type Notifier interface {
	NotifyCove(coveID, event string, payload interface{})
}

// Server wraps the socket.io server with one room per cove
type Server struct {
	io *socketio.Server
}

// NewSocketServer initializes and returns a new socket.io server
func NewSocketServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Println("socket connected:", c.ID())
		return nil
	})

	io.OnEvent("/", "joinCove", func(c socketio.Conn, coveID string) {
		if coveID == "" {
			log.Println("joinCove with empty coveId")
			return
		}
		log.Printf("socket %s joined cove room %s", c.ID(), coveID)
		c.Join(roomForCove(coveID))
	})

	io.OnEvent("/", "leaveCove", func(c socketio.Conn, coveID string) {
		c.Leave(roomForCove(coveID))
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("socket disconnected:", c.ID(), reason)
	})

	return &Server{io: io}
}

// IO exposes the underlying socket.io server for HTTP mounting
func (s *Server) IO() *socketio.Server {
	return s.io
}

// Serve runs the socket.io event loop
func (s *Server) Serve() error {
	return s.io.Serve()
}

// Close shuts the event loop down
func (s *Server) Close() error {
	return s.io.Close()
}

// NotifyCove broadcasts an event to everyone in the cove's room
func (s *Server) NotifyCove(coveID, event string, payload interface{}) {
	if s == nil {
		return
	}
	s.io.BroadcastToRoom("/", roomForCove(coveID), event, payload)
}

func roomForCove(coveID string) string {
	return "cove:" + coveID
}
