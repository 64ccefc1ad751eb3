package constant

import "time"

// Message body limits. The cap counts runes, not bytes, so multi-byte
// characters are not penalized.
const (
	MaxMessageBodyLen = 2000

	DefaultMessagePageSize = 20
	MaxMessagePageSize     = 50
)

// StorageTimeout bounds every storage call made from the websocket gateway
// so a hung database call surfaces as an error event instead of a stuck
// connection.
const StorageTimeout = 5 * time.Second

// Hire request statuses. Owned by the hire-request lifecycle service; this
// backend only reads them.
const (
	HireStatusPending   = "PENDING"
	HireStatusAccepted  = "ACCEPTED"
	HireStatusRejected  = "REJECTED"
	HireStatusCancelled = "CANCELLED"
	HireStatusCompleted = "COMPLETED"
)

// User roles carried in the identity token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Client -> server websocket event types.
const (
	WSEventJoin   = "join"
	WSEventLeave  = "leave"
	WSEventSend   = "send"
	WSEventRead   = "read"
	WSEventTyping = "typing"
)

// Server -> client websocket event types.
const (
	WSEventJoined  = "joined"
	WSEventMessage = "message"
	WSEventReadAck = "read"
	WSEventError   = "error"
)

// Notification type codes dispatched to the notification collaborator.
const (
	NotifChatMessageCreated = "CHAT_MESSAGE_CREATED"
)
