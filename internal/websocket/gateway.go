package websocket

import (
	"context"
	"encoding/json"

	"collabotree-be/internal/constant"
	"collabotree-be/internal/dto"
	"collabotree-be/internal/pkg/apperror"
	"collabotree-be/internal/pkg/logger"
	"collabotree-be/internal/service"

	"github.com/google/uuid"
)

// clientEvent is the single inbound payload shape. Missing or mistyped
// fields surface as validation failures, never as panics.
type clientEvent struct {
	Type          string    `json:"type"`
	HireRequestId uuid.UUID `json:"hire_request_id"`
	Body          string    `json:"body,omitempty"`
	MessageId     uuid.UUID `json:"message_id,omitempty"`
	IsTyping      bool      `json:"is_typing,omitempty"`
}

type serverFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func encodeFrame(frameType string, data interface{}) []byte {
	frame, _ := json.Marshal(serverFrame{Type: frameType, Data: data})
	return frame
}

func newMessageFrame(msg *dto.MessageResponse) []byte {
	return encodeFrame(constant.WSEventMessage, msg)
}

func newReadFrame(receipt *dto.ReadReceiptResponse) []byte {
	return encodeFrame(constant.WSEventReadAck, receipt)
}

func newJoinedFrame(room *dto.RoomContextResponse) []byte {
	return encodeFrame(constant.WSEventJoined, room)
}

func newTypingFrame(userID uuid.UUID, isTyping bool) []byte {
	return encodeFrame(constant.WSEventTyping, map[string]interface{}{
		"user_id":   userID,
		"is_typing": isTyping,
	})
}

func newErrorFrame(code, message string) []byte {
	return encodeFrame(constant.WSEventError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

// Gateway executes the per-connection protocol: join, send, read, typing,
// leave. Authorization is re-run against the hire request on every join,
// send, and read; a status change between events takes effect immediately.
type Gateway struct {
	hub      *Hub
	access   service.IAccessService
	rooms    service.IRoomService
	messages service.IMessageService
	logger   logger.ILogger
}

func NewGateway(
	hub *Hub,
	access service.IAccessService,
	rooms service.IRoomService,
	messages service.IMessageService,
	log logger.ILogger,
) *Gateway {
	return &Gateway{
		hub:      hub,
		access:   access,
		rooms:    rooms,
		messages: messages,
		logger:   log,
	}
}

// HandleEvent processes one inbound payload. All failures are answered
// with an error frame on the offending connection only; the connection
// itself stays up.
func (g *Gateway) HandleEvent(c *Client, raw []byte) {
	var evt clientEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		g.sendError(c, apperror.NewValidation("malformed event payload"))
		return
	}

	switch evt.Type {
	case constant.WSEventJoin:
		g.handleJoin(c, &evt)
	case constant.WSEventLeave:
		g.handleLeave(c, &evt)
	case constant.WSEventSend:
		g.handleSend(c, &evt)
	case constant.WSEventRead:
		g.handleRead(c, &evt)
	case constant.WSEventTyping:
		g.handleTyping(c, &evt)
	default:
		g.sendError(c, apperror.NewValidation("unknown event type"))
	}
}

// storageCtx bounds gateway-side storage access so a hung database call
// surfaces as an error event instead of a stuck connection.
func storageCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constant.StorageTimeout)
}

func (g *Gateway) handleJoin(c *Client, evt *clientEvent) {
	if evt.HireRequestId == uuid.Nil {
		g.sendError(c, apperror.NewValidation("hire_request_id is required"))
		return
	}

	ctx, cancel := storageCtx()
	defer cancel()

	hire, err := g.access.Authorize(ctx, c.UserID, c.Role, evt.HireRequestId)
	if err != nil {
		// Denied joins keep the connection authenticated; the client may
		// retry once the hire request is accepted.
		g.sendError(c, err)
		return
	}

	room, err := g.rooms.GetOrCreate(ctx, evt.HireRequestId)
	if err != nil {
		g.sendError(c, err)
		return
	}

	g.hub.JoinRoom(c, evt.HireRequestId)

	// Join confirmation goes to the caller only, not the room.
	g.send(c, newJoinedFrame(&dto.RoomContextResponse{
		RoomId:        room.Id,
		HireRequestId: hire.Id,
		BuyerId:       hire.BuyerId,
		StudentId:     hire.StudentId,
		ServiceTitle:  hire.ServiceTitle,
	}))

	g.logger.Info("Gateway", "Client joined room", map[string]interface{}{
		"user_id":         c.UserID,
		"hire_request_id": evt.HireRequestId,
	})
}

func (g *Gateway) handleLeave(c *Client, evt *clientEvent) {
	if c.CurrentRoom() == uuid.Nil {
		return
	}
	g.hub.LeaveRoom(c)
}

func (g *Gateway) handleSend(c *Client, evt *clientEvent) {
	if !g.hub.InRoom(c, evt.HireRequestId) {
		g.sendError(c, apperror.NewForbidden("join the room before sending"))
		return
	}

	ctx, cancel := storageCtx()
	defer cancel()

	// Send re-authorizes and appends; the broadcast itself arrives via the
	// chat bus, so the sender's other tabs receive the same single copy.
	if _, err := g.messages.Send(ctx, c.UserID, c.Role, evt.HireRequestId, evt.Body); err != nil {
		g.sendError(c, err)
		return
	}
}

func (g *Gateway) handleRead(c *Client, evt *clientEvent) {
	if !g.hub.InRoom(c, evt.HireRequestId) {
		g.sendError(c, apperror.NewForbidden("join the room before marking read"))
		return
	}
	if evt.MessageId == uuid.Nil {
		g.sendError(c, apperror.NewValidation("message_id is required"))
		return
	}

	ctx, cancel := storageCtx()
	defer cancel()

	// An already-read message returns no receipt and nothing is broadcast.
	if _, err := g.messages.MarkRead(ctx, c.UserID, c.Role, evt.HireRequestId, evt.MessageId); err != nil {
		g.sendError(c, err)
	}
}

func (g *Gateway) handleTyping(c *Client, evt *clientEvent) {
	if !g.hub.InRoom(c, evt.HireRequestId) {
		return
	}
	// Ephemeral: relayed to the other participants, never persisted.
	g.hub.BroadcastToRoom(evt.HireRequestId, newTypingFrame(c.UserID, evt.IsTyping), c.UserID)
}

func (g *Gateway) send(c *Client, frame []byte) {
	select {
	case c.Send <- frame:
	default:
		g.logger.Warn("Gateway", "Dropping frame, send buffer full", map[string]interface{}{"user_id": c.UserID})
	}
}

func (g *Gateway) sendError(c *Client, err error) {
	appErr := apperror.From(err)
	if appErr == nil {
		appErr = apperror.NewInternal(err)
	}
	if appErr.Kind == apperror.KindInternal {
		g.logger.Error("Gateway", "Internal failure", map[string]interface{}{
			"user_id": c.UserID,
			"error":   err.Error(),
		})
	}
	g.send(c, newErrorFrame(appErr.Code, appErr.Message))
}
