package websocket

import (
	"collabotree-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatSocketHandler authenticates and upgrades websocket connections.
// The bearer token is verified before the upgrade; a bad token is
// rejected with 401 and no socket is ever established.
type ChatSocketHandler struct {
	hub     *Hub
	gateway *Gateway
}

func NewChatSocketHandler(hub *Hub, gateway *Gateway) *ChatSocketHandler {
	return &ChatSocketHandler{hub: hub, gateway: gateway}
}

func (h *ChatSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/chat/ws", h.upgradeMiddleware, websocket.New(h.serveWs))
}

func (h *ChatSocketHandler) upgradeMiddleware(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	// Browsers cannot set headers on the websocket handshake, so the token
	// also rides a query parameter.
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}

	identity, err := serverutils.VerifyToken(tokenStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	ctx.Locals("user_id", identity.UserID.String())
	ctx.Locals("role", identity.Role)
	return ctx.Next()
}

func (h *ChatSocketHandler) serveWs(conn *websocket.Conn) {
	userIDStr, _ := conn.Locals("user_id").(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		conn.Close()
		return
	}
	role, _ := conn.Locals("role").(string)

	ServeClient(h.hub, h.gateway, conn, userID, role)
}
