package serverutils

import (
	"os"

	"collabotree-be/internal/constant"
	"collabotree-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the verified outcome of a bearer credential. Token issuance
// belongs to the external auth service; this backend only verifies.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// VerifyToken validates a bearer token and extracts the identity claims.
// Shared by the REST middleware and the websocket handshake.
func VerifyToken(tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.NewUnauthorized("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.NewUnauthorized("invalid claims")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperror.NewUnauthorized("token missing user_id")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid user id in token")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = constant.RoleUser
	}

	return &Identity{UserID: userID, Role: role}, nil
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}

	identity, err := VerifyToken(authHeader[7:])
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	ctx.Locals("user_id", identity.UserID.String())
	ctx.Locals("role", identity.Role)
	return ctx.Next()
}

// IdentityFromCtx reads what JwtMiddleware stored on the request.
func IdentityFromCtx(ctx *fiber.Ctx) (*Identity, error) {
	userIDStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil, apperror.NewUnauthorized("missing identity")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid identity")
	}
	role, _ := ctx.Locals("role").(string)
	if role == "" {
		role = constant.RoleUser
	}
	return &Identity{UserID: userID, Role: role}, nil
}
