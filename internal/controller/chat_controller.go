package controller

import (
	"strconv"

	"collabotree-be/internal/dto"
	"collabotree-be/internal/pkg/apperror"
	"collabotree-be/internal/pkg/serverutils"
	"collabotree-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	ListMessages(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
	UnreadCount(ctx *fiber.Ctx) error
}

type chatController struct {
	messages service.IMessageService
}

func NewChatController(messages service.IMessageService) IChatController {
	return &chatController{messages: messages}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware) // ✅ PROTECTED
	h.Get("hires/:hireId/messages", c.ListMessages)
	h.Post("hires/:hireId/messages", c.SendMessage)
	h.Post("hires/:hireId/messages/read", c.MarkRead)
	h.Get("hires/:hireId/messages/unread-count", c.UnreadCount)
}

func hireIDParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	hireID, err := uuid.Parse(ctx.Params("hireId"))
	if err != nil {
		return uuid.Nil, apperror.NewValidation("invalid hire request id")
	}
	return hireID, nil
}

func (c *chatController) ListMessages(ctx *fiber.Ctx) error {
	identity, err := serverutils.IdentityFromCtx(ctx)
	if err != nil {
		return err
	}
	hireID, err := hireIDParam(ctx)
	if err != nil {
		return err
	}

	var cursor *uuid.UUID
	if cursorStr := ctx.Query("cursor"); cursorStr != "" {
		parsed, err := uuid.Parse(cursorStr)
		if err != nil {
			return apperror.NewValidation("invalid cursor")
		}
		cursor = &parsed
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	res, err := c.messages.ListPage(ctx.Context(), identity.UserID, identity.Role, hireID, cursor, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	identity, err := serverutils.IdentityFromCtx(ctx)
	if err != nil {
		return err
	}
	hireID, err := hireIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messages.Send(ctx.Context(), identity.UserID, identity.Role, hireID, req.Body)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) MarkRead(ctx *fiber.Ctx) error {
	identity, err := serverutils.IdentityFromCtx(ctx)
	if err != nil {
		return err
	}
	hireID, err := hireIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.messages.MarkAllRead(ctx.Context(), identity.UserID, identity.Role, hireID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark messages read", res))
}

func (c *chatController) UnreadCount(ctx *fiber.Ctx) error {
	identity, err := serverutils.IdentityFromCtx(ctx)
	if err != nil {
		return err
	}
	hireID, err := hireIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.messages.UnreadCount(ctx.Context(), identity.UserID, identity.Role, hireID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get unread count", res))
}
