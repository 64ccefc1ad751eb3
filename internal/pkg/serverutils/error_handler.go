package serverutils

import (
	"errors"
	"log"

	"collabotree-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps errors bubbling out of controllers to JSON
// responses. AppError kinds keep their status and safe message; everything
// else becomes a generic 500 so internal details never leak.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr := apperror.From(err); appErr != nil {
			if appErr.Kind == apperror.KindInternal {
				log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), appErr.Err)
			}
			return ctx.Status(appErr.Status()).JSON(fiber.Map{
				"code":    appErr.Code,
				"message": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"code":    "HTTP_ERROR",
				"message": fiberErr.Message,
			})
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    "INTERNAL_ERROR",
			"message": "something went wrong",
		})
	}
}
