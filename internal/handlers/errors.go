package handlers

import (
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/dto"
)

// ErrorHandler renders every error returned by a handler or middleware as
// the failure envelope. Server errors are logged and reported, and their
// details never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	resp := dto.ErrorResponse{Error: true, Name: apperr.KindInternal.Name()}

	var appErr *apperr.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Kind.Status()
		resp.Name = appErr.Kind.Name()
		resp.Message = appErr.Message
		resp.Messages = appErr.Messages
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		resp.Name = nameForStatus(code)
		resp.Message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"trace_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		resp.Message = "Internal server error"
		resp.Messages = nil
	}

	return c.Status(code).JSON(resp)
}

func nameForStatus(code int) string {
	switch code {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperr.KindValidation.Name()
	case fiber.StatusUnauthorized:
		return apperr.KindUnauthorized.Name()
	case fiber.StatusForbidden:
		return apperr.KindForbidden.Name()
	case fiber.StatusNotFound:
		return apperr.KindNotFound.Name()
	case fiber.StatusConflict:
		return apperr.KindConflict.Name()
	case fiber.StatusRequestEntityTooLarge:
		return "PayloadTooLargeError"
	case fiber.StatusTooManyRequests:
		return "TooManyRequestsError"
	case fiber.StatusMethodNotAllowed:
		return "MethodNotAllowedError"
	default:
		if code >= fiber.StatusInternalServerError {
			return apperr.KindInternal.Name()
		}
		return "HTTPError"
	}
}
