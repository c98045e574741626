package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/dto"
)

func TestErrorHandlerEnvelope(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantName     string
		wantMessage  string
		wantMessages int
	}{
		{"validation", apperr.Validation("email is required", "password is required"), 400, "ValidationError", "validation failed", 2},
		{"conflict", apperr.Conflict("analysis has already started"), 409, "ConflictError", "analysis has already started", 0},
		{"fiber error", fiber.NewError(fiber.StatusNotFound, "Cannot GET /boom"), 404, "NotFoundError", "Cannot GET /boom", 0},
		{"payload too large", fiber.ErrRequestEntityTooLarge, 413, "PayloadTooLargeError", "Request Entity Too Large", 0},
		{"internal details hidden", apperr.Internal(errors.New("dial tcp: refused"), "failed to load"), 500, "DatabaseUnavailableError", "Internal server error", 0},
		{"plain error", errors.New("boom"), 500, "DatabaseUnavailableError", "Internal server error", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/boom", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			var body dto.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if !body.Error || body.Name != tt.wantName || body.Message != tt.wantMessage {
				t.Fatalf("body = %+v", body)
			}
			if len(body.Messages) != tt.wantMessages {
				t.Fatalf("messages = %v", body.Messages)
			}
		})
	}
}
