package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/services"
)

type ImageHandler struct {
	images  *services.ImageService
	checker *services.PermissionChecker
}

func NewImageHandler(images *services.ImageService, checker *services.PermissionChecker) *ImageHandler {
	return &ImageHandler{images: images, checker: checker}
}

// Upload accepts a multipart form with the file in the "image" field.
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	hazardID, userID, err := h.authorize(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return apperr.Validation("image file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return apperr.Internal(err, "failed to read upload")
	}
	defer file.Close()

	image, err := h.images.Upload(c.UserContext(), services.UploadImageParams{
		HazardID:    hazardID,
		UploadedBy:  userID,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}
	return created(c, image)
}

func (h *ImageHandler) List(c *fiber.Ctx) error {
	hazardID, _, err := h.authorize(c)
	if err != nil {
		return err
	}
	images, err := h.images.List(c.UserContext(), hazardID)
	if err != nil {
		return err
	}
	return ok(c, images)
}

func (h *ImageHandler) authorize(c *fiber.Ctx) (hazardID, userID uint, err error) {
	if hazardID, err = paramID(c, "id"); err != nil {
		return 0, 0, err
	}
	if userID, err = currentUserID(c); err != nil {
		return 0, 0, err
	}
	if err = h.checker.CheckViewer(c.UserContext(), hazardID, userID); err != nil {
		return 0, 0, err
	}
	return hazardID, userID, nil
}
