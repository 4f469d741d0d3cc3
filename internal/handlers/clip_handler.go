package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/dto"
	"github.com/snowballopensource/snowball-api/internal/middleware"
	"github.com/snowballopensource/snowball-api/internal/presenter"
	"github.com/snowballopensource/snowball-api/internal/services"
)

type ClipHandler struct {
	clipService   *services.ClipService
	streamService *services.StreamService
	userService   *services.UserService
}

func NewClipHandler(clipService *services.ClipService, streamService *services.StreamService, userService *services.UserService) *ClipHandler {
	return &ClipHandler{clipService: clipService, streamService: streamService, userService: userService}
}

// Stream renders the viewer's home feed, or the anonymous default feed
// when no token was presented.
func (h *ClipHandler) Stream(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)
	page := c.QueryInt("page", 1)

	clips, err := h.streamService.GetStream(viewer, nil, page)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(clips)
}

// UserStream renders one user's clips, viewable with or without a token.
// The target must exist: an unknown id is 404, not an empty page.
func (h *ClipHandler) UserStream(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)
	page := c.QueryInt("page", 1)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("User not found"))
	}
	if _, err := h.userService.Get(id); err != nil {
		return renderError(c, err)
	}

	clips, err := h.streamService.GetStream(viewer, &id, page)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(clips)
}

func (h *ClipHandler) Create(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	var req dto.CreateClipRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	clip, err := h.clipService.Create(viewer.ID, req.VideoURL, req.ThumbnailURL)
	if err != nil {
		return renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(presenter.PresentClip(clip, viewer, viewer, false, nil))
}

func (h *ClipHandler) Delete(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("Clip not found"))
	}

	if err := h.clipService.Delete(viewer.ID, id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ClipHandler) Like(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("Clip not found"))
	}

	if err := h.clipService.Like(viewer.ID, id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *ClipHandler) Unlike(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("Clip not found"))
	}

	if err := h.clipService.Unlike(viewer.ID, id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ClipHandler) Flag(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("Clip not found"))
	}

	if err := h.clipService.Flag(viewer.ID, id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}
