package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/middleware"
	"github.com/snowballopensource/snowball-api/internal/services"
)

type FollowHandler struct {
	followService *services.FollowService
	userService   *services.UserService
}

func NewFollowHandler(followService *services.FollowService, userService *services.UserService) *FollowHandler {
	return &FollowHandler{followService: followService, userService: userService}
}

func (h *FollowHandler) Follow(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("User not found"))
	}
	if _, err := h.userService.Get(id); err != nil {
		return renderError(c, err)
	}

	if err := h.followService.Follow(viewer.ID, id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *FollowHandler) Unfollow(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("User not found"))
	}

	if err := h.followService.Unfollow(viewer.ID, id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
