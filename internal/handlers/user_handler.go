package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/dto"
	"github.com/snowballopensource/snowball-api/internal/middleware"
	"github.com/snowballopensource/snowball-api/internal/models"
	"github.com/snowballopensource/snowball-api/internal/presenter"
	"github.com/snowballopensource/snowball-api/internal/services"
)

type UserHandler struct {
	userService   *services.UserService
	followService *services.FollowService
}

func NewUserHandler(userService *services.UserService, followService *services.FollowService) *UserHandler {
	return &UserHandler{userService: userService, followService: followService}
}

// Index searches users by exact username, or by a comma-separated list
// of phone numbers (the query form older clients send; newer ones use
// the phone-search endpoint). Username results are shaped without follow
// flags; clients fetch a profile for the relationship detail.
func (h *UserHandler) Index(c *fiber.Ctx) error {
	if raw := c.Query("phone_number"); raw != "" {
		viewer := middleware.CurrentUser(c)
		viewerID := uuid.Nil
		if viewer != nil {
			viewerID = viewer.ID
		}
		users, err := h.userService.SearchByPhones(viewerID, strings.Split(raw, ","))
		if err != nil {
			return renderError(c, err)
		}
		return h.renderWithFlags(c, viewer, users)
	}

	username := c.Query("username")
	if username == "" {
		return c.JSON([]presenter.User{})
	}

	users, err := h.userService.SearchByUsername(username)
	if err != nil {
		return renderError(c, err)
	}

	out := make([]presenter.User, 0, len(users))
	for i := range users {
		out = append(out, presenter.PresentUser(&users[i], nil, nil))
	}
	return c.JSON(out)
}

// PhoneSearch matches the viewer's address book against registered phone
// numbers. Each hit carries follow flags so the client can offer the
// right action inline.
func (h *UserHandler) PhoneSearch(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	var req dto.PhoneSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	users, err := h.userService.SearchByPhones(viewer.ID, req.PhoneNumbers)
	if err != nil {
		return renderError(c, err)
	}
	return h.renderWithFlags(c, viewer, users)
}

// renderWithFlags shapes a result set with bulk follow flags relative to
// the viewer, or without flags for anonymous requests.
func (h *UserHandler) renderWithFlags(c *fiber.Ctx, viewer *models.User, users []models.User) error {
	var following, followers map[uuid.UUID]bool
	if viewer != nil {
		ids := make([]uuid.UUID, len(users))
		for i := range users {
			ids[i] = users[i].ID
		}
		var err error
		following, followers, err = h.followService.Flags(viewer.ID, ids)
		if err != nil {
			return renderError(c, err)
		}
	}

	out := make([]presenter.User, 0, len(users))
	for i := range users {
		var flags *presenter.FollowFlags
		if viewer != nil {
			flags = &presenter.FollowFlags{
				Follower:  followers[users[i].ID],
				Following: following[users[i].ID],
			}
		}
		out = append(out, presenter.PresentUser(&users[i], viewer, flags))
	}
	return c.JSON(out)
}

// Show renders a single profile. "me" resolves to the authenticated
// user; a concrete id is viewable by anyone, with follow flags when a
// viewer is present.
func (h *UserHandler) Show(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	param := c.Params("id")
	if param == "me" {
		if viewer == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Unauthorized"})
		}
		return c.JSON(presenter.PresentUser(viewer, viewer, nil))
	}

	id, err := uuid.Parse(param)
	if err != nil {
		return renderError(c, apperror.NotFound("User not found"))
	}

	user, err := h.userService.Get(id)
	if err != nil {
		return renderError(c, err)
	}

	flags, err := h.profileFlags(viewer, user)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(presenter.PresentUser(user, viewer, flags))
}

func (h *UserHandler) profileFlags(viewer *models.User, subject *models.User) (*presenter.FollowFlags, error) {
	if viewer == nil || viewer.ID == subject.ID {
		return nil, nil
	}
	following, err := h.followService.IsFollowing(viewer.ID, subject.ID)
	if err != nil {
		return nil, err
	}
	follower, err := h.followService.IsFollowing(subject.ID, viewer.ID)
	if err != nil {
		return nil, err
	}
	return &presenter.FollowFlags{Follower: follower, Following: following}, nil
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("User not found"))
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	if err := h.userService.Update(viewer.ID, id, &req); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) RegisterDevice(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	var req dto.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	if err := h.userService.RegisterDevice(viewer.ID, req.Token, req.Platform); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}
