package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/dto"
	"github.com/snowballopensource/snowball-api/internal/presenter"
	"github.com/snowballopensource/snowball-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	user, err := h.authService.SignUp(req.Username, req.Email, req.Password)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(presenter.PresentUserWithToken(user))
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	user, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		// The unknown-email message renders as 400 here, not 404: the
		// client treats every sign-in failure the same way.
		var appErr *apperror.AppError
		if errors.Is(err, apperror.ErrNotFound) && errors.As(err, &appErr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: appErr.Message})
		}
		return renderError(c, err)
	}

	return c.JSON(presenter.PresentUserWithToken(user))
}

func (h *AuthHandler) PhoneAuth(c *fiber.Ctx) error {
	var req dto.PhoneAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	user, created, err := h.authService.PhoneAuthStart(req.PhoneNumber, req.Name)
	if err != nil {
		return renderError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(presenter.PresentUser(user, nil, nil))
}

func (h *AuthHandler) PhoneVerification(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return renderError(c, apperror.NotFound("User not found"))
	}

	var req dto.PhoneVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	user, err := h.authService.PhoneVerify(userID, req.PhoneNumberVerificationCode)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(presenter.PresentUserWithToken(user))
}
