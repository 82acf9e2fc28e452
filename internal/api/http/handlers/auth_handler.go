package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/service"
	"github.com/spec-kit/account-service/pkg/apperrors"
)

// AccountService is the auth surface the handler depends on.
type AccountService interface {
	SignUp(ctx context.Context, input service.SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, input service.SignInInput) (*domain.User, error)
}

// AuthHandler exposes sign-up and sign-in endpoints.
type AuthHandler struct {
	accounts  AccountService
	validator *RequestValidator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts AccountService, validator *RequestValidator) *AuthHandler {
	return &AuthHandler{accounts: accounts, validator: validator}
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	user, err := h.accounts.SignUp(c.UserContext(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    dto.NewUserResponse(user),
	})
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	user, err := h.accounts.SignIn(c.UserContext(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Sign in successful",
		"data":    dto.NewUserResponse(user),
	})
}
