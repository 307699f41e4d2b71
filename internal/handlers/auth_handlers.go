package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/apperr"
	"github.com/fathima-sithara/user-auth-service/internal/middleware"
	"github.com/fathima-sithara/user-auth-service/internal/models"
	"github.com/fathima-sithara/user-auth-service/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	svc       services.AccountService
	validate  *validator.Validate
	jwtSecret string
	jwtTTL    time.Duration
	cookieTTL time.Duration
}

func NewHandler(svc services.AccountService, jwtSecret string, jwtTTL, cookieTTL time.Duration) *Handler {
	return &Handler{
		svc:       svc,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		cookieTTL: cookieTTL,
	}
}

type registerRequest struct {
	Name               string `json:"name" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone"`
	Password           string `json:"password" validate:"required,min=8,max=32"`
	VerificationMethod string `json:"verificationMethod" validate:"required,oneof=email phone"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperr.Validation(validationMessage(err))
	}

	in := services.RegisterInput{
		Name:               strings.TrimSpace(req.Name),
		Email:              normalizeEmail(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		Password:           req.Password,
		VerificationMethod: req.VerificationMethod,
	}
	if err := h.svc.Register(c.Context(), in); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Verification code successfully sent to %s", in.Name),
	})
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	// OTP arrives as a JSON number or string; coerced before comparison.
	OTP any `json:"otp" validate:"required"`
}

func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperr.Validation(validationMessage(err))
	}
	otp, err := coerceOTP(req.OTP)
	if err != nil {
		return apperr.Validation("OTP must be a number")
	}

	user, err := h.svc.VerifyOTP(c.Context(), normalizeEmail(req.Email), otp)
	if err != nil {
		return err
	}
	return h.sendToken(c, user, fiber.StatusOK, "Account verified")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperr.Validation("Email and password are required")
	}

	user, err := h.svc.Login(c.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, user, fiber.StatusOK, "User logged in successfully")
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now(),
		HTTPOnly: true,
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	user, ok := c.Locals(middleware.UserContextKey).(*models.User)
	if !ok {
		return apperr.Auth("User is not authenticated")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperr.Validation(validationMessage(err))
	}

	email := normalizeEmail(req.Email)
	if err := h.svc.ForgotPassword(c.Context(), email); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Email sent to %s successfully.", email),
	})
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperr.Validation(validationMessage(err))
	}

	user, err := h.svc.ResetPassword(c.Context(), token, req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return h.sendToken(c, user, fiber.StatusOK, "Reset Password Successfully.")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// coerceOTP accepts the OTP as either a JSON number or a numeric string.
func coerceOTP(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, errors.New("otp must be a number or numeric string")
	}
}

// validationMessage reports the first failed field in a client-friendly form.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return "All fields are required"
		case "email":
			return fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			return fmt.Sprintf("%s must have at least %s characters", fe.Field(), fe.Param())
		case "max":
			return fmt.Sprintf("%s cannot have more than %s characters", fe.Field(), fe.Param())
		case "oneof":
			return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("Validation failed on field %s", fe.Field())
		}
	}
	return "Invalid request"
}
