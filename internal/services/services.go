package services

import (
	"context"

	"github.com/fathima-sithara/user-auth-service/internal/models"
)

// Verification methods accepted at registration.
const (
	VerificationMethodEmail = "email"
	VerificationMethodPhone = "phone"
)

// RegisterInput carries the registration fields. Phone is optional unless
// VerificationMethod is "phone".
type RegisterInput struct {
	Name               string
	Email              string
	Phone              string
	Password           string
	VerificationMethod string
}

// AccountService is the account state machine: registration, OTP
// verification, login, and the forgot/reset password flow. Failures are
// returned as *apperr.Error so the HTTP boundary can map them.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) error
	VerifyOTP(ctx context.Context, email string, otp int) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirmPassword string) (*models.User, error)
}
