package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/apperr"
	"github.com/fathima-sithara/user-auth-service/internal/mailer"
	"github.com/fathima-sithara/user-auth-service/internal/models"
	"github.com/fathima-sithara/user-auth-service/internal/repository"
	"github.com/fathima-sithara/user-auth-service/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// maxRegistrationAttempts bounds unverified rows per email: a new
	// registration is rejected once more than this many already exist.
	maxRegistrationAttempts = 3

	resetTokenTTL = 55 * time.Minute
)

type accountService struct {
	users       repository.UserRepository
	email       mailer.EmailSender
	sms         mailer.SMSSender
	frontendURL string
	otpTTL      time.Duration
	logger      *zap.SugaredLogger
}

// NewAccountService wires the account service. otpTTL is how long a
// verification code stays valid.
func NewAccountService(
	users repository.UserRepository,
	email mailer.EmailSender,
	sms mailer.SMSSender,
	frontendURL string,
	otpTTL time.Duration,
	logger *zap.SugaredLogger,
) AccountService {
	return &accountService{
		users:       users,
		email:       email,
		sms:         sms,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		otpTTL:      otpTTL,
		logger:      logger,
	}
}

// Register creates an unverified account and dispatches its verification
// code. The account row persists even when dispatch fails; the caller must
// retry verification rather than re-register. Two concurrent registrations
// for the same email may both pass the attempt-count check; the cap is best
// effort by design.
func (s *accountService) Register(ctx context.Context, in RegisterInput) error {
	if in.VerificationMethod != VerificationMethodEmail && in.VerificationMethod != VerificationMethodPhone {
		return apperr.Validation("Invalid verification method")
	}
	if in.VerificationMethod == VerificationMethodPhone && in.Phone == "" {
		return apperr.Validation("Phone number is required for phone verification")
	}

	_, err := s.users.FindVerifiedByEmail(ctx, in.Email)
	if err == nil {
		return apperr.Conflict("Email is already registered")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return apperr.Internal(err)
	}

	attempts, err := s.users.CountUnverifiedByEmail(ctx, in.Email)
	if err != nil {
		return apperr.Internal(err)
	}
	if attempts > maxRegistrationAttempts {
		return apperr.RateLimit("You exceeded the maximum number of attempts (3). Please try again after an hour")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}

	code := utils.GenerateVerificationCode()
	expire := time.Now().Add(s.otpTTL)
	user := &models.User{
		Name:                   in.Name,
		Email:                  in.Email,
		Phone:                  in.Phone,
		PasswordHash:           string(hash),
		AccountVerified:        false,
		VerificationCode:       &code,
		VerificationCodeExpire: &expire,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return apperr.Internal(err)
	}

	if err := s.sendVerificationCode(ctx, user, code, in.VerificationMethod); err != nil {
		s.logger.Warnw("verification code dispatch failed", "email", in.Email, "method", in.VerificationMethod, "error", err)
		return apperr.Delivery("Verification code failed to send.")
	}
	return nil
}

func (s *accountService) sendVerificationCode(ctx context.Context, user *models.User, code int, method string) error {
	switch method {
	case VerificationMethodPhone:
		ttlMinutes := int(s.otpTTL / time.Minute)
		return s.sms.SendSMS(ctx, user.Phone, mailer.VerificationSMS(code, ttlMinutes))
	default:
		subject, html := mailer.VerificationEmail(code)
		return s.email.SendEmail(ctx, user.Email, subject, html)
	}
}

// VerifyOTP checks the submitted code against the newest unverified account
// for the email. Older duplicate registration attempts are pruned with an
// idempotent delete, so concurrent verification of the same email is safe.
func (s *accountService) VerifyOTP(ctx context.Context, email string, otp int) (*models.User, error) {
	entries, err := s.users.FindUnverifiedByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(entries) == 0 {
		return nil, apperr.NotFound("User not found")
	}

	user := entries[0]
	if len(entries) > 1 {
		if err := s.users.DeleteUnverifiedExcept(ctx, email, user.ID); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	if user.VerificationCode == nil || *user.VerificationCode != otp {
		return nil, apperr.Auth("Invalid OTP")
	}
	if user.VerificationCodeExpire == nil || time.Now().After(*user.VerificationCodeExpire) {
		return nil, apperr.Auth("OTP expired")
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	user.AccountVerified = true
	user.VerificationCode = nil
	user.VerificationCodeExpire = nil
	return &user, nil
}

// Login authenticates a verified account. Unknown email and wrong password
// produce the identical error so accounts cannot be enumerated.
func (s *accountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindVerifiedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Auth("Invalid email or password")
		}
		return nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Auth("Invalid email or password")
	}
	return user, nil
}

func (s *accountService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// ForgotPassword stores a hashed reset token on the verified account and
// emails the raw token inside a reset URL. On delivery failure the token
// fields are cleared again so a half-issued reset cannot linger.
func (s *accountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindVerifiedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}

	raw, hash, err := utils.NewResetToken()
	if err != nil {
		return apperr.Internal(err)
	}
	expire := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hash, expire); err != nil {
		return apperr.Internal(err)
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", s.frontendURL, raw)
	subject, html := mailer.ResetPasswordEmail(resetURL)
	if err := s.email.SendEmail(ctx, user.Email, subject, html); err != nil {
		s.logger.Warnw("reset password email dispatch failed", "email", user.Email, "error", err)
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Errorw("failed to clear reset token after dispatch failure", "email", user.Email, "error", clearErr)
		}
		return apperr.Delivery("Cannot send reset password email.")
	}
	return nil
}

// ResetPassword consumes a raw reset token. The stored hash is cleared on
// success, so a token can never be replayed.
func (s *accountService) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*models.User, error) {
	hash := utils.HashResetToken(token)
	user, err := s.users.FindByResetTokenHash(ctx, hash, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Auth("Reset password token is invalid or has been expired.")
		}
		return nil, apperr.Internal(err)
	}

	if password != confirmPassword {
		return nil, apperr.Validation("Password & confirm password do not match.")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		return nil, apperr.Internal(err)
	}

	user.PasswordHash = string(newHash)
	user.ResetPasswordTokenHash = nil
	user.ResetPasswordExpire = nil
	return user, nil
}
