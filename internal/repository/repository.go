package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is the persistence boundary for account state. All write
// operations touch a single document (or a single delete filter), so the
// service layer needs no transactions.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindVerifiedByEmail(ctx context.Context, email string) (*models.User, error)
	// FindUnverifiedByEmail returns unverified accounts for the email,
	// newest first (created_at desc, _id desc as the deterministic tie-break).
	FindUnverifiedByEmail(ctx context.Context, email string) ([]models.User, error)
	CountUnverifiedByEmail(ctx context.Context, email string) (int64, error)
	// DeleteUnverifiedExcept removes every unverified account for the email
	// other than keep. Idempotent: safe under concurrent execution.
	DeleteUnverifiedExcept(ctx context.Context, email string, keep primitive.ObjectID) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	// UpdatePassword stores the new hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	// FindByResetTokenHash matches only tokens whose expiry is after now.
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	// DeleteStaleUnverified removes unverified accounts created before cutoff.
	DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int64, error)
}
