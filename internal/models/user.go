package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the users collection. Verification and reset fields
// are pointers: a cleared field is absent from the document ($unset), never a
// zero value.
type User struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                   string             `bson:"name" json:"name"`
	Email                  string             `bson:"email" json:"email"`
	Phone                  string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash           string             `bson:"password_hash" json:"-"`
	AccountVerified        bool               `bson:"account_verified" json:"accountVerified"`
	VerificationCode       *int               `bson:"verification_code,omitempty" json:"-"`
	VerificationCodeExpire *time.Time         `bson:"verification_code_expire,omitempty" json:"-"`
	ResetPasswordTokenHash *string            `bson:"reset_password_token_hash,omitempty" json:"-"`
	ResetPasswordExpire    *time.Time         `bson:"reset_password_expire,omitempty" json:"-"`
	CreatedAt              time.Time          `bson:"created_at" json:"createdAt"`
}
