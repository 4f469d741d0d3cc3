package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a single account record. Email/password accounts and phone-only
// accounts share this shape, which is why the unique columns are nullable:
// a phone-created user has no username or email yet, and NULLs never
// collide under the unique indexes.
type User struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string    `gorm:"size:100" json:"name"`
	Username              *string   `gorm:"size:50;uniqueIndex" json:"username"`
	Email                 *string   `gorm:"size:255;uniqueIndex" json:"email"`
	PhoneNumber           *string   `gorm:"size:20;uniqueIndex" json:"-"`
	PasswordDigest        string    `gorm:"size:100" json:"-"`
	AuthToken             string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	PhoneVerificationCode *string   `gorm:"size:10" json:"-"`
	AvatarURL             *string   `gorm:"size:500" json:"avatar_url"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
