package models

import (
	"time"

	"github.com/google/uuid"
)

const NotificationKindFollow = "follow"

// Notification is owned by the user it notifies. SubjectID points at the
// record that triggered it (the follower, for kind "follow"), which lets
// an unfollow remove exactly the notification its follow created.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind      string    `gorm:"size:30;not null" json:"kind"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

// Device is a registered push target for a user. Delivery is handled by
// an external collaborator; this service only stores the registration.
type Device struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Platform  string    `gorm:"size:20" json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
