package models

import (
	"time"

	"github.com/google/uuid"
)

// Clip is a published video clip. Ownership is immutable after creation;
// CreatedAt drives feed ordering. The media itself lives behind the URLs,
// upload handling is not this service's concern.
type Clip struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	VideoURL     string    `gorm:"size:500;not null" json:"video_url"`
	ThumbnailURL *string   `gorm:"size:500" json:"thumbnail_url"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
}

// Like marks that a user liked a clip, at most once per pair.
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_pair" json:"user_id"`
	ClipID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_pair;index" json:"clip_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Clip      Clip      `gorm:"foreignKey:ClipID" json:"-"`
}

// Flag is an abuse report against a clip. Append-only: the same reporter
// may flag the same clip more than once.
type Flag struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClipID     uuid.UUID `gorm:"type:uuid;not null;index" json:"clip_id"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	CreatedAt  time.Time `json:"created_at"`
	Clip       Clip      `gorm:"foreignKey:ClipID" json:"-"`
	Reporter   User      `gorm:"foreignKey:ReporterID" json:"-"`
}
