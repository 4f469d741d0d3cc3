// Package presenter shapes outbound records relative to the viewer.
// What a response discloses depends on who is asking: a user sees their
// own email and phone number, sees follow flags on everyone else, and
// anonymous requests see neither.
package presenter

import (
	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/models"
)

// FollowFlags describes the relationship between a subject and the
// viewer. Follower: the subject follows the viewer. Following: the
// viewer follows the subject.
type FollowFlags struct {
	Follower  bool
	Following bool
}

type User struct {
	ID          uuid.UUID `json:"id"`
	Username    *string   `json:"username"`
	Email       *string   `json:"email,omitempty"`
	AvatarURL   *string   `json:"avatar_url"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Follower    *bool     `json:"follower,omitempty"`
	Following   *bool     `json:"following,omitempty"`
	AuthToken   string    `json:"auth_token,omitempty"`
}

type Clip struct {
	ID           uuid.UUID `json:"id"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	User         User      `json:"user"`
	Liked        bool      `json:"liked"`
	CreatedAt    int64     `json:"created_at"`
}

// PresentUser shapes a user record for the given viewer. Flags are only
// rendered when the viewer is present and not the subject; email and
// phone number only when the viewer is the subject.
func PresentUser(subject *models.User, viewer *models.User, flags *FollowFlags) User {
	u := User{
		ID:        subject.ID,
		Username:  subject.Username,
		AvatarURL: subject.AvatarURL,
	}

	if viewer == nil {
		return u
	}

	if viewer.ID == subject.ID {
		u.Email = subject.Email
		u.PhoneNumber = subject.PhoneNumber
		return u
	}

	if flags != nil {
		follower := flags.Follower
		following := flags.Following
		u.Follower = &follower
		u.Following = &following
	}
	return u
}

// PresentUserWithToken is PresentUser plus the auth token. Only the
// authentication flows (sign-up, sign-in, phone verification) use it.
func PresentUserWithToken(subject *models.User) User {
	u := PresentUser(subject, subject, nil)
	u.AuthToken = subject.AuthToken
	return u
}

// PresentClip shapes one feed item. The owner is shaped with the same
// viewer-relative rules as a direct profile lookup.
func PresentClip(clip *models.Clip, owner *models.User, viewer *models.User, liked bool, flags *FollowFlags) Clip {
	return Clip{
		ID:           clip.ID,
		VideoURL:     clip.VideoURL,
		ThumbnailURL: clip.ThumbnailURL,
		User:         PresentUser(owner, viewer, flags),
		Liked:        liked,
		CreatedAt:    clip.CreatedAt.Unix(),
	}
}
