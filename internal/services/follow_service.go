package services

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/models"
	"gorm.io/gorm"
)

// FollowService owns the directed follow graph and its notification
// side effects.
type FollowService struct {
	db *gorm.DB

	// Emails of the well-known accounts every new user auto-follows.
	defaultEmails []string
}

func NewFollowService(db *gorm.DB, defaultEmails []string) *FollowService {
	return &FollowService{db: db, defaultEmails: defaultEmails}
}

// Follow creates the edge and exactly one notification for the target.
// Following yourself, or someone you already follow, is a no-op — a
// duplicate-key loss in a race counts as the existing-edge case.
func (s *FollowService) Follow(followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{
			ID:         uuid.New(),
			FollowerID: followerID,
			FollowedID: followedID,
		}
		if err := tx.Create(&follow).Error; err != nil {
			return err
		}

		notification := models.Notification{
			ID:        uuid.New(),
			UserID:    followedID,
			Kind:      models.NotificationKindFollow,
			SubjectID: followerID,
		}
		return tx.Create(&notification).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Unfollow removes the edge and the notification its creation produced.
// A missing edge is a no-op.
func (s *FollowService) Unfollow(followerID, followedID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("user_id = ? AND kind = ? AND subject_id = ?",
			followedID, models.NotificationKindFollow, followerID).
			Delete(&models.Notification{}).Error
	})
}

// IsFollowing reports whether a follows b. Indexed lookup, no list
// materialization.
func (s *FollowService) IsFollowing(a, b uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

// FollowedIDs returns every user the viewer follows.
func (s *FollowService) FollowedIDs(viewerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", viewerID).
		Pluck("followed_id", &ids).Error
	return ids, err
}

// FollowingOf reports which of the candidates the viewer follows, in one
// query.
func (s *FollowService) FollowingOf(viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(candidates))
	if len(candidates) == 0 {
		return result, nil
	}
	var ids []uuid.UUID
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id IN ?", viewerID, candidates).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// FollowersAmong reports which of the candidates follow the viewer, in
// one query.
func (s *FollowService) FollowersAmong(viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(candidates))
	if len(candidates) == 0 {
		return result, nil
	}
	var ids []uuid.UUID
	err := s.db.Model(&models.Follow{}).
		Where("followed_id = ? AND follower_id IN ?", viewerID, candidates).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// Flags bundles both directions of membership for a candidate set, for
// shaping a page of results without per-row queries.
func (s *FollowService) Flags(viewerID uuid.UUID, candidates []uuid.UUID) (following, followers map[uuid.UUID]bool, err error) {
	following, err = s.FollowingOf(viewerID, candidates)
	if err != nil {
		return nil, nil, err
	}
	followers, err = s.FollowersAmong(viewerID, candidates)
	if err != nil {
		return nil, nil, err
	}
	return following, followers, nil
}

// BootstrapDefaults follows each configured default account that exists.
// Absent accounts are skipped; nothing here may fail account creation,
// so failures are logged and swallowed.
func (s *FollowService) BootstrapDefaults(userID uuid.UUID) {
	for _, email := range s.defaultEmails {
		var account models.User
		err := s.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			slog.Error("default follow lookup failed", "error", err, "email", email)
			continue
		}
		if err := s.Follow(userID, account.ID); err != nil {
			slog.Error("default follow failed", "error", err, "user_id", userID.String())
		}
	}
}
