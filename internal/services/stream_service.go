package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/models"
	"github.com/snowballopensource/snowball-api/internal/presenter"
	"gorm.io/gorm"
)

// StreamPageSize is the fixed pagination window for every stream query;
// no stream request ever scans unbounded.
const StreamPageSize = 25

// StreamService assembles the ordered, paginated clip stream for a
// viewer. The whole page is resolved in a handful of bulk queries:
// clips, owners, the viewer's likes, and follow membership both ways.
type StreamService struct {
	db      *gorm.DB
	follows *FollowService

	// Email of the account whose clips back the anonymous stream.
	anonymousEmail string
}

func NewStreamService(db *gorm.DB, follows *FollowService, anonymousEmail string) *StreamService {
	return &StreamService{db: db, follows: follows, anonymousEmail: anonymousEmail}
}

// GetStream returns one page of the stream. With a target, it is that
// user's public clips. Without one, an authenticated viewer gets their
// own clips plus everyone they follow; an anonymous viewer falls back
// to the configured default account. Out-of-range pages are empty, not
// errors.
func (s *StreamService) GetStream(viewer *models.User, targetID *uuid.UUID, page int) ([]presenter.Clip, error) {
	if page < 1 {
		page = 1
	}

	ownerIDs, err := s.resolveOwners(viewer, targetID)
	if err != nil {
		return nil, err
	}
	if len(ownerIDs) == 0 {
		return []presenter.Clip{}, nil
	}

	var clips []models.Clip
	err = s.db.Where("user_id IN ?", ownerIDs).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * StreamPageSize).
		Limit(StreamPageSize).
		Find(&clips).Error
	if err != nil {
		return nil, err
	}
	if len(clips) == 0 {
		return []presenter.Clip{}, nil
	}

	return s.shapePage(viewer, clips)
}

func (s *StreamService) resolveOwners(viewer *models.User, targetID *uuid.UUID) ([]uuid.UUID, error) {
	if targetID != nil {
		return []uuid.UUID{*targetID}, nil
	}

	if viewer != nil {
		followed, err := s.follows.FollowedIDs(viewer.ID)
		if err != nil {
			return nil, err
		}
		return append(followed, viewer.ID), nil
	}

	var account models.User
	err := s.db.Where("LOWER(email) = ?", strings.ToLower(s.anonymousEmail)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []uuid.UUID{account.ID}, nil
}

func (s *StreamService) shapePage(viewer *models.User, clips []models.Clip) ([]presenter.Clip, error) {
	clipIDs := make([]uuid.UUID, len(clips))
	ownerSet := make(map[uuid.UUID]struct{})
	for i := range clips {
		clipIDs[i] = clips[i].ID
		ownerSet[clips[i].UserID] = struct{}{}
	}
	pageOwnerIDs := make([]uuid.UUID, 0, len(ownerSet))
	for id := range ownerSet {
		pageOwnerIDs = append(pageOwnerIDs, id)
	}

	var owners []models.User
	if err := s.db.Where("id IN ?", pageOwnerIDs).Find(&owners).Error; err != nil {
		return nil, err
	}
	ownersByID := make(map[uuid.UUID]*models.User, len(owners))
	for i := range owners {
		ownersByID[owners[i].ID] = &owners[i]
	}

	liked := make(map[uuid.UUID]bool)
	var following, followers map[uuid.UUID]bool
	if viewer != nil {
		var likes []models.Like
		err := s.db.Where("user_id = ? AND clip_id IN ?", viewer.ID, clipIDs).Find(&likes).Error
		if err != nil {
			return nil, err
		}
		for _, l := range likes {
			liked[l.ClipID] = true
		}

		following, followers, err = s.follows.Flags(viewer.ID, pageOwnerIDs)
		if err != nil {
			return nil, err
		}
	}

	items := make([]presenter.Clip, 0, len(clips))
	for i := range clips {
		clip := &clips[i]
		owner, ok := ownersByID[clip.UserID]
		if !ok {
			// Owner vanished under us; drop the orphan rather than render
			// a half-empty item.
			continue
		}

		var flags *presenter.FollowFlags
		if viewer != nil && owner.ID != viewer.ID {
			flags = &presenter.FollowFlags{
				Follower:  followers[owner.ID],
				Following: following[owner.ID],
			}
		}
		items = append(items, presenter.PresentClip(clip, owner, viewer, liked[clip.ID], flags))
	}
	return items, nil
}
