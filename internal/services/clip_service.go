package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/models"
	"gorm.io/gorm"
)

type ClipService struct {
	db *gorm.DB
}

func NewClipService(db *gorm.DB) *ClipService {
	return &ClipService{db: db}
}

func (s *ClipService) Create(ownerID uuid.UUID, videoURL string, thumbnailURL *string) (*models.Clip, error) {
	if strings.TrimSpace(videoURL) == "" {
		return nil, apperror.Validation("video", "Video can't be blank")
	}

	clip := models.Clip{
		ID:           uuid.New(),
		UserID:       ownerID,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
	}
	if err := s.db.Create(&clip).Error; err != nil {
		return nil, fmt.Errorf("failed to create clip: %w", err)
	}
	return &clip, nil
}

func (s *ClipService) Get(id uuid.UUID) (*models.Clip, error) {
	var clip models.Clip
	err := s.db.First(&clip, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Clip not found")
	}
	if err != nil {
		return nil, err
	}
	return &clip, nil
}

// Delete removes a clip and its like/flag associations. Only the owner
// may delete.
func (s *ClipService) Delete(actorID, clipID uuid.UUID) error {
	clip, err := s.Get(clipID)
	if err != nil {
		return err
	}
	if clip.UserID != actorID {
		return apperror.Forbidden("You can only delete your own clips.")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("clip_id = ?", clipID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("clip_id = ?", clipID).Delete(&models.Flag{}).Error; err != nil {
			return err
		}
		return tx.Delete(clip).Error
	})
}

// Like is idempotent: liking an already-liked clip, including losing a
// race to a concurrent like, succeeds without a second row.
func (s *ClipService) Like(userID, clipID uuid.UUID) error {
	if _, err := s.Get(clipID); err != nil {
		return err
	}

	like := models.Like{ID: uuid.New(), UserID: userID, ClipID: clipID}
	err := s.db.Create(&like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Unlike is a no-op when no like exists.
func (s *ClipService) Unlike(userID, clipID uuid.UUID) error {
	return s.db.Where("user_id = ? AND clip_id = ?", userID, clipID).Delete(&models.Like{}).Error
}

// Flag records an abuse report. Reports are append-only; repeat flags
// from the same reporter are all kept.
func (s *ClipService) Flag(reporterID, clipID uuid.UUID) error {
	if _, err := s.Get(clipID); err != nil {
		return err
	}

	flag := models.Flag{ID: uuid.New(), ClipID: clipID, ReporterID: reporterID}
	return s.db.Create(&flag).Error
}
