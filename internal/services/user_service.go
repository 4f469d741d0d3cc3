package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/dto"
	"github.com/snowballopensource/snowball-api/internal/models"
	"github.com/snowballopensource/snowball-api/internal/phone"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial profile update. Users may only update
// themselves.
func (s *UserService) Update(actorID, id uuid.UUID, req *dto.UpdateUserRequest) error {
	if actorID != id {
		return apperror.Forbidden("You can only update your own profile.")
	}
	if _, err := s.Get(id); err != nil {
		return err
	}

	updates := make(map[string]interface{})

	if req.Username != nil {
		if strings.TrimSpace(*req.Username) == "" {
			return apperror.Validation("username", "Username can't be blank")
		}
		if err := validateUsername(*req.Username); err != nil {
			return err
		}
		taken, err := usernameTaken(s.db, *req.Username, id)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Conflict("username", "That username is already taken. Try another one.")
		}
		updates["username"] = *req.Username
	}

	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return err
		}
		digest, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		updates["password_digest"] = string(digest)
	}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if len(updates) == 0 {
		return nil
	}

	err := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("username", "That username is already taken. Try another one.")
	}
	return err
}

// SearchByUsername finds users by exact username, case-insensitively.
func (s *UserService) SearchByUsername(username string) ([]models.User, error) {
	var users []models.User
	err := s.db.Where("LOWER(username) = ?", strings.ToLower(username)).Find(&users).Error
	return users, err
}

// SearchByPhones finds users whose phone numbers match any of the given
// literals after normalization. Blank and implausible literals are
// dropped rather than erroring, and the searching viewer is excluded
// from the results.
func (s *UserService) SearchByPhones(viewerID uuid.UUID, numbers []string) ([]models.User, error) {
	normalized := make([]string, 0, len(numbers))
	for _, raw := range numbers {
		n, err := phone.Normalize(raw)
		if err != nil {
			continue
		}
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	err := s.db.Where("phone_number IN ? AND id <> ?", normalized, viewerID).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// RegisterDevice stores a push-token registration. Re-registering the
// same token is a success, not a conflict.
func (s *UserService) RegisterDevice(userID uuid.UUID, token, platform string) error {
	if strings.TrimSpace(token) == "" {
		return apperror.Validation("token", "Token can't be blank")
	}

	device := models.Device{ID: uuid.New(), UserID: userID, Token: token, Platform: platform}
	err := s.db.Create(&device).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// FindByAuthToken resolves the account an opaque bearer token belongs
// to. Used by the auth middleware; the token column is unique-indexed.
func (s *UserService) FindByAuthToken(token string) (*models.User, error) {
	var user models.User
	err := s.db.Where("auth_token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// usernameTaken checks case-insensitively, optionally excluding one user
// (the updater themselves).
func usernameTaken(db *gorm.DB, username string, excludeID uuid.UUID) (bool, error) {
	query := db.Model(&models.User{}).Where("LOWER(username) = ?", strings.ToLower(username))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
