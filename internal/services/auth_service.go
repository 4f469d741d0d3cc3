package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/models"
	"github.com/snowballopensource/snowball-api/internal/phone"
	"github.com/snowballopensource/snowball-api/internal/sms"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// How often token/code generation re-rolls on a uniqueness collision
// before giving up.
const maxGenerateAttempts = 5

type AuthService struct {
	db      *gorm.DB
	sender  sms.Sender
	follows *FollowService
}

func NewAuthService(db *gorm.DB, sender sms.Sender, follows *FollowService) *AuthService {
	return &AuthService{db: db, sender: sender, follows: follows}
}

// SignUp validates username, email, and password in that order, creates
// the account with a fresh auth token, and follows the default accounts.
func (s *AuthService) SignUp(username, email, password string) (*models.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	taken, err := usernameTaken(s.db, username, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("username", "That username is already taken. Try another one.")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("email", "That email address is already taken. Try another one.")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := s.generateAuthToken()
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:             uuid.New(),
		Username:       &username,
		Email:          &email,
		PasswordDigest: string(digest),
		AuthToken:      token,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a creation race; the pre-checks passed, so the
			// colliding value was inserted concurrently.
			return nil, apperror.Conflict("username", "That username or email address is already taken. Try another one.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.follows.BootstrapDefaults(user.ID)

	return &user, nil
}

// SignIn authenticates by email and password. The existing auth token is
// returned as-is; signing in does not rotate it.
func (s *AuthService) SignIn(email, password string) (*models.User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("A user with that email address does not exist. Try another one or sign up.")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return nil, apperror.Authentication("That password doesn't match. Try again.")
	}

	return &user, nil
}

// PhoneAuthStart normalizes the number, finds or creates the account,
// and always issues a fresh verification code. The second return value
// reports whether the account was created by this call.
func (s *AuthService) PhoneAuthStart(phoneNumber, name string) (*models.User, bool, error) {
	if strings.TrimSpace(phoneNumber) == "" {
		return nil, false, apperror.Validation("phone_number", "Phone number can't be blank")
	}

	normalized, err := phone.Normalize(phoneNumber)
	if err != nil {
		return nil, false, apperror.Validation("phone_number", "Phone number is an invalid number")
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, false, err
	}

	var user models.User
	created := false
	err = s.db.Where("phone_number = ?", normalized).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		token, err := s.generateAuthToken()
		if err != nil {
			return nil, false, err
		}
		user = models.User{
			ID:                    uuid.New(),
			Name:                  name,
			PhoneNumber:           &normalized,
			AuthToken:             token,
			PhoneVerificationCode: &code,
		}
		if err := s.db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Concurrent first contact from the same number:
				// adopt the winning row and just refresh its code.
				if err := s.db.Where("phone_number = ?", normalized).First(&user).Error; err != nil {
					return nil, false, err
				}
				break
			}
			return nil, false, fmt.Errorf("failed to create user: %w", err)
		}
		created = true
	case err != nil:
		return nil, false, err
	}

	if !created {
		if err := s.db.Model(&user).Update("phone_verification_code", code).Error; err != nil {
			return nil, false, err
		}
		user.PhoneVerificationCode = &code
	}

	// Fire and forget: delivery failures are the gateway's problem.
	if err := s.sender.SendVerificationCode(normalized, code); err != nil {
		slog.Error("verification text dispatch failed", "error", err, "user_id", user.ID.String())
	}

	return &user, created, nil
}

// PhoneVerify consumes a pending verification code. A mismatch, or no
// pending code at all, yields the same invalid-code error and leaves the
// auth token untouched. Success clears the code and rotates the token,
// invalidating prior sessions.
func (s *AuthService) PhoneVerify(userID uuid.UUID, code string) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	pending := ""
	if user.PhoneVerificationCode != nil {
		pending = *user.PhoneVerificationCode
	}
	if pending == "" || subtle.ConstantTimeCompare([]byte(pending), []byte(code)) != 1 {
		return nil, apperror.InvalidCode("Looks like you typed in incorrect numbers. Please try again.")
	}

	token, err := s.generateAuthToken()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"auth_token":              token,
		"phone_verification_code": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	user.AuthToken = token
	user.PhoneVerificationCode = nil
	return &user, nil
}

// generateAuthToken produces an opaque, unguessable token and re-rolls
// until it is unique. Tokens are never derived from account attributes.
func (s *AuthService) generateAuthToken() (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		token := base64.URLEncoding.EncodeToString(raw)

		var count int64
		if err := s.db.Model(&models.User{}).Where("auth_token = ?", token).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return token, nil
		}
	}
	return "", errors.New("could not generate a unique auth token")
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%04d", n), nil
}
