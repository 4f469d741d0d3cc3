package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/database"
	"github.com/snowballopensource/snowball-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. Each
// test gets its own so parallel tests cannot see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// An in-memory database exists per connection; pin the pool to one
	// so every query sees the migrated schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// seedUser inserts an email/password account directly, bypassing the
// sign-up flow, for tests that need existing rows.
func seedUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user := models.User{
		ID:        uuid.New(),
		Username:  &username,
		Email:     &email,
		AuthToken: "token-" + uuid.NewString(),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedClip(t *testing.T, db *gorm.DB, ownerID uuid.UUID, videoURL string) *models.Clip {
	t.Helper()

	clip := models.Clip{ID: uuid.New(), UserID: ownerID, VideoURL: videoURL}
	require.NoError(t, db.Create(&clip).Error)
	return &clip
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

// recordingSender captures verification texts instead of sending them.
type recordingSender struct {
	numbers []string
	codes   []string
	err     error
}

func (r *recordingSender) SendVerificationCode(phoneNumber, code string) error {
	r.numbers = append(r.numbers, phoneNumber)
	r.codes = append(r.codes, code)
	return r.err
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}
