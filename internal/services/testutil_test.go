// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopkit/catalog-backend/internal/models"
)

// newTestDB opens a fresh in-memory database per test. TranslateError
// is on, same as the real connection, so duplicate-key handling behaves
// identically under test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Category{},
		&models.Tag{},
		&models.Product{},
		&models.Media{},
	)
	require.NoError(t, err)

	return db
}
