package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/second-brain/core/internal/config"
)

func TestResolveLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, resolveLogLevel(&config.AppConfig{Env: "development"}))
	assert.Equal(t, logger.Warn, resolveLogLevel(&config.AppConfig{Env: "production"}))
}

func TestCloseSQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectClose()
	require.NoError(t, CloseSQL(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
