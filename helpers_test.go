package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(Config{
		DB:          openTestDB(t),
		AutoMigrate: true,
		Logger:      zap.NewNop().Sugar(),
	})
	require.NoError(t, err)
	return engine
}

func createUser(t *testing.T, e *Engine, user User, extraUnidades ...Unidade) {
	t.Helper()
	require.NoError(t, e.db.Create(&user).Error)
	for _, u := range extraUnidades {
		require.NoError(t, e.db.Create(&UserUnidade{UserID: user.ID, Unidade: u}).Error)
	}
}
