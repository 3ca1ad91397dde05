package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/constants"
	settingModel "schoolku_backend/internals/features/users/settings/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// :memory: hidup per koneksi, paksa pool satu koneksi
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&settingModel.AppSettingModel{}))
	return db
}

func TestIsEnabledMissingSettingIsFalse(t *testing.T) {
	svc := New(openTestDB(t))
	enabled, err := svc.IsEnabled(context.Background(), constants.SettingAllowTeachersManageStudents)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSetUpsertsPerName(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	ctx := context.Background()
	name := constants.SettingAllowTeachersManageStudents

	_, err := svc.Set(ctx, name, true)
	require.NoError(t, err)
	enabled, err := svc.IsEnabled(ctx, name)
	require.NoError(t, err)
	assert.True(t, enabled)

	// toggle tanpa baris baru
	_, err = svc.Set(ctx, name, false)
	require.NoError(t, err)
	enabled, err = svc.IsEnabled(ctx, name)
	require.NoError(t, err)
	assert.False(t, enabled)

	var count int64
	require.NoError(t, db.Model(&settingModel.AppSettingModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
