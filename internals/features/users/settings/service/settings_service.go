package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	settingModel "schoolku_backend/internals/features/users/settings/model"
)

// SettingsService membaca/menulis flag app_settings. Sengaja TANPA cache:
// flag izin harus dibaca ulang setiap request (lihat TeacherManageGate).
type SettingsService struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *SettingsService { return &SettingsService{DB: db} }

// IsEnabled: setting yang tidak ada dianggap false.
func (s *SettingsService) IsEnabled(ctx context.Context, name string) (bool, error) {
	var m settingModel.AppSettingModel
	err := s.DB.WithContext(ctx).
		Where("app_setting_name = ?", strings.TrimSpace(name)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.AppSettingIsEnabled, nil
}

func (s *SettingsService) Get(ctx context.Context, name string) (*settingModel.AppSettingModel, error) {
	var m settingModel.AppSettingModel
	err := s.DB.WithContext(ctx).
		Where("app_setting_name = ?", strings.TrimSpace(name)).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Set membuat atau menimpa satu setting (upsert per nama).
func (s *SettingsService) Set(ctx context.Context, name string, enabled bool) (*settingModel.AppSettingModel, error) {
	m := settingModel.AppSettingModel{
		AppSettingName:      strings.TrimSpace(name),
		AppSettingIsEnabled: enabled,
	}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "app_setting_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"app_setting_is_enabled", "app_setting_updated_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
