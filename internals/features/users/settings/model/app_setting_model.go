package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppSettingModel struct {
	AppSettingID        uuid.UUID `gorm:"type:uuid;primaryKey;column:app_setting_id" json:"app_setting_id"`
	AppSettingName      string    `gorm:"type:varchar(80);not null;uniqueIndex:uq_app_settings_name;column:app_setting_name" json:"app_setting_name"`
	AppSettingIsEnabled bool      `gorm:"not null;default:false;column:app_setting_is_enabled" json:"app_setting_is_enabled"`
	AppSettingUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:app_setting_updated_at" json:"app_setting_updated_at"`
}

func (AppSettingModel) TableName() string { return "app_settings" }

func (s *AppSettingModel) BeforeCreate(tx *gorm.DB) error {
	if s.AppSettingID == uuid.Nil {
		s.AppSettingID = uuid.New()
	}
	return nil
}
