package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tahun ajaran, mis. "2025". Class/Section/Subject/Enrollment di-scope
// ke nama tahun ini; satu tahun bisa ditandai aktif.
type AcademicYearModel struct {
	AcademicYearID        uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"academic_year_id"`
	AcademicYearName      string    `gorm:"type:varchar(9);not null;uniqueIndex:uq_academic_years_name;column:academic_year_name" json:"academic_year_name"`
	AcademicYearIsActive  bool      `gorm:"not null;default:false;column:academic_year_is_active" json:"academic_year_is_active"`
	AcademicYearCreatedAt time.Time `gorm:"not null;autoCreateTime;column:academic_year_created_at" json:"academic_year_created_at"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (y *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	if y.AcademicYearID == uuid.Nil {
		y.AcademicYearID = uuid.New()
	}
	return nil
}
