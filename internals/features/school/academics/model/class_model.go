package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Class di-scope per tahun ajaran: "Class 5" tahun 2025 adalah entitas yang
// berbeda dari "Class 5" tahun 2026 (kurikulum/section boleh berubah).
type ClassModel struct {
	ClassID           uuid.UUID `gorm:"type:uuid;primaryKey;column:class_id" json:"class_id"`
	ClassName         string    `gorm:"type:varchar(80);not null;column:class_name" json:"class_name"`
	ClassAcademicYear string    `gorm:"type:varchar(9);not null;index:idx_classes_year;column:class_academic_year" json:"class_academic_year"`
	ClassCreatedAt    time.Time `gorm:"not null;autoCreateTime;column:class_created_at" json:"class_created_at"`
}

func (ClassModel) TableName() string { return "classes" }

func (cl *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if cl.ClassID == uuid.Nil {
		cl.ClassID = uuid.New()
	}
	return nil
}

// Section selalu milik tepat satu Class.
type SectionModel struct {
	SectionID        uuid.UUID `gorm:"type:uuid;primaryKey;column:section_id" json:"section_id"`
	SectionClassID   uuid.UUID `gorm:"type:uuid;not null;index:idx_sections_class;column:section_class_id" json:"section_class_id"`
	SectionName      string    `gorm:"type:varchar(40);not null;column:section_name" json:"section_name"`
	SectionCreatedAt time.Time `gorm:"not null;autoCreateTime;column:section_created_at" json:"section_created_at"`
}

func (SectionModel) TableName() string { return "sections" }

func (s *SectionModel) BeforeCreate(tx *gorm.DB) error {
	if s.SectionID == uuid.Nil {
		s.SectionID = uuid.New()
	}
	return nil
}
