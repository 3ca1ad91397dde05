package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID           uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_id" json:"subject_id"`
	SubjectClassID      uuid.UUID `gorm:"type:uuid;not null;index:idx_subjects_class;column:subject_class_id" json:"subject_class_id"`
	SubjectAcademicYear string    `gorm:"type:varchar(9);not null;column:subject_academic_year" json:"subject_academic_year"`
	SubjectName         string    `gorm:"type:varchar(120);not null;column:subject_name" json:"subject_name"`
	SubjectCreatedAt    time.Time `gorm:"not null;autoCreateTime;column:subject_created_at" json:"subject_created_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (s *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if s.SubjectID == uuid.Nil {
		s.SubjectID = uuid.New()
	}
	return nil
}

// Exam TIDAK di-scope per tahun; sitting konkret = exam + class + section +
// academic year (lihat result lock).
type ExamModel struct {
	ExamID        uuid.UUID `gorm:"type:uuid;primaryKey;column:exam_id" json:"exam_id"`
	ExamName      string    `gorm:"type:varchar(80);not null;uniqueIndex:uq_exams_name;column:exam_name" json:"exam_name"`
	ExamCreatedAt time.Time `gorm:"not null;autoCreateTime;column:exam_created_at" json:"exam_created_at"`
}

func (ExamModel) TableName() string { return "exams" }

func (e *ExamModel) BeforeCreate(tx *gorm.DB) error {
	if e.ExamID == uuid.Nil {
		e.ExamID = uuid.New()
	}
	return nil
}
