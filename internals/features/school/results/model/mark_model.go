package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkModel adalah nilai satu siswa untuk satu mapel pada satu ujian
// dan tahun ajaran. Upload ulang meng-upsert lewat unique index
// komposit, tidak pernah duplikat.
type MarkModel struct {
	MarkID           uuid.UUID `gorm:"type:uuid;primaryKey;column:mark_id" json:"mark_id"`
	MarkStudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_marks_sitting;column:mark_student_id" json:"mark_student_id"`
	MarkSubjectID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_marks_sitting;column:mark_subject_id" json:"mark_subject_id"`
	MarkExamID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_marks_sitting;column:mark_exam_id" json:"mark_exam_id"`
	MarkAcademicYear string    `gorm:"type:varchar(9);not null;uniqueIndex:uq_marks_sitting;column:mark_academic_year" json:"mark_academic_year"`
	MarkClassID      uuid.UUID `gorm:"type:uuid;not null;index:idx_marks_class;column:mark_class_id" json:"mark_class_id"`
	MarkSectionID    uuid.UUID `gorm:"type:uuid;not null;index:idx_marks_section;column:mark_section_id" json:"mark_section_id"`
	MarkObtained     float64   `gorm:"not null;column:mark_obtained" json:"mark_obtained"`
	MarkFullMarks    float64   `gorm:"not null;column:mark_full_marks" json:"mark_full_marks"`
	MarkEnteredBy    uuid.UUID `gorm:"type:uuid;column:mark_entered_by" json:"mark_entered_by"`
	MarkCreatedAt    time.Time `gorm:"not null;autoCreateTime;column:mark_created_at" json:"mark_created_at"`
	MarkUpdatedAt    time.Time `gorm:"not null;autoUpdateTime;column:mark_updated_at" json:"mark_updated_at"`
}

func (MarkModel) TableName() string {
	return "marks"
}

func (m *MarkModel) BeforeCreate(tx *gorm.DB) error {
	if m.MarkID == uuid.Nil {
		m.MarkID = uuid.New()
	}
	return nil
}
