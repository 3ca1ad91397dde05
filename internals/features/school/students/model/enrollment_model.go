package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollmentModel adalah penempatan satu siswa pada satu tahun ajaran:
// kelas, section, dan roll number. Satu siswa maksimal satu enrollment
// aktif per tahun, dan roll unik per (tahun, kelas, section).
// Keduanya dijaga di service (pengecekan dalam transaksi), bukan lewat
// partial index, supaya soft delete membebaskan slotnya.
type EnrollmentModel struct {
	EnrollmentID           uuid.UUID      `json:"enrollment_id" gorm:"column:enrollment_id;type:uuid;primaryKey"`
	EnrollmentStudentID    uuid.UUID      `json:"enrollment_student_id" gorm:"column:enrollment_student_id;type:uuid;not null;index"`
	EnrollmentClassID      uuid.UUID      `json:"enrollment_class_id" gorm:"column:enrollment_class_id;type:uuid;not null;index"`
	EnrollmentSectionID    uuid.UUID      `json:"enrollment_section_id" gorm:"column:enrollment_section_id;type:uuid;not null;index"`
	EnrollmentAcademicYear string         `json:"enrollment_academic_year" gorm:"column:enrollment_academic_year;type:varchar(9);not null;index"`
	EnrollmentRollNumber   *int           `json:"enrollment_roll_number" gorm:"column:enrollment_roll_number"`
	EnrollmentStatus       string         `json:"enrollment_status" gorm:"column:enrollment_status;type:varchar(20);not null"`
	CreatedAt              time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt              gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`

	Student *StudentModel `json:"student,omitempty" gorm:"foreignKey:EnrollmentStudentID;references:StudentID"`
}

func (EnrollmentModel) TableName() string {
	return "enrollments"
}

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	return nil
}
