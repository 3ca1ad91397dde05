package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentModel adalah biodata siswa. Identitas akademik per tahun
// (kelas, section, roll) hidup di EnrollmentModel, bukan di sini.
type StudentModel struct {
	StudentID         uuid.UUID       `json:"student_id" gorm:"column:student_id;type:uuid;primaryKey"`
	StudentUniqueID   string          `json:"student_unique_id" gorm:"column:student_unique_id;type:varchar(20);uniqueIndex;not null"`
	StudentName       string          `json:"student_name" gorm:"column:student_name;type:varchar(100);not null"`
	StudentFatherName string          `json:"student_father_name" gorm:"column:student_father_name;type:varchar(100)"`
	StudentMotherName string          `json:"student_mother_name" gorm:"column:student_mother_name;type:varchar(100)"`
	StudentGender     string          `json:"student_gender" gorm:"column:student_gender;type:varchar(10)"`
	StudentDOB        *datatypes.Date `json:"student_dob" gorm:"column:student_dob"`
	StudentPhone      string          `json:"student_phone" gorm:"column:student_phone;type:varchar(20)"`
	StudentAddress    string          `json:"student_address" gorm:"column:student_address;type:text"`
	CreatedAt         time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"column:deleted_at;index"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
