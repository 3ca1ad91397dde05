package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"schoolku_backend/internals/features/school/students/model"
)

/* =========================
   Request
========================= */

// AdmitStudentRequest: biodata + penempatan awal dalam satu langkah.
type AdmitStudentRequest struct {
	StudentName       string `json:"student_name" validate:"required,min=1,max=100"`
	StudentFatherName string `json:"student_father_name" validate:"omitempty,max=100"`
	StudentMotherName string `json:"student_mother_name" validate:"omitempty,max=100"`
	StudentGender     string `json:"student_gender" validate:"omitempty,oneof=Male Female"`
	StudentDOB        string `json:"student_dob" validate:"omitempty,datetime=2006-01-02"`
	StudentPhone      string `json:"student_phone" validate:"omitempty,max=20"`
	StudentAddress    string `json:"student_address" validate:"omitempty,max=500"`

	ClassID      string `json:"class_id" validate:"required,uuid"`
	SectionID    string `json:"section_id" validate:"required,uuid"`
	AcademicYear string `json:"academic_year" validate:"required,min=4,max=9"`
	RollNumber   *int   `json:"roll_number" validate:"omitempty,min=1"`
}

func (r *AdmitStudentRequest) Normalize() {
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.StudentFatherName = strings.TrimSpace(r.StudentFatherName)
	r.StudentMotherName = strings.TrimSpace(r.StudentMotherName)
	r.StudentPhone = strings.TrimSpace(r.StudentPhone)
	r.StudentAddress = strings.TrimSpace(r.StudentAddress)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
}

// ToStudentModel tidak mengisi StudentUniqueID, itu tugas allocator.
func (r *AdmitStudentRequest) ToStudentModel() *model.StudentModel {
	m := &model.StudentModel{
		StudentName:       r.StudentName,
		StudentFatherName: r.StudentFatherName,
		StudentMotherName: r.StudentMotherName,
		StudentGender:     r.StudentGender,
		StudentPhone:      r.StudentPhone,
		StudentAddress:    r.StudentAddress,
	}
	if r.StudentDOB != "" {
		if t, err := time.Parse("2006-01-02", r.StudentDOB); err == nil {
			d := datatypes.Date(t)
			m.StudentDOB = &d
		}
	}
	return m
}

type UpdateStudentRequest struct {
	StudentName       *string `json:"student_name" validate:"omitempty,min=1,max=100"`
	StudentFatherName *string `json:"student_father_name" validate:"omitempty,max=100"`
	StudentMotherName *string `json:"student_mother_name" validate:"omitempty,max=100"`
	StudentGender     *string `json:"student_gender" validate:"omitempty,oneof=Male Female"`
	StudentDOB        *string `json:"student_dob" validate:"omitempty,datetime=2006-01-02"`
	StudentPhone      *string `json:"student_phone" validate:"omitempty,max=20"`
	StudentAddress    *string `json:"student_address" validate:"omitempty,max=500"`
}

func (r *UpdateStudentRequest) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(r.StudentName)
	trim(r.StudentFatherName)
	trim(r.StudentMotherName)
	trim(r.StudentPhone)
	trim(r.StudentAddress)
}

// ApplyToModel: hanya field yang dikirim yang diubah.
func (r *UpdateStudentRequest) ApplyToModel(m *model.StudentModel) {
	if r.StudentName != nil {
		m.StudentName = *r.StudentName
	}
	if r.StudentFatherName != nil {
		m.StudentFatherName = *r.StudentFatherName
	}
	if r.StudentMotherName != nil {
		m.StudentMotherName = *r.StudentMotherName
	}
	if r.StudentGender != nil {
		m.StudentGender = *r.StudentGender
	}
	if r.StudentDOB != nil {
		if *r.StudentDOB == "" {
			m.StudentDOB = nil
		} else if t, err := time.Parse("2006-01-02", *r.StudentDOB); err == nil {
			d := datatypes.Date(t)
			m.StudentDOB = &d
		}
	}
	if r.StudentPhone != nil {
		m.StudentPhone = *r.StudentPhone
	}
	if r.StudentAddress != nil {
		m.StudentAddress = *r.StudentAddress
	}
}

/* =========================
   Response
========================= */

// StudentDirectoryRow: satu baris direktori lintas tahun, termasuk
// siswa yang belum pernah punya enrollment.
type StudentDirectoryRow struct {
	StudentID          string `json:"student_id"`
	StudentUniqueID    string `json:"student_unique_id"`
	StudentName        string `json:"student_name"`
	FatherName         string `json:"father_name"`
	EnrollmentCount    int    `json:"enrollment_count"`
	LatestAcademicYear string `json:"latest_academic_year"`
}

type StudentResponse struct {
	StudentID         string `json:"student_id"`
	StudentUniqueID   string `json:"student_unique_id"`
	StudentName       string `json:"student_name"`
	StudentFatherName string `json:"student_father_name"`
	StudentMotherName string `json:"student_mother_name"`
	StudentGender     string `json:"student_gender"`
	StudentDOB        string `json:"student_dob,omitempty"`
	StudentPhone      string `json:"student_phone"`
	StudentAddress    string `json:"student_address"`
}

func FromStudentModel(m *model.StudentModel) StudentResponse {
	resp := StudentResponse{
		StudentID:         m.StudentID.String(),
		StudentUniqueID:   m.StudentUniqueID,
		StudentName:       m.StudentName,
		StudentFatherName: m.StudentFatherName,
		StudentMotherName: m.StudentMotherName,
		StudentGender:     m.StudentGender,
		StudentPhone:      m.StudentPhone,
		StudentAddress:    m.StudentAddress,
	}
	if m.StudentDOB != nil {
		resp.StudentDOB = time.Time(*m.StudentDOB).Format("2006-01-02")
	}
	return resp
}
