package dto

import "strings"

/* =========================
   Request
========================= */

type CreateEnrollmentRequest struct {
	StudentID    string `json:"student_id" validate:"required,uuid"`
	ClassID      string `json:"class_id" validate:"required,uuid"`
	SectionID    string `json:"section_id" validate:"required,uuid"`
	AcademicYear string `json:"academic_year" validate:"required,min=4,max=9"`
	RollNumber   *int   `json:"roll_number" validate:"omitempty,min=1"`
	Status       string `json:"status" validate:"omitempty,oneof='New Admission' Promoted"`
}

func (r *CreateEnrollmentRequest) Normalize() {
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	r.Status = strings.TrimSpace(r.Status)
}

type UpdateEnrollmentRequest struct {
	ClassID    *string `json:"class_id" validate:"omitempty,uuid"`
	SectionID  *string `json:"section_id" validate:"omitempty,uuid"`
	RollNumber *int    `json:"roll_number" validate:"omitempty,min=1"`
}

/* =========================
   Response (bentuk datar hasil join)
========================= */

type EnrollmentResponse struct {
	EnrollmentID    string `json:"enrollment_id"`
	StudentID       string `json:"student_id"`
	StudentUniqueID string `json:"student_unique_id"`
	StudentName     string `json:"student_name"`
	FatherName      string `json:"father_name"`
	ClassID         string `json:"class_id"`
	ClassName       string `json:"class_name"`
	SectionID       string `json:"section_id"`
	SectionName     string `json:"section_name"`
	AcademicYear    string `json:"academic_year"`
	RollNumber      *int   `json:"roll_number"`
	Status          string `json:"status"`
}
