package dto

import (
	"strings"

	"github.com/google/uuid"
)

/* =========================================================
   ACADEMIC YEARS
   ========================================================= */

type CreateAcademicYearRequest struct {
	YearName string `json:"academic_year_name" validate:"required,min=4,max=9"`
}

func (r *CreateAcademicYearRequest) Normalize() {
	r.YearName = strings.TrimSpace(r.YearName)
}

/* =========================================================
   CLASSES & SECTIONS
   ========================================================= */

type CreateClassRequest struct {
	Name         string `json:"class_name" validate:"required,min=1,max=80"`
	AcademicYear string `json:"class_academic_year" validate:"required,min=4,max=9"`
}

func (r *CreateClassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
}

type CreateSectionRequest struct {
	ClassID uuid.UUID `json:"section_class_id" validate:"required"`
	Name    string    `json:"section_name" validate:"required,min=1,max=40"`
}

func (r *CreateSectionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

/* =========================================================
   SUBJECTS & EXAMS
   ========================================================= */

type CreateSubjectRequest struct {
	ClassID      uuid.UUID `json:"subject_class_id" validate:"required"`
	AcademicYear string    `json:"subject_academic_year" validate:"required,min=4,max=9"`
	Name         string    `json:"subject_name" validate:"required,min=1,max=120"`
}

func (r *CreateSubjectRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
}

type CreateExamRequest struct {
	Name string `json:"exam_name" validate:"required,min=1,max=80"`
}

func (r *CreateExamRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}
