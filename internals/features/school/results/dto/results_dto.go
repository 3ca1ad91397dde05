package dto

import "strings"

/* =========================
   Sitting (kunci bersama)
========================= */

// SittingRequest mengidentifikasi satu penyelenggaraan ujian.
type SittingRequest struct {
	ExamID       string `json:"exam_id" validate:"required,uuid"`
	ClassID      string `json:"class_id" validate:"required,uuid"`
	SectionID    string `json:"section_id" validate:"required,uuid"`
	AcademicYear string `json:"academic_year" validate:"required,min=4,max=9"`
}

func (r *SittingRequest) Normalize() {
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
}

/* =========================
   Marks
========================= */

type MarkEntry struct {
	StudentID string  `json:"student_id" validate:"required,uuid"`
	SubjectID string  `json:"subject_id" validate:"required,uuid"`
	Obtained  float64 `json:"obtained" validate:"min=0,ltefield=FullMarks"`
	FullMarks float64 `json:"full_marks" validate:"min=0"`
}

type UpsertMarksRequest struct {
	Sitting SittingRequest `json:"sitting" validate:"required"`
	Marks   []MarkEntry    `json:"marks" validate:"required,min=1,dive"`
}

func (r *UpsertMarksRequest) Normalize() {
	r.Sitting.Normalize()
}

/* =========================
   Lock
========================= */

type SetLockRequest struct {
	Sitting SittingRequest `json:"sitting" validate:"required"`
	Locked  bool           `json:"locked"`
}

func (r *SetLockRequest) Normalize() {
	r.Sitting.Normalize()
}

/* =========================
   Result (bentuk hitung)
========================= */

// SubjectResult adalah hasil satu mapel setelah dihitung.
type SubjectResult struct {
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Obtained    float64 `json:"obtained"`
	FullMarks   float64 `json:"full_marks"`
	Percentage  float64 `json:"percentage"`
	Grade       string  `json:"grade"`
	Remark      string  `json:"remark"`
}

// StudentResult adalah marksheet satu siswa pada satu sitting.
type StudentResult struct {
	StudentID       string          `json:"student_id"`
	StudentUniqueID string          `json:"student_unique_id"`
	StudentName     string          `json:"student_name"`
	RollNumber      *int            `json:"roll_number"`
	Subjects        []SubjectResult `json:"subjects"`
	TotalObtained   float64         `json:"total_obtained"`
	TotalFullMarks  float64         `json:"total_full_marks"`
	Percentage      float64         `json:"percentage"`
	Grade           string          `json:"grade"`
	Remark          string          `json:"remark"`
	Passed          bool            `json:"passed"`
}
