package dto

import "strings"

// PromotionItem adalah satu siswa dalam batch promosi.
type PromotionItem struct {
	StudentID  string `json:"student_id" validate:"required,uuid"`
	RollNumber *int   `json:"roll_number" validate:"omitempty,min=1"`
}

type PromoteStudentsRequest struct {
	FromAcademicYear string          `json:"from_academic_year" validate:"required,min=4,max=9"`
	ToAcademicYear   string          `json:"to_academic_year" validate:"required,min=4,max=9"`
	ToClassID        string          `json:"to_class_id" validate:"required,uuid"`
	ToSectionID      string          `json:"to_section_id" validate:"required,uuid"`
	Students         []PromotionItem `json:"students" validate:"required,min=1,dive"`
}

func (r *PromoteStudentsRequest) Normalize() {
	r.FromAcademicYear = strings.TrimSpace(r.FromAcademicYear)
	r.ToAcademicYear = strings.TrimSpace(r.ToAcademicYear)
}

type PromoteStudentsResponse struct {
	PromotedCount  int    `json:"promoted_count"`
	ToAcademicYear string `json:"to_academic_year"`
}
