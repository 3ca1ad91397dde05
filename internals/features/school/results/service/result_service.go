package service

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	academicsModel "schoolku_backend/internals/features/school/academics/model"
	"schoolku_backend/internals/features/school/results/dto"
	"schoolku_backend/internals/features/school/results/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

/* =========================
   Fungsi murni: persen & grade
========================= */

// round2 membulatkan ke 2 desimal.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage menghitung persen perolehan. Full marks 0 menghasilkan
// 0, bukan pembagian dengan nol.
func Percentage(obtained, full float64) float64 {
	if full == 0 {
		return 0
	}
	return round2(obtained / full * 100)
}

// GradeFor memetakan persen ke grade dan remark. Batas bawah
// inklusif, 90 dapat O.
func GradeFor(percentage float64) (grade, remark string) {
	switch {
	case percentage >= 90:
		return "O", "Outstanding"
	case percentage >= 80:
		return "A+", "Excellent"
	case percentage >= 70:
		return "A", "Very Good"
	case percentage >= 60:
		return "B+", "Good"
	case percentage >= 50:
		return "B", "Satisfactory"
	case percentage >= 40:
		return "C", "Needs Improvement"
	default:
		return "F", "Fail"
	}
}

// ComputeResult merangkum daftar nilai jadi marksheet. Murni, tidak
// menyentuh database. Siswa dinyatakan lulus kalau ada minimal satu
// mapel dan tidak ada satu pun yang bergrade F.
func ComputeResult(subjects []dto.SubjectResult) (total, fullTotal, percentage float64, grade, remark string, passed bool) {
	passed = len(subjects) > 0
	for _, sub := range subjects {
		total += sub.Obtained
		fullTotal += sub.FullMarks
		if sub.Grade == "F" {
			passed = false
		}
	}
	percentage = Percentage(total, fullTotal)
	grade, remark = GradeFor(percentage)
	if !passed {
		grade, remark = "F", "Fail"
	}
	return
}

/* =========================
   ResultService
========================= */

// ResultService merakit marksheet dari marks + enrollment + mapel.
type ResultService struct {
	DB *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{DB: db}
}

func (s *ResultService) subjectNames(ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var subjects []academicsModel.SubjectModel
	if err := s.DB.Where("subject_id IN ?", ids).Find(&subjects).Error; err != nil {
		return nil, err
	}
	for _, sub := range subjects {
		names[sub.SubjectID] = sub.SubjectName
	}
	return names, nil
}

func buildSubjectResults(marks []model.MarkModel, names map[uuid.UUID]string) []dto.SubjectResult {
	subjects := make([]dto.SubjectResult, 0, len(marks))
	for _, m := range marks {
		pct := Percentage(m.MarkObtained, m.MarkFullMarks)
		grade, remark := GradeFor(pct)
		subjects = append(subjects, dto.SubjectResult{
			SubjectID:   m.MarkSubjectID.String(),
			SubjectName: names[m.MarkSubjectID],
			Obtained:    m.MarkObtained,
			FullMarks:   m.MarkFullMarks,
			Percentage:  pct,
			Grade:       grade,
			Remark:      remark,
		})
	}
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].SubjectName < subjects[j].SubjectName
	})
	return subjects
}

// ComputeStudentResult merakit marksheet satu siswa pada satu sitting.
// Siswa tanpa nilai sama sekali dianggap tidak ditemukan.
func (s *ResultService) ComputeStudentResult(studentID uuid.UUID, sitting Sitting) (*dto.StudentResult, error) {
	var marks []model.MarkModel
	err := s.DB.
		Where("mark_student_id = ? AND mark_exam_id = ? AND mark_academic_year = ?",
			studentID, sitting.ExamID, sitting.AcademicYear).
		Find(&marks).Error
	if err != nil {
		return nil, err
	}
	if len(marks) == 0 {
		return nil, ErrNotFound
	}

	ids := make([]uuid.UUID, 0, len(marks))
	for _, m := range marks {
		ids = append(ids, m.MarkSubjectID)
	}
	names, err := s.subjectNames(ids)
	if err != nil {
		return nil, err
	}

	var student studentModel.StudentModel
	if err := s.DB.First(&student, "student_id = ?", studentID).Error; err != nil {
		return nil, err
	}

	var enrollment studentModel.EnrollmentModel
	var roll *int
	if err := s.DB.
		Where("enrollment_student_id = ? AND enrollment_academic_year = ?", studentID, sitting.AcademicYear).
		First(&enrollment).Error; err == nil {
		roll = enrollment.EnrollmentRollNumber
	}

	subjects := buildSubjectResults(marks, names)
	total, fullTotal, pct, grade, remark, passed := ComputeResult(subjects)

	return &dto.StudentResult{
		StudentID:       student.StudentID.String(),
		StudentUniqueID: student.StudentUniqueID,
		StudentName:     student.StudentName,
		RollNumber:      roll,
		Subjects:        subjects,
		TotalObtained:   total,
		TotalFullMarks:  fullTotal,
		Percentage:      pct,
		Grade:           grade,
		Remark:          remark,
		Passed:          passed,
	}, nil
}

// ListSectionResults merakit marksheet seluruh section pada satu
// sitting, urut roll number. Basisnya roster enrollment, siswa tanpa
// nilai tetap muncul dengan marksheet kosong.
func (s *ResultService) ListSectionResults(sitting Sitting) ([]dto.StudentResult, error) {
	var roster []studentModel.EnrollmentModel
	err := s.DB.
		Preload("Student").
		Where(`enrollment_class_id = ? AND enrollment_section_id = ?
			AND enrollment_academic_year = ?`,
			sitting.ClassID, sitting.SectionID, sitting.AcademicYear).
		Order("enrollment_roll_number ASC").
		Find(&roster).Error
	if err != nil {
		return nil, err
	}

	marks, err := NewMarkService(s.DB).MarksForSitting(sitting)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[uuid.UUID][]model.MarkModel)
	subjectIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, m := range marks {
		byStudent[m.MarkStudentID] = append(byStudent[m.MarkStudentID], m)
		if !seen[m.MarkSubjectID] {
			seen[m.MarkSubjectID] = true
			subjectIDs = append(subjectIDs, m.MarkSubjectID)
		}
	}
	names, err := s.subjectNames(subjectIDs)
	if err != nil {
		return nil, err
	}

	results := make([]dto.StudentResult, 0, len(roster))
	for _, e := range roster {
		if e.Student == nil {
			continue
		}
		subjects := buildSubjectResults(byStudent[e.EnrollmentStudentID], names)
		total, fullTotal, pct, grade, remark, passed := ComputeResult(subjects)
		results = append(results, dto.StudentResult{
			StudentID:       e.EnrollmentStudentID.String(),
			StudentUniqueID: e.Student.StudentUniqueID,
			StudentName:     e.Student.StudentName,
			RollNumber:      e.EnrollmentRollNumber,
			Subjects:        subjects,
			TotalObtained:   total,
			TotalFullMarks:  fullTotal,
			Percentage:      pct,
			Grade:           grade,
			Remark:          remark,
			Passed:          passed,
		})
	}
	return results, nil
}
