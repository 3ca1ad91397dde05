package service

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/students/dto"
	"schoolku_backend/internals/features/school/students/model"
)

// PromotionService menaikkan satu rombongan siswa ke tahun ajaran
// berikutnya. Batch bersifat atomik, satu siswa gagal maka seluruh
// batch batal.
type PromotionService struct {
	DB *gorm.DB
}

func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{DB: db}
}

// yearStart mengambil angka tahun awal dari nama tahun ajaran,
// "2024-25" -> 2024. Nama tanpa angka di depan dianggap 0.
func yearStart(name string) int {
	digits := name
	if i := strings.IndexFunc(name, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = name[:i]
	}
	n, _ := strconv.Atoi(digits)
	return n
}

// PromoteStudents memindahkan siswa dari tahun asal ke tahun tujuan.
// Validasi per siswa: harus punya enrollment di tahun asal, belum
// punya di tahun tujuan, dan roll tujuan belum terpakai (termasuk
// duplikat di dalam payload sendiri). Semua insert berstatus Promoted.
func (s *PromotionService) PromoteStudents(req *dto.PromoteStudentsRequest) (int, error) {
	if yearStart(req.ToAcademicYear) < yearStart(req.FromAcademicYear) {
		return 0, ErrInvalidDemotion
	}

	classID, err := uuid.Parse(req.ToClassID)
	if err != nil {
		return 0, ErrNotFound
	}
	sectionID, err := uuid.Parse(req.ToSectionID)
	if err != nil {
		return 0, ErrNotFound
	}

	// Duplikat roll di dalam payload sendiri digagalkan sebelum
	// menyentuh database.
	rolls := make([]*int, 0, len(req.Students))
	for _, item := range req.Students {
		rolls = append(rolls, item.RollNumber)
	}
	if err := ValidateBatchRolls(rolls); err != nil {
		return 0, err
	}

	promoted := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Students {
			studentID, err := uuid.Parse(item.StudentID)
			if err != nil {
				return ErrNotFound
			}

			var fromCount int64
			if err := tx.Model(&model.EnrollmentModel{}).
				Where("enrollment_student_id = ? AND enrollment_academic_year = ?", studentID, req.FromAcademicYear).
				Count(&fromCount).Error; err != nil {
				return err
			}
			if fromCount == 0 {
				return ErrNotFound
			}

			var toCount int64
			if err := tx.Model(&model.EnrollmentModel{}).
				Where("enrollment_student_id = ? AND enrollment_academic_year = ?", studentID, req.ToAcademicYear).
				Count(&toCount).Error; err != nil {
				return err
			}
			if toCount > 0 {
				return ErrDuplicatePlacement
			}

			roll := item.RollNumber
			if roll == nil {
				next, err := NextRollNumber(tx, sectionID, req.ToAcademicYear)
				if err != nil {
					return err
				}
				roll = &next
			} else {
				if err := EnsureRollFree(tx, sectionID, req.ToAcademicYear, *roll, uuid.Nil); err != nil {
					return err
				}
			}

			enrollment := &model.EnrollmentModel{
				EnrollmentStudentID:    studentID,
				EnrollmentClassID:      classID,
				EnrollmentSectionID:    sectionID,
				EnrollmentAcademicYear: req.ToAcademicYear,
				EnrollmentRollNumber:   roll,
				EnrollmentStatus:       constants.EnrollmentStatusPromoted,
			}
			if err := tx.Create(enrollment).Error; err != nil {
				return err
			}
			promoted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return promoted, nil
}

// PromotedStudentIDs mengembalikan ID siswa yang sudah punya
// enrollment di tahun tujuan, dipakai frontend untuk menandai baris
// yang tidak bisa dipromosikan lagi.
func (s *PromotionService) PromotedStudentIDs(toAcademicYear string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.Model(&model.EnrollmentModel{}).
		Where("enrollment_academic_year = ?", toAcademicYear).
		Pluck("enrollment_student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
