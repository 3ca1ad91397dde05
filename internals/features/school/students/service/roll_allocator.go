package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/school/students/model"
)

/* =========================
   Validasi murni
========================= */

// ValidateRollNumber cek kandidat terhadap himpunan roll yang sudah
// terpakai. Murni, tidak menyentuh database.
func ValidateRollNumber(candidate int, taken map[int]bool) error {
	if taken[candidate] {
		return ErrDuplicateRollNumber
	}
	return nil
}

// ValidateBatchRolls menolak duplikat roll di dalam satu batch.
// Roll nil (minta alokasi otomatis) dilewati.
func ValidateBatchRolls(rolls []*int) error {
	taken := make(map[int]bool, len(rolls))
	for _, r := range rolls {
		if r == nil {
			continue
		}
		if err := ValidateRollNumber(*r, taken); err != nil {
			return err
		}
		taken[*r] = true
	}
	return nil
}

/* =========================
   Roll number & unique ID
========================= */

// NextRollNumber mengembalikan roll berikutnya (max+1) pada scope
// section + tahun ajaran. Section kosong mulai dari 1. Baris yang
// soft-deleted tidak dihitung, slotnya bebas dipakai lagi.
func NextRollNumber(tx *gorm.DB, sectionID uuid.UUID, academicYear string) (int, error) {
	var max *int
	err := tx.Model(&model.EnrollmentModel{}).
		Where("enrollment_section_id = ? AND enrollment_academic_year = ?", sectionID, academicYear).
		Select("MAX(enrollment_roll_number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// EnsureRollFree memastikan roll belum dipakai pada scope section +
// tahun ajaran. excludeID mengecualikan enrollment itu sendiri saat
// update. Kirim uuid.Nil untuk create.
func EnsureRollFree(tx *gorm.DB, sectionID uuid.UUID, academicYear string, roll int, excludeID uuid.UUID) error {
	q := tx.Model(&model.EnrollmentModel{}).
		Where("enrollment_section_id = ? AND enrollment_academic_year = ? AND enrollment_roll_number = ?",
			sectionID, academicYear, roll)
	if excludeID != uuid.Nil {
		q = q.Where("enrollment_id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRollNumber
	}
	return nil
}

// NextStudentUniqueID menyusun nomor induk: kode sekolah + 2 digit
// tahun + 4 digit urut, contoh ABC250001. Urutan di-reset per tahun
// kalender berdasarkan prefix yang sudah ada.
func NextStudentUniqueID(tx *gorm.DB) (string, error) {
	prefix := fmt.Sprintf("%s%s", configs.SchoolCode, time.Now().Format("06"))

	var last string
	err := tx.Model(&model.StudentModel{}).
		Where("student_unique_id LIKE ?", prefix+"%").
		Order("student_unique_id DESC").
		Limit(1).
		Pluck("student_unique_id", &last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		tail := strings.TrimPrefix(last, prefix)
		var n int
		if _, err := fmt.Sscanf(tail, "%d", &n); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}
