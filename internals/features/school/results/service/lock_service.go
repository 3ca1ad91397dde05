package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/features/school/results/model"
)

var (
	ErrResultsLocked   = errors.New("nilai untuk sitting ini sudah dipublikasikan dan terkunci")
	ErrNotFound        = errors.New("data tidak ditemukan")
	ErrMarkExceedsFull = errors.New("nilai perolehan melebihi nilai maksimal")
)

// Sitting mengidentifikasi satu penyelenggaraan ujian.
type Sitting struct {
	ExamID       uuid.UUID
	ClassID      uuid.UUID
	SectionID    uuid.UUID
	AcademicYear string
}

// LockService mengelola kunci publikasi per sitting. Lock berbentuk
// baris, ada berarti terkunci.
type LockService struct {
	DB *gorm.DB
}

func NewLockService(db *gorm.DB) *LockService {
	return &LockService{DB: db}
}

// SetLock idempoten dua arah: mengunci sitting yang sudah terkunci
// atau membuka yang sudah terbuka bukan error.
func (s *LockService) SetLock(sitting Sitting, locked bool, lockedBy uuid.UUID) error {
	if locked {
		row := model.ResultLockModel{
			ResultLockExamID:       sitting.ExamID,
			ResultLockClassID:      sitting.ClassID,
			ResultLockSectionID:    sitting.SectionID,
			ResultLockAcademicYear: sitting.AcademicYear,
			ResultLockLockedBy:     lockedBy,
		}
		return s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "result_lock_exam_id"},
				{Name: "result_lock_class_id"},
				{Name: "result_lock_section_id"},
				{Name: "result_lock_academic_year"},
			},
			DoNothing: true,
		}).Create(&row).Error
	}
	return s.DB.
		Where(`result_lock_exam_id = ? AND result_lock_class_id = ?
			AND result_lock_section_id = ? AND result_lock_academic_year = ?`,
			sitting.ExamID, sitting.ClassID, sitting.SectionID, sitting.AcademicYear).
		Delete(&model.ResultLockModel{}).Error
}

// IsLocked dibaca di luar transaksi untuk respon cepat. Penulisan
// nilai mengecek ulang lewat isLockedTx di dalam transaksinya.
func (s *LockService) IsLocked(sitting Sitting) (bool, error) {
	return isLockedTx(s.DB, sitting)
}

func isLockedTx(tx *gorm.DB, sitting Sitting) (bool, error) {
	var count int64
	err := tx.Model(&model.ResultLockModel{}).
		Where(`result_lock_exam_id = ? AND result_lock_class_id = ?
			AND result_lock_section_id = ? AND result_lock_academic_year = ?`,
			sitting.ExamID, sitting.ClassID, sitting.SectionID, sitting.AcademicYear).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
