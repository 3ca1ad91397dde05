package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResultLockModel menandai satu sitting (ujian + kelas + section +
// tahun) sudah dipublikasikan. Selama baris ini ada, nilai untuk
// sitting tersebut tidak boleh diubah. Lock tetap berlaku walau
// roster berubah atau enrollment di-soft-delete.
type ResultLockModel struct {
	ResultLockID           uuid.UUID `gorm:"type:uuid;primaryKey;column:result_lock_id" json:"result_lock_id"`
	ResultLockExamID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_result_locks_sitting;column:result_lock_exam_id" json:"result_lock_exam_id"`
	ResultLockClassID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_result_locks_sitting;column:result_lock_class_id" json:"result_lock_class_id"`
	ResultLockSectionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_result_locks_sitting;column:result_lock_section_id" json:"result_lock_section_id"`
	ResultLockAcademicYear string    `gorm:"type:varchar(9);not null;uniqueIndex:uq_result_locks_sitting;column:result_lock_academic_year" json:"result_lock_academic_year"`
	ResultLockLockedBy     uuid.UUID `gorm:"type:uuid;column:result_lock_locked_by" json:"result_lock_locked_by"`
	ResultLockCreatedAt    time.Time `gorm:"not null;autoCreateTime;column:result_lock_created_at" json:"result_lock_created_at"`
}

func (ResultLockModel) TableName() string {
	return "result_locks"
}

func (m *ResultLockModel) BeforeCreate(tx *gorm.DB) error {
	if m.ResultLockID == uuid.Nil {
		m.ResultLockID = uuid.New()
	}
	return nil
}
