package service

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/students/model"
)

// DeferredDeleteService: soft delete dulu, hard delete menyusul
// setelah grace window. Selama window, penghapusan bisa dibatalkan
// dan baris kembali persis seperti semula (soft delete tidak
// menyentuh kolom lain).
type DeferredDeleteService struct {
	DB    *gorm.DB
	Grace time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingDelete
}

type pendingDelete struct {
	handle uuid.UUID
	timer  *time.Timer
}

func NewDeferredDeleteService(db *gorm.DB, grace time.Duration) *DeferredDeleteService {
	return &DeferredDeleteService{
		DB:      db,
		Grace:   grace,
		pending: make(map[uuid.UUID]*pendingDelete),
	}
}

// Schedule melakukan soft delete enrollment dan menjadwalkan hard
// delete setelah grace window. Mengembalikan handle untuk Cancel.
// Penjadwalan kedua untuk enrollment yang sama ditolak.
func (s *DeferredDeleteService) Schedule(enrollmentID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	if _, exists := s.pending[enrollmentID]; exists {
		s.mu.Unlock()
		return uuid.Nil, ErrDeletePending
	}
	s.mu.Unlock()

	res := s.DB.Delete(&model.EnrollmentModel{}, "enrollment_id = ?", enrollmentID)
	if res.Error != nil {
		return uuid.Nil, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, ErrNotFound
	}

	handle := uuid.New()
	p := &pendingDelete{handle: handle}

	s.mu.Lock()
	// Cek ulang setelah soft delete, dua request paralel bisa lolos
	// cek pertama tapi cuma satu yang RowsAffected > 0.
	if _, exists := s.pending[enrollmentID]; exists {
		s.mu.Unlock()
		return uuid.Nil, ErrDeletePending
	}
	s.pending[enrollmentID] = p
	p.timer = time.AfterFunc(s.Grace, func() {
		s.commit(enrollmentID, handle)
	})
	s.mu.Unlock()

	return handle, nil
}

// Cancel membatalkan penghapusan yang masih pending dan memulihkan
// baris. Kalau timer sudah jalan duluan, data sudah permanen hilang.
func (s *DeferredDeleteService) Cancel(enrollmentID, handle uuid.UUID) error {
	s.mu.Lock()
	p, exists := s.pending[enrollmentID]
	if !exists || p.handle != handle {
		s.mu.Unlock()
		return ErrAlreadyCommitted
	}
	// Hapus dari map dulu. commit() mengecek keberadaan entri, jadi
	// begitu entri hilang, timer yang telat jadi no-op.
	delete(s.pending, enrollmentID)
	p.timer.Stop()
	s.mu.Unlock()

	return s.DB.Unscoped().
		Model(&model.EnrollmentModel{}).
		Where("enrollment_id = ?", enrollmentID).
		Update("deleted_at", nil).Error
}

// commit menjalankan hard delete kalau entri masih pending.
func (s *DeferredDeleteService) commit(enrollmentID, handle uuid.UUID) {
	s.mu.Lock()
	p, exists := s.pending[enrollmentID]
	if !exists || p.handle != handle {
		s.mu.Unlock()
		return
	}
	delete(s.pending, enrollmentID)
	s.mu.Unlock()

	err := s.DB.Unscoped().
		Delete(&model.EnrollmentModel{}, "enrollment_id = ?", enrollmentID).Error
	if err != nil {
		log.Println("[CLEANUP] gagal hard delete enrollment:", enrollmentID, err)
	}
}

// IsPending dipakai test dan untuk menolak operasi lain atas baris
// yang sedang menunggu penghapusan.
func (s *DeferredDeleteService) IsPending(enrollmentID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.pending[enrollmentID]
	return exists
}
