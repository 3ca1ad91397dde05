package service

import "errors"

// Sentinel error domain siswa. Controller memetakan ke status HTTP.
var (
	ErrNotFound            = errors.New("data tidak ditemukan")
	ErrDuplicateRollNumber = errors.New("roll number sudah dipakai di section dan tahun ajaran tersebut")
	ErrDuplicatePlacement  = errors.New("siswa sudah punya enrollment aktif di tahun ajaran tersebut")
	ErrInvalidDemotion     = errors.New("tahun ajaran tujuan tidak boleh lebih kecil dari tahun asal")
	ErrDeletePending       = errors.New("penghapusan sudah dijadwalkan untuk data ini")
	ErrStudentEnrolled     = errors.New("siswa masih punya riwayat enrollment, tidak bisa dihapus permanen")
	ErrAlreadyCommitted    = errors.New("penghapusan sudah permanen, tidak bisa dibatalkan")
)
