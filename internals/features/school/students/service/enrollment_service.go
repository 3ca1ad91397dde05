package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/students/dto"
	"schoolku_backend/internals/features/school/students/model"
)

// EnrollmentService memegang siklus hidup siswa + enrollment:
// admisi, penempatan per tahun, pencarian, dan update.
type EnrollmentService struct {
	DB *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: db}
}

/* =========================
   Admission
========================= */

// Admit membuat siswa baru + enrollment pertamanya dalam satu
// transaksi. Unique ID dan roll (kalau kosong) dialokasikan di dalam
// transaksi supaya tidak ada celah duplikat.
func (s *EnrollmentService) Admit(req *dto.AdmitStudentRequest) (*model.StudentModel, *model.EnrollmentModel, error) {
	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	sectionID, err := uuid.Parse(req.SectionID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	student := req.ToStudentModel()
	var enrollment *model.EnrollmentModel

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		uniqueID, err := NextStudentUniqueID(tx)
		if err != nil {
			return err
		}
		student.StudentUniqueID = uniqueID
		if err := tx.Create(student).Error; err != nil {
			return err
		}

		roll := req.RollNumber
		if roll == nil {
			next, err := NextRollNumber(tx, sectionID, req.AcademicYear)
			if err != nil {
				return err
			}
			roll = &next
		} else {
			if err := EnsureRollFree(tx, sectionID, req.AcademicYear, *roll, uuid.Nil); err != nil {
				return err
			}
		}

		enrollment = &model.EnrollmentModel{
			EnrollmentStudentID:    student.StudentID,
			EnrollmentClassID:      classID,
			EnrollmentSectionID:    sectionID,
			EnrollmentAcademicYear: req.AcademicYear,
			EnrollmentRollNumber:   roll,
			EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
		}
		return tx.Create(enrollment).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return student, enrollment, nil
}

/* =========================
   Enrollment CRUD
========================= */

// CreateEnrollment menempatkan siswa yang sudah ada ke tahun ajaran
// baru. Satu siswa hanya boleh satu enrollment aktif per tahun.
func (s *EnrollmentService) CreateEnrollment(req *dto.CreateEnrollmentRequest) (*model.EnrollmentModel, error) {
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, ErrNotFound
	}
	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return nil, ErrNotFound
	}
	sectionID, err := uuid.Parse(req.SectionID)
	if err != nil {
		return nil, ErrNotFound
	}

	status := req.Status
	if status == "" {
		status = constants.EnrollmentStatusNewAdmission
	}

	var enrollment *model.EnrollmentModel
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var student model.StudentModel
		if err := tx.First(&student, "student_id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var dup int64
		if err := tx.Model(&model.EnrollmentModel{}).
			Where("enrollment_student_id = ? AND enrollment_academic_year = ?", studentID, req.AcademicYear).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicatePlacement
		}

		roll := req.RollNumber
		if roll == nil {
			next, err := NextRollNumber(tx, sectionID, req.AcademicYear)
			if err != nil {
				return err
			}
			roll = &next
		} else {
			if err := EnsureRollFree(tx, sectionID, req.AcademicYear, *roll, uuid.Nil); err != nil {
				return err
			}
		}

		enrollment = &model.EnrollmentModel{
			EnrollmentStudentID:    studentID,
			EnrollmentClassID:      classID,
			EnrollmentSectionID:    sectionID,
			EnrollmentAcademicYear: req.AcademicYear,
			EnrollmentRollNumber:   roll,
			EnrollmentStatus:       status,
		}
		return tx.Create(enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// UpdateEnrollment mengubah kelas, section, atau roll. Roll divalidasi
// ulang pada scope tujuan, dengan mengecualikan enrollment ini sendiri.
func (s *EnrollmentService) UpdateEnrollment(id uuid.UUID, req *dto.UpdateEnrollmentRequest) (*model.EnrollmentModel, error) {
	var enrollment model.EnrollmentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&enrollment, "enrollment_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if req.ClassID != nil {
			cid, err := uuid.Parse(*req.ClassID)
			if err != nil {
				return ErrNotFound
			}
			enrollment.EnrollmentClassID = cid
		}
		if req.SectionID != nil {
			sid, err := uuid.Parse(*req.SectionID)
			if err != nil {
				return ErrNotFound
			}
			enrollment.EnrollmentSectionID = sid
		}
		if req.RollNumber != nil {
			enrollment.EnrollmentRollNumber = req.RollNumber
		}

		if enrollment.EnrollmentRollNumber != nil {
			if err := EnsureRollFree(tx,
				enrollment.EnrollmentSectionID,
				enrollment.EnrollmentAcademicYear,
				*enrollment.EnrollmentRollNumber,
				enrollment.EnrollmentID); err != nil {
				return err
			}
		}
		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

/* =========================
   Listing & lookup
========================= */

// EnrollmentFilter: semua field opsional, dipakai bersama-sama (AND).
type EnrollmentFilter struct {
	AcademicYear string
	ClassID      string
	SectionID    string
	Search       string
}

// ListEnrollments mengembalikan bentuk datar hasil join enrollment +
// siswa + kelas + section, urut roll number.
func (s *EnrollmentService) ListEnrollments(f EnrollmentFilter) ([]dto.EnrollmentResponse, error) {
	q := s.DB.Table("enrollments").
		Select(`enrollments.enrollment_id,
			students.student_id,
			students.student_unique_id,
			students.student_name,
			students.student_father_name AS father_name,
			classes.class_id,
			classes.class_name,
			sections.section_id,
			sections.section_name,
			enrollments.enrollment_academic_year AS academic_year,
			enrollments.enrollment_roll_number AS roll_number,
			enrollments.enrollment_status AS status`).
		Joins("JOIN students ON students.student_id = enrollments.enrollment_student_id AND students.deleted_at IS NULL").
		Joins("JOIN classes ON classes.class_id = enrollments.enrollment_class_id").
		Joins("JOIN sections ON sections.section_id = enrollments.enrollment_section_id").
		Where("enrollments.deleted_at IS NULL")

	if f.AcademicYear != "" {
		q = q.Where("enrollments.enrollment_academic_year = ?", f.AcademicYear)
	}
	if f.ClassID != "" {
		q = q.Where("enrollments.enrollment_class_id = ?", f.ClassID)
	}
	if f.SectionID != "" {
		q = q.Where("enrollments.enrollment_section_id = ?", f.SectionID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("lower(students.student_name) LIKE ? OR lower(students.student_unique_id) LIKE ?", like, like)
	}

	var rows []dto.EnrollmentResponse
	if err := q.Order("enrollments.enrollment_roll_number ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetStudent mengambil biodata siswa by ID.
func (s *EnrollmentService) GetStudent(id uuid.UUID) (*model.StudentModel, error) {
	var student model.StudentModel
	if err := s.DB.First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// UpdateStudent: partial update biodata.
func (s *EnrollmentService) UpdateStudent(id uuid.UUID, req *dto.UpdateStudentRequest) (*model.StudentModel, error) {
	var student model.StudentModel
	if err := s.DB.First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	req.ApplyToModel(&student)
	if err := s.DB.Save(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// FindStudentByUniqueID mencari siswa lewat nomor induk (case-insensitive).
func (s *EnrollmentService) FindStudentByUniqueID(uniqueID string) (*model.StudentModel, error) {
	var student model.StudentModel
	err := s.DB.
		Where("lower(student_unique_id) = lower(?)", strings.TrimSpace(uniqueID)).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

/* =========================
   Directory (admin)
========================= */

// ListStudentDirectory mengembalikan semua siswa lintas tahun beserta
// jumlah enrollment aktif dan tahun terakhirnya. Siswa tanpa
// enrollment tetap muncul (LEFT JOIN).
func (s *EnrollmentService) ListStudentDirectory(search string) ([]dto.StudentDirectoryRow, error) {
	q := s.DB.Table("students").
		Select(`students.student_id,
			students.student_unique_id,
			students.student_name,
			students.student_father_name AS father_name,
			COUNT(enrollments.enrollment_id) AS enrollment_count,
			COALESCE(MAX(enrollments.enrollment_academic_year), '') AS latest_academic_year`).
		Joins("LEFT JOIN enrollments ON enrollments.enrollment_student_id = students.student_id AND enrollments.deleted_at IS NULL").
		Where("students.deleted_at IS NULL").
		Group("students.student_id, students.student_unique_id, students.student_name, students.student_father_name")

	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("lower(students.student_name) LIKE ? OR lower(students.student_unique_id) LIKE ?", like, like)
	}

	var rows []dto.StudentDirectoryRow
	if err := q.Order("students.student_name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// HardDeleteStudent menghapus permanen siswa yang salah input. Hanya
// boleh untuk siswa tanpa riwayat enrollment sama sekali, termasuk
// yang soft-deleted.
func (s *EnrollmentService) HardDeleteStudent(id uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var student model.StudentModel
		if err := tx.First(&student, "student_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Unscoped().Model(&model.EnrollmentModel{}).
			Where("enrollment_student_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrStudentEnrolled
		}
		return tx.Unscoped().Delete(&model.StudentModel{}, "student_id = ?", id).Error
	})
}

// StudentEnrollmentHistory mengembalikan semua enrollment seorang
// siswa lintas tahun, terbaru dulu.
func (s *EnrollmentService) StudentEnrollmentHistory(studentID uuid.UUID) ([]model.EnrollmentModel, error) {
	var rows []model.EnrollmentModel
	err := s.DB.
		Where("enrollment_student_id = ?", studentID).
		Order("enrollment_academic_year DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
