package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/features/school/results/dto"
	"schoolku_backend/internals/features/school/results/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

// MarkService menulis dan membaca nilai per sitting.
type MarkService struct {
	DB *gorm.DB
}

func NewMarkService(db *gorm.DB) *MarkService {
	return &MarkService{DB: db}
}

// authoritativeSitting menentukan sitting yang sebenarnya untuk satu
// siswa. Kelas/section diambil dari enrollment siswa pada tahun itu,
// atau dari baris mark lama kalau enrollment tidak ada. Payload klien
// hanya dipakai sebagai pilihan terakhir, supaya sitting palsu dengan
// kelas/section karangan tidak bisa melewati cek lock.
func authoritativeSitting(tx *gorm.DB, studentID, subjectID uuid.UUID, sitting Sitting) (Sitting, error) {
	auth := sitting

	var enr studentModel.EnrollmentModel
	err := tx.
		Where("enrollment_student_id = ? AND enrollment_academic_year = ?", studentID, sitting.AcademicYear).
		First(&enr).Error
	if err == nil {
		auth.ClassID = enr.EnrollmentClassID
		auth.SectionID = enr.EnrollmentSectionID
		return auth, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Sitting{}, err
	}

	var old model.MarkModel
	err = tx.
		Where("mark_student_id = ? AND mark_subject_id = ? AND mark_exam_id = ? AND mark_academic_year = ?",
			studentID, subjectID, sitting.ExamID, sitting.AcademicYear).
		First(&old).Error
	if err == nil {
		auth.ClassID = old.MarkClassID
		auth.SectionID = old.MarkSectionID
		return auth, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Sitting{}, err
	}
	return auth, nil
}

// UpsertMarks menyimpan satu batch nilai. Lock dicek ulang DI DALAM
// transaksi, per sitting otoritatif masing-masing entri, supaya
// publish yang menyusup di tengah maupun sitting palsu tetap
// menggagalkan seluruh batch. Konflik pada (siswa, mapel, ujian,
// tahun) di-update, bukan diduplikasi; kelas/section baris lama tidak
// pernah ditimpa payload.
func (s *MarkService) UpsertMarks(sitting Sitting, entries []dto.MarkEntry, enteredBy uuid.UUID) (int, error) {
	saved := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := isLockedTx(tx, sitting)
		if err != nil {
			return err
		}
		if locked {
			return ErrResultsLocked
		}
		lockBySitting := map[Sitting]bool{sitting: false}

		for _, e := range entries {
			if e.Obtained > e.FullMarks {
				return ErrMarkExceedsFull
			}
			studentID, err := uuid.Parse(e.StudentID)
			if err != nil {
				return ErrNotFound
			}
			subjectID, err := uuid.Parse(e.SubjectID)
			if err != nil {
				return ErrNotFound
			}

			auth, err := authoritativeSitting(tx, studentID, subjectID, sitting)
			if err != nil {
				return err
			}
			authLocked, known := lockBySitting[auth]
			if !known {
				authLocked, err = isLockedTx(tx, auth)
				if err != nil {
					return err
				}
				lockBySitting[auth] = authLocked
			}
			if authLocked {
				return ErrResultsLocked
			}

			row := model.MarkModel{
				MarkStudentID:    studentID,
				MarkSubjectID:    subjectID,
				MarkExamID:       auth.ExamID,
				MarkAcademicYear: auth.AcademicYear,
				MarkClassID:      auth.ClassID,
				MarkSectionID:    auth.SectionID,
				MarkObtained:     e.Obtained,
				MarkFullMarks:    e.FullMarks,
				MarkEnteredBy:    enteredBy,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "mark_student_id"},
					{Name: "mark_subject_id"},
					{Name: "mark_exam_id"},
					{Name: "mark_academic_year"},
				},
				DoUpdates: clause.AssignmentColumns([]string{
					"mark_obtained", "mark_full_marks", "mark_entered_by",
				}),
			}).Create(&row).Error; err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// MarksForSitting mengambil semua nilai satu sitting.
func (s *MarkService) MarksForSitting(sitting Sitting) ([]model.MarkModel, error) {
	var rows []model.MarkModel
	err := s.DB.
		Where(`mark_exam_id = ? AND mark_class_id = ?
			AND mark_section_id = ? AND mark_academic_year = ?`,
			sitting.ExamID, sitting.ClassID, sitting.SectionID, sitting.AcademicYear).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarksForStudent mengambil nilai satu siswa pada satu ujian + tahun.
func (s *MarkService) MarksForStudent(studentID, examID uuid.UUID, academicYear string) ([]model.MarkModel, error) {
	var rows []model.MarkModel
	err := s.DB.
		Where("mark_student_id = ? AND mark_exam_id = ? AND mark_academic_year = ?",
			studentID, examID, academicYear).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
