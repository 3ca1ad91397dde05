package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/constants"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	"schoolku_backend/internals/features/school/students/dto"
	"schoolku_backend/internals/features/school/students/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// :memory: hidup per koneksi, paksa pool satu koneksi
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&academicsModel.ClassModel{},
		&academicsModel.SectionModel{},
		&model.StudentModel{},
		&model.EnrollmentModel{},
	))
	configs.SchoolCode = "ABC"
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name string) *model.StudentModel {
	t.Helper()
	uniqueID, err := NextStudentUniqueID(db)
	require.NoError(t, err)
	s := &model.StudentModel{StudentUniqueID: uniqueID, StudentName: name}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedEnrollment(t *testing.T, db *gorm.DB, studentID uuid.UUID, year string, roll int) *model.EnrollmentModel {
	t.Helper()
	e := &model.EnrollmentModel{
		EnrollmentStudentID:    studentID,
		EnrollmentClassID:      uuid.New(),
		EnrollmentSectionID:    uuid.New(),
		EnrollmentAcademicYear: year,
		EnrollmentRollNumber:   &roll,
		EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

/* =========================
   Roll allocator
========================= */

func TestNextRollNumber(t *testing.T) {
	db := openTestDB(t)
	sectionID := uuid.New()
	year := "2025-26"

	next, err := NextRollNumber(db, sectionID, year)
	require.NoError(t, err)
	assert.Equal(t, 1, next, "section kosong mulai dari 1")

	s := seedStudent(t, db, "Andi")
	roll := 7
	require.NoError(t, db.Create(&model.EnrollmentModel{
		EnrollmentStudentID:    s.StudentID,
		EnrollmentClassID:      uuid.New(),
		EnrollmentSectionID:    sectionID,
		EnrollmentAcademicYear: year,
		EnrollmentRollNumber:   &roll,
		EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
	}).Error)

	next, err = NextRollNumber(db, sectionID, year)
	require.NoError(t, err)
	assert.Equal(t, 8, next)

	// tahun lain tidak terpengaruh
	next, err = NextRollNumber(db, sectionID, "2026-27")
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestEnsureRollFree(t *testing.T) {
	db := openTestDB(t)
	s := seedStudent(t, db, "Budi")
	e := seedEnrollment(t, db, s.StudentID, "2025-26", 3)

	err := EnsureRollFree(db, e.EnrollmentSectionID, "2025-26", 3, uuid.Nil)
	assert.ErrorIs(t, err, ErrDuplicateRollNumber)

	// enrollment itu sendiri dikecualikan saat update
	err = EnsureRollFree(db, e.EnrollmentSectionID, "2025-26", 3, e.EnrollmentID)
	assert.NoError(t, err)

	// soft delete membebaskan slot
	require.NoError(t, db.Delete(e).Error)
	err = EnsureRollFree(db, e.EnrollmentSectionID, "2025-26", 3, uuid.Nil)
	assert.NoError(t, err)
}

func TestNextStudentUniqueID(t *testing.T) {
	db := openTestDB(t)

	first, err := NextStudentUniqueID(db)
	require.NoError(t, err)
	prefix := "ABC" + time.Now().Format("06")
	assert.Equal(t, prefix+"0001", first)

	require.NoError(t, db.Create(&model.StudentModel{
		StudentUniqueID: first, StudentName: "Citra",
	}).Error)

	second, err := NextStudentUniqueID(db)
	require.NoError(t, err)
	assert.Equal(t, prefix+"0002", second)
}

/* =========================
   Admission & enrollment
========================= */

func TestAdmitAssignsUniqueIDAndRoll(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	req := &dto.AdmitStudentRequest{
		StudentName:  "Dewi",
		ClassID:      uuid.NewString(),
		SectionID:    uuid.NewString(),
		AcademicYear: "2025-26",
	}
	student, enrollment, err := svc.Admit(req)
	require.NoError(t, err)
	assert.NotEmpty(t, student.StudentUniqueID)
	require.NotNil(t, enrollment.EnrollmentRollNumber)
	assert.Equal(t, 1, *enrollment.EnrollmentRollNumber)
	assert.Equal(t, constants.EnrollmentStatusNewAdmission, enrollment.EnrollmentStatus)

	// siswa kedua di section yang sama dapat roll berikutnya
	req2 := &dto.AdmitStudentRequest{
		StudentName:  "Eka",
		ClassID:      req.ClassID,
		SectionID:    req.SectionID,
		AcademicYear: "2025-26",
	}
	_, enrollment2, err := svc.Admit(req2)
	require.NoError(t, err)
	assert.Equal(t, 2, *enrollment2.EnrollmentRollNumber)
}

func TestCreateEnrollmentRejectsDuplicatePlacement(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)
	s := seedStudent(t, db, "Fajar")
	seedEnrollment(t, db, s.StudentID, "2025-26", 1)

	_, err := svc.CreateEnrollment(&dto.CreateEnrollmentRequest{
		StudentID:    s.StudentID.String(),
		ClassID:      uuid.NewString(),
		SectionID:    uuid.NewString(),
		AcademicYear: "2025-26",
	})
	assert.ErrorIs(t, err, ErrDuplicatePlacement)

	// tahun berbeda boleh
	_, err = svc.CreateEnrollment(&dto.CreateEnrollmentRequest{
		StudentID:    s.StudentID.String(),
		ClassID:      uuid.NewString(),
		SectionID:    uuid.NewString(),
		AcademicYear: "2026-27",
	})
	assert.NoError(t, err)
}

func TestCreateEnrollmentRejectsDuplicateRoll(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)
	s1 := seedStudent(t, db, "Gita")
	e1 := seedEnrollment(t, db, s1.StudentID, "2025-26", 5)

	s2 := seedStudent(t, db, "Hana")
	roll := 5
	_, err := svc.CreateEnrollment(&dto.CreateEnrollmentRequest{
		StudentID:    s2.StudentID.String(),
		ClassID:      e1.EnrollmentClassID.String(),
		SectionID:    e1.EnrollmentSectionID.String(),
		AcademicYear: "2025-26",
		RollNumber:   &roll,
	})
	assert.ErrorIs(t, err, ErrDuplicateRollNumber)
}

func TestUpdateEnrollmentRevalidatesRollExcludingSelf(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)
	s1 := seedStudent(t, db, "Indra")
	e1 := seedEnrollment(t, db, s1.StudentID, "2025-26", 1)

	s2 := seedStudent(t, db, "Joko")
	e2 := &model.EnrollmentModel{
		EnrollmentStudentID:    s2.StudentID,
		EnrollmentClassID:      e1.EnrollmentClassID,
		EnrollmentSectionID:    e1.EnrollmentSectionID,
		EnrollmentAcademicYear: "2025-26",
		EnrollmentRollNumber:   intPtr(2),
		EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
	}
	require.NoError(t, db.Create(e2).Error)

	// pindah ke roll yang sudah dipakai e1 -> tolak
	roll := 1
	_, err := svc.UpdateEnrollment(e2.EnrollmentID, &dto.UpdateEnrollmentRequest{RollNumber: &roll})
	assert.ErrorIs(t, err, ErrDuplicateRollNumber)

	// simpan ulang roll miliknya sendiri -> boleh
	roll = 2
	updated, err := svc.UpdateEnrollment(e2.EnrollmentID, &dto.UpdateEnrollmentRequest{RollNumber: &roll})
	require.NoError(t, err)
	assert.Equal(t, 2, *updated.EnrollmentRollNumber)
}

func TestListEnrollmentsFilters(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	class := &academicsModel.ClassModel{ClassID: uuid.New(), ClassName: "Class 5", ClassAcademicYear: "2025-26"}
	require.NoError(t, db.Create(class).Error)
	section := &academicsModel.SectionModel{SectionID: uuid.New(), SectionClassID: class.ClassID, SectionName: "A"}
	require.NoError(t, db.Create(section).Error)

	s1 := seedStudent(t, db, "Kartika Sari")
	s2 := seedStudent(t, db, "Lukman Hakim")
	for i, s := range []*model.StudentModel{s1, s2} {
		roll := i + 1
		require.NoError(t, db.Create(&model.EnrollmentModel{
			EnrollmentStudentID:    s.StudentID,
			EnrollmentClassID:      class.ClassID,
			EnrollmentSectionID:    section.SectionID,
			EnrollmentAcademicYear: "2025-26",
			EnrollmentRollNumber:   &roll,
			EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
		}).Error)
	}

	rows, err := svc.ListEnrollments(EnrollmentFilter{AcademicYear: "2025-26"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Kartika Sari", rows[0].StudentName, "urut roll number")
	assert.Equal(t, "Class 5", rows[0].ClassName)
	assert.Equal(t, "A", rows[0].SectionName)

	rows, err = svc.ListEnrollments(EnrollmentFilter{Search: "lukman"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lukman Hakim", rows[0].StudentName)

	// search by nomor induk
	rows, err = svc.ListEnrollments(EnrollmentFilter{Search: s1.StudentUniqueID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kartika Sari", rows[0].StudentName)

	rows, err = svc.ListEnrollments(EnrollmentFilter{AcademicYear: "1999-00"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func intPtr(v int) *int { return &v }

/* =========================
   Promotion
========================= */

func TestPromoteStudentsBatchAtomic(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromotionService(db)

	var items []dto.PromotionItem
	for i := 0; i < 3; i++ {
		s := seedStudent(t, db, "Siswa")
		seedEnrollment(t, db, s.StudentID, "2024-25", i+1)
		items = append(items, dto.PromotionItem{StudentID: s.StudentID.String()})
	}

	// roll [3,7,7]: duplikat di payload, seluruh batch batal
	items[0].RollNumber = intPtr(3)
	items[1].RollNumber = intPtr(7)
	items[2].RollNumber = intPtr(7)

	req := &dto.PromoteStudentsRequest{
		FromAcademicYear: "2024-25",
		ToAcademicYear:   "2025-26",
		ToClassID:        uuid.NewString(),
		ToSectionID:      uuid.NewString(),
		Students:         items,
	}
	_, err := svc.PromoteStudents(req)
	assert.ErrorIs(t, err, ErrDuplicateRollNumber)

	var count int64
	require.NoError(t, db.Model(&model.EnrollmentModel{}).
		Where("enrollment_academic_year = ?", "2025-26").
		Count(&count).Error)
	assert.Zero(t, count, "tidak boleh ada baris yang tertinggal")

	// perbaiki duplikat, batch jalan semua
	items[2].RollNumber = intPtr(8)
	req.Students = items
	promoted, err := svc.PromoteStudents(req)
	require.NoError(t, err)
	assert.Equal(t, 3, promoted)

	var statuses []string
	require.NoError(t, db.Model(&model.EnrollmentModel{}).
		Where("enrollment_academic_year = ?", "2025-26").
		Pluck("enrollment_status", &statuses).Error)
	require.Len(t, statuses, 3)
	for _, st := range statuses {
		assert.Equal(t, constants.EnrollmentStatusPromoted, st)
	}
}

func TestPromoteStudentsRejectsDemotion(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromotionService(db)
	s := seedStudent(t, db, "Mira")
	seedEnrollment(t, db, s.StudentID, "2025-26", 1)

	_, err := svc.PromoteStudents(&dto.PromoteStudentsRequest{
		FromAcademicYear: "2025-26",
		ToAcademicYear:   "2024-25",
		ToClassID:        uuid.NewString(),
		ToSectionID:      uuid.NewString(),
		Students:         []dto.PromotionItem{{StudentID: s.StudentID.String()}},
	})
	assert.ErrorIs(t, err, ErrInvalidDemotion)
}

func TestPromoteStudentsRejectsAlreadyPlaced(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromotionService(db)

	s1 := seedStudent(t, db, "Nanda")
	seedEnrollment(t, db, s1.StudentID, "2024-25", 1)
	s2 := seedStudent(t, db, "Oscar")
	seedEnrollment(t, db, s2.StudentID, "2024-25", 2)
	// s2 sudah punya penempatan di tahun tujuan
	seedEnrollment(t, db, s2.StudentID, "2025-26", 1)

	_, err := svc.PromoteStudents(&dto.PromoteStudentsRequest{
		FromAcademicYear: "2024-25",
		ToAcademicYear:   "2025-26",
		ToClassID:        uuid.NewString(),
		ToSectionID:      uuid.NewString(),
		Students: []dto.PromotionItem{
			{StudentID: s1.StudentID.String()},
			{StudentID: s2.StudentID.String()},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicatePlacement)

	// s1 pun ikut batal
	var count int64
	require.NoError(t, db.Model(&model.EnrollmentModel{}).
		Where("enrollment_student_id = ? AND enrollment_academic_year = ?", s1.StudentID, "2025-26").
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestPromoteStudentsRequiresSourceEnrollment(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromotionService(db)
	s := seedStudent(t, db, "Putri")

	_, err := svc.PromoteStudents(&dto.PromoteStudentsRequest{
		FromAcademicYear: "2024-25",
		ToAcademicYear:   "2025-26",
		ToClassID:        uuid.NewString(),
		ToSectionID:      uuid.NewString(),
		Students:         []dto.PromotionItem{{StudentID: s.StudentID.String()}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestYearStart(t *testing.T) {
	assert.Equal(t, 2024, yearStart("2024-25"))
	assert.Equal(t, 2025, yearStart("2025"))
	assert.Equal(t, 0, yearStart("tanpa-angka"))
}

/* =========================
   Deferred delete
========================= */

func TestDeferredDeleteCancelRestores(t *testing.T) {
	db := openTestDB(t)
	s := seedStudent(t, db, "Rani")
	e := seedEnrollment(t, db, s.StudentID, "2025-26", 4)

	deleter := NewDeferredDeleteService(db, time.Hour)
	handle, err := deleter.Schedule(e.EnrollmentID)
	require.NoError(t, err)

	// selama pending, baris tidak terlihat query biasa
	var count int64
	require.NoError(t, db.Model(&model.EnrollmentModel{}).
		Where("enrollment_id = ?", e.EnrollmentID).Count(&count).Error)
	assert.Zero(t, count)
	assert.True(t, deleter.IsPending(e.EnrollmentID))

	require.NoError(t, deleter.Cancel(e.EnrollmentID, handle))

	var restored model.EnrollmentModel
	require.NoError(t, db.First(&restored, "enrollment_id = ?", e.EnrollmentID).Error)
	assert.Equal(t, e.EnrollmentAcademicYear, restored.EnrollmentAcademicYear)
	require.NotNil(t, restored.EnrollmentRollNumber)
	assert.Equal(t, 4, *restored.EnrollmentRollNumber)
	assert.False(t, deleter.IsPending(e.EnrollmentID))
}

func TestDeferredDeleteRejectsSecondSchedule(t *testing.T) {
	db := openTestDB(t)
	s := seedStudent(t, db, "Sari")
	e := seedEnrollment(t, db, s.StudentID, "2025-26", 1)

	deleter := NewDeferredDeleteService(db, time.Hour)
	_, err := deleter.Schedule(e.EnrollmentID)
	require.NoError(t, err)

	_, err = deleter.Schedule(e.EnrollmentID)
	assert.ErrorIs(t, err, ErrDeletePending)
}

func TestDeferredDeleteCommitsAfterGrace(t *testing.T) {
	db := openTestDB(t)
	s := seedStudent(t, db, "Tono")
	e := seedEnrollment(t, db, s.StudentID, "2025-26", 1)

	deleter := NewDeferredDeleteService(db, 20*time.Millisecond)
	handle, err := deleter.Schedule(e.EnrollmentID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return !deleter.IsPending(e.EnrollmentID)
	}, time.Second, 10*time.Millisecond)

	// hard delete: unscoped pun tidak menemukan baris
	var count int64
	require.NoError(t, db.Unscoped().Model(&model.EnrollmentModel{}).
		Where("enrollment_id = ?", e.EnrollmentID).Count(&count).Error)
	assert.Zero(t, count)

	// undo setelah commit terlambat
	err = deleter.Cancel(e.EnrollmentID, handle)
	assert.ErrorIs(t, err, ErrAlreadyCommitted)
}

func TestDeferredDeleteUnknownEnrollment(t *testing.T) {
	db := openTestDB(t)
	deleter := NewDeferredDeleteService(db, time.Hour)
	_, err := deleter.Schedule(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

/* =========================
   Validasi roll murni
========================= */

func TestValidateRollNumber(t *testing.T) {
	taken := map[int]bool{3: true}
	assert.ErrorIs(t, ValidateRollNumber(3, taken), ErrDuplicateRollNumber)
	assert.NoError(t, ValidateRollNumber(4, taken))
	assert.NoError(t, ValidateRollNumber(1, nil))
}

func TestValidateBatchRolls(t *testing.T) {
	assert.ErrorIs(t, ValidateBatchRolls([]*int{intPtr(3), intPtr(7), intPtr(7)}), ErrDuplicateRollNumber)
	assert.NoError(t, ValidateBatchRolls([]*int{intPtr(3), intPtr(7), intPtr(8)}))
	// nil (alokasi otomatis) tidak dianggap duplikat
	assert.NoError(t, ValidateBatchRolls([]*int{nil, nil, intPtr(1)}))
	assert.NoError(t, ValidateBatchRolls(nil))
}

/* =========================
   Directory
========================= */

func TestListStudentDirectory(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	enrolled := seedStudent(t, db, "Ayu Lestari")
	seedEnrollment(t, db, enrolled.StudentID, "2024-25", 1)
	seedEnrollment(t, db, enrolled.StudentID, "2025-26", 2)
	never := seedStudent(t, db, "Zaki Pratama")

	rows, err := svc.ListStudentDirectory("")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ayu Lestari", rows[0].StudentName)
	assert.Equal(t, 2, rows[0].EnrollmentCount)
	assert.Equal(t, "2025-26", rows[0].LatestAcademicYear)

	assert.Equal(t, "Zaki Pratama", rows[1].StudentName, "siswa tanpa enrollment tetap muncul")
	assert.Zero(t, rows[1].EnrollmentCount)
	assert.Empty(t, rows[1].LatestAcademicYear)

	rows, err = svc.ListStudentDirectory(never.StudentUniqueID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Zaki Pratama", rows[0].StudentName)
}

func TestHardDeleteStudentOnlyWithoutEnrollments(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	enrolled := seedStudent(t, db, "Vina")
	e := seedEnrollment(t, db, enrolled.StudentID, "2025-26", 1)
	assert.ErrorIs(t, svc.HardDeleteStudent(enrolled.StudentID), ErrStudentEnrolled)

	// riwayat soft-deleted pun tetap memblokir
	require.NoError(t, db.Delete(e).Error)
	assert.ErrorIs(t, svc.HardDeleteStudent(enrolled.StudentID), ErrStudentEnrolled)

	mistaken := seedStudent(t, db, "Wawan")
	require.NoError(t, svc.HardDeleteStudent(mistaken.StudentID))

	var count int64
	require.NoError(t, db.Unscoped().Model(&model.StudentModel{}).
		Where("student_id = ?", mistaken.StudentID).Count(&count).Error)
	assert.Zero(t, count, "terhapus permanen")

	assert.ErrorIs(t, svc.HardDeleteStudent(uuid.New()), ErrNotFound)
}
