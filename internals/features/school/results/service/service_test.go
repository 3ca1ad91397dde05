package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/constants"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	"schoolku_backend/internals/features/school/results/dto"
	"schoolku_backend/internals/features/school/results/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
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
		&academicsModel.SubjectModel{},
		&academicsModel.ExamModel{},
		&studentModel.StudentModel{},
		&studentModel.EnrollmentModel{},
		&model.MarkModel{},
		&model.ResultLockModel{},
	))
	return db
}

func newSitting() Sitting {
	return Sitting{
		ExamID:       uuid.New(),
		ClassID:      uuid.New(),
		SectionID:    uuid.New(),
		AcademicYear: "2025-26",
	}
}

func seedSubject(t *testing.T, db *gorm.DB, name string) *academicsModel.SubjectModel {
	t.Helper()
	sub := &academicsModel.SubjectModel{
		SubjectID:           uuid.New(),
		SubjectClassID:      uuid.New(),
		SubjectAcademicYear: "2025-26",
		SubjectName:         name,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

/* =========================
   Grade table (fungsi murni)
========================= */

func TestGradeForTable(t *testing.T) {
	cases := []struct {
		pct    float64
		grade  string
		remark string
	}{
		{100, "O", "Outstanding"},
		{90, "O", "Outstanding"},
		{89.99, "A+", "Excellent"},
		{80, "A+", "Excellent"},
		{70, "A", "Very Good"},
		{60, "B+", "Good"},
		{50, "B", "Satisfactory"},
		{40, "C", "Needs Improvement"},
		{39.99, "F", "Fail"},
		{0, "F", "Fail"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("pct_%v", tc.pct), func(t *testing.T) {
			grade, remark := GradeFor(tc.pct)
			assert.Equal(t, tc.grade, grade)
			assert.Equal(t, tc.remark, remark)
		})
	}
}

func TestGradeForMonotonic(t *testing.T) {
	rank := map[string]int{"F": 0, "C": 1, "B": 2, "B+": 3, "A": 4, "A+": 5, "O": 6}
	prev := -1
	for pct := 0; pct <= 100; pct++ {
		grade, remark := GradeFor(float64(pct))
		r, ok := rank[grade]
		require.True(t, ok, "grade tak dikenal: %s", grade)
		require.NotEmpty(t, remark)
		require.GreaterOrEqual(t, r, prev, "grade turun di pct=%d", pct)
		prev = r
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 75.0, Percentage(75, 100))
	assert.Equal(t, 66.67, Percentage(2, 3), "dibulatkan 2 desimal")
	assert.Equal(t, 0.0, Percentage(10, 0), "full marks 0 tidak membagi nol")
}

func TestComputeResult(t *testing.T) {
	subjects := []dto.SubjectResult{
		{Obtained: 90, FullMarks: 100, Grade: "O"},
		{Obtained: 45, FullMarks: 100, Grade: "C"},
	}
	total, full, pct, grade, remark, passed := ComputeResult(subjects)
	assert.Equal(t, 135.0, total)
	assert.Equal(t, 200.0, full)
	assert.Equal(t, 67.5, pct)
	assert.Equal(t, "B+", grade)
	assert.Equal(t, "Good", remark)
	assert.True(t, passed)
}

func TestComputeResultFailOnAnySubject(t *testing.T) {
	subjects := []dto.SubjectResult{
		{Obtained: 95, FullMarks: 100, Grade: "O"},
		{Obtained: 10, FullMarks: 100, Grade: "F"},
	}
	_, _, _, grade, remark, passed := ComputeResult(subjects)
	assert.False(t, passed)
	assert.Equal(t, "F", grade)
	assert.Equal(t, "Fail", remark)
}

func TestComputeResultEmpty(t *testing.T) {
	_, _, pct, _, _, passed := ComputeResult(nil)
	assert.Zero(t, pct)
	assert.False(t, passed)
}

/* =========================
   Lock
========================= */

func TestSetLockIdempotent(t *testing.T) {
	db := openTestDB(t)
	locks := NewLockService(db)
	sitting := newSitting()

	locked, err := locks.IsLocked(sitting)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, locks.SetLock(sitting, true, uuid.New()))
	require.NoError(t, locks.SetLock(sitting, true, uuid.New()), "lock ulang bukan error")

	var count int64
	require.NoError(t, db.Model(&model.ResultLockModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "tetap satu baris")

	locked, err = locks.IsLocked(sitting)
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, locks.SetLock(sitting, false, uuid.Nil))
	require.NoError(t, locks.SetLock(sitting, false, uuid.Nil), "unlock ulang bukan error")

	locked, err = locks.IsLocked(sitting)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLockScopedPerSitting(t *testing.T) {
	db := openTestDB(t)
	locks := NewLockService(db)
	a := newSitting()
	b := newSitting()

	require.NoError(t, locks.SetLock(a, true, uuid.Nil))

	locked, err := locks.IsLocked(b)
	require.NoError(t, err)
	assert.False(t, locked, "sitting lain tidak ikut terkunci")
}

/* =========================
   Marks upsert
========================= */

func TestUpsertMarksBlockedWhileLocked(t *testing.T) {
	db := openTestDB(t)
	locks := NewLockService(db)
	marks := NewMarkService(db)
	sitting := newSitting()
	studentID := uuid.NewString()
	subjectID := uuid.NewString()

	entries := []dto.MarkEntry{{StudentID: studentID, SubjectID: subjectID, Obtained: 80, FullMarks: 100}}

	require.NoError(t, locks.SetLock(sitting, true, uuid.Nil))
	_, err := marks.UpsertMarks(sitting, entries, uuid.Nil)
	assert.ErrorIs(t, err, ErrResultsLocked)

	var count int64
	require.NoError(t, db.Model(&model.MarkModel{}).Count(&count).Error)
	assert.Zero(t, count, "batch terkunci tidak menulis apa pun")

	require.NoError(t, locks.SetLock(sitting, false, uuid.Nil))
	saved, err := marks.UpsertMarks(sitting, entries, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestUpsertMarksUpdatesExisting(t *testing.T) {
	db := openTestDB(t)
	marks := NewMarkService(db)
	sitting := newSitting()
	studentID := uuid.NewString()
	subjectID := uuid.NewString()

	_, err := marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: studentID, SubjectID: subjectID, Obtained: 50, FullMarks: 100},
	}, uuid.Nil)
	require.NoError(t, err)

	// upload ulang nilai yang sama: update, bukan baris baru
	_, err = marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: studentID, SubjectID: subjectID, Obtained: 72, FullMarks: 100},
	}, uuid.Nil)
	require.NoError(t, err)

	var rows []model.MarkModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 72.0, rows[0].MarkObtained)
}

/* =========================
   Result assembly
========================= */

func TestComputeStudentResult(t *testing.T) {
	db := openTestDB(t)
	marks := NewMarkService(db)
	results := NewResultService(db)
	sitting := newSitting()

	math := seedSubject(t, db, "Mathematics")
	sci := seedSubject(t, db, "Science")

	student := &studentModel.StudentModel{StudentUniqueID: "ABC250001", StudentName: "Umar"}
	require.NoError(t, db.Create(student).Error)
	roll := 9
	require.NoError(t, db.Create(&studentModel.EnrollmentModel{
		EnrollmentStudentID:    student.StudentID,
		EnrollmentClassID:      sitting.ClassID,
		EnrollmentSectionID:    sitting.SectionID,
		EnrollmentAcademicYear: sitting.AcademicYear,
		EnrollmentRollNumber:   &roll,
		EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
	}).Error)

	_, err := marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: student.StudentID.String(), SubjectID: math.SubjectID.String(), Obtained: 92, FullMarks: 100},
		{StudentID: student.StudentID.String(), SubjectID: sci.SubjectID.String(), Obtained: 58, FullMarks: 100},
	}, uuid.Nil)
	require.NoError(t, err)

	result, err := results.ComputeStudentResult(student.StudentID, sitting)
	require.NoError(t, err)
	assert.Equal(t, "Umar", result.StudentName)
	require.NotNil(t, result.RollNumber)
	assert.Equal(t, 9, *result.RollNumber)
	require.Len(t, result.Subjects, 2)
	assert.Equal(t, "Mathematics", result.Subjects[0].SubjectName, "urut nama mapel")
	assert.Equal(t, 150.0, result.TotalObtained)
	assert.Equal(t, 75.0, result.Percentage)
	assert.Equal(t, "A", result.Grade)
	assert.True(t, result.Passed)
}

func TestComputeStudentResultNoMarks(t *testing.T) {
	db := openTestDB(t)
	results := NewResultService(db)
	_, err := results.ComputeStudentResult(uuid.New(), newSitting())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSectionResults(t *testing.T) {
	db := openTestDB(t)
	marks := NewMarkService(db)
	results := NewResultService(db)
	sitting := newSitting()
	sub := seedSubject(t, db, "English")

	// dua siswa di roster, satu punya nilai, satu belum
	var students []*studentModel.StudentModel
	for i := 0; i < 2; i++ {
		s := &studentModel.StudentModel{
			StudentUniqueID: fmt.Sprintf("ABC25000%d", i+2),
			StudentName:     fmt.Sprintf("Siswa %d", i+1),
		}
		require.NoError(t, db.Create(s).Error)
		roll := i + 1
		require.NoError(t, db.Create(&studentModel.EnrollmentModel{
			EnrollmentStudentID:    s.StudentID,
			EnrollmentClassID:      sitting.ClassID,
			EnrollmentSectionID:    sitting.SectionID,
			EnrollmentAcademicYear: sitting.AcademicYear,
			EnrollmentRollNumber:   &roll,
			EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
		}).Error)
		students = append(students, s)
	}

	_, err := marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: students[0].StudentID.String(), SubjectID: sub.SubjectID.String(), Obtained: 44, FullMarks: 100},
	}, uuid.Nil)
	require.NoError(t, err)

	rows, err := results.ListSectionResults(sitting)
	require.NoError(t, err)
	require.Len(t, rows, 2, "siswa tanpa nilai tetap muncul")
	assert.Equal(t, "Siswa 1", rows[0].StudentName)
	require.Len(t, rows[0].Subjects, 1)
	assert.Equal(t, "C", rows[0].Subjects[0].Grade)
	assert.Empty(t, rows[1].Subjects)
	assert.False(t, rows[1].Passed)
}

func TestUpsertMarksRejectsObtainedAboveFull(t *testing.T) {
	db := openTestDB(t)
	marks := NewMarkService(db)
	sitting := newSitting()

	_, err := marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: uuid.NewString(), SubjectID: uuid.NewString(), Obtained: 150, FullMarks: 100},
	}, uuid.Nil)
	assert.ErrorIs(t, err, ErrMarkExceedsFull)

	var count int64
	require.NoError(t, db.Model(&model.MarkModel{}).Count(&count).Error)
	assert.Zero(t, count, "tidak ada baris yang tertulis")
}

func TestUpsertMarksRecordsEnteredBy(t *testing.T) {
	db := openTestDB(t)
	marks := NewMarkService(db)
	sitting := newSitting()
	firstUser := uuid.New()
	secondUser := uuid.New()
	studentID := uuid.NewString()
	subjectID := uuid.NewString()

	_, err := marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: studentID, SubjectID: subjectID, Obtained: 40, FullMarks: 100},
	}, firstUser)
	require.NoError(t, err)

	var row model.MarkModel
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, firstUser, row.MarkEnteredBy)

	// koreksi oleh user lain menimpa pencatatnya
	_, err = marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: studentID, SubjectID: subjectID, Obtained: 55, FullMarks: 100},
	}, secondUser)
	require.NoError(t, err)

	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, secondUser, row.MarkEnteredBy)
	assert.Equal(t, 55.0, row.MarkObtained)
}

func TestUpsertMarksLockNotBypassedByForgedSitting(t *testing.T) {
	db := openTestDB(t)
	locks := NewLockService(db)
	marks := NewMarkService(db)
	sitting := newSitting()
	subjectID := uuid.NewString()

	// siswa punya enrollment di kelas/section sitting yang asli
	student := &studentModel.StudentModel{StudentUniqueID: "ABC250099", StudentName: "Wati"}
	require.NoError(t, db.Create(student).Error)
	roll := 1
	require.NoError(t, db.Create(&studentModel.EnrollmentModel{
		EnrollmentStudentID:    student.StudentID,
		EnrollmentClassID:      sitting.ClassID,
		EnrollmentSectionID:    sitting.SectionID,
		EnrollmentAcademicYear: sitting.AcademicYear,
		EnrollmentRollNumber:   &roll,
		EnrollmentStatus:       constants.EnrollmentStatusNewAdmission,
	}).Error)

	_, err := marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: student.StudentID.String(), SubjectID: subjectID, Obtained: 90, FullMarks: 100},
	}, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, locks.SetLock(sitting, true, uuid.Nil))

	// ujian + tahun sama, kelas/section dikarang bebas
	forged := Sitting{
		ExamID:       sitting.ExamID,
		ClassID:      uuid.New(),
		SectionID:    uuid.New(),
		AcademicYear: sitting.AcademicYear,
	}
	_, err = marks.UpsertMarks(forged, []dto.MarkEntry{
		{StudentID: student.StudentID.String(), SubjectID: subjectID, Obtained: 10, FullMarks: 100},
	}, uuid.Nil)
	assert.ErrorIs(t, err, ErrResultsLocked)

	var row model.MarkModel
	require.NoError(t, db.First(&row, "mark_student_id = ?", student.StudentID).Error)
	assert.Equal(t, 90.0, row.MarkObtained, "nilai terkunci tidak berubah")
	assert.Equal(t, sitting.ClassID, row.MarkClassID)
	assert.Equal(t, sitting.SectionID, row.MarkSectionID)
}

func TestUpsertMarksForgedSittingFallsBackToStoredMark(t *testing.T) {
	db := openTestDB(t)
	locks := NewLockService(db)
	marks := NewMarkService(db)
	sitting := newSitting()
	studentID := uuid.NewString()
	subjectID := uuid.NewString()

	// tanpa enrollment: baris mark lama yang jadi acuan sitting
	_, err := marks.UpsertMarks(sitting, []dto.MarkEntry{
		{StudentID: studentID, SubjectID: subjectID, Obtained: 80, FullMarks: 100},
	}, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, locks.SetLock(sitting, true, uuid.Nil))

	forged := Sitting{
		ExamID:       sitting.ExamID,
		ClassID:      uuid.New(),
		SectionID:    uuid.New(),
		AcademicYear: sitting.AcademicYear,
	}
	_, err = marks.UpsertMarks(forged, []dto.MarkEntry{
		{StudentID: studentID, SubjectID: subjectID, Obtained: 5, FullMarks: 100},
	}, uuid.Nil)
	assert.ErrorIs(t, err, ErrResultsLocked)

	var row model.MarkModel
	require.NoError(t, db.First(&row, "mark_student_id = ?", studentID).Error)
	assert.Equal(t, 80.0, row.MarkObtained)
}
