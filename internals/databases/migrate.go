package database

import (
	"log"

	academicsModel "schoolku_backend/internals/features/school/academics/model"
	resultsModel "schoolku_backend/internals/features/school/results/model"
	studentsModel "schoolku_backend/internals/features/school/students/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	settingsModel "schoolku_backend/internals/features/users/settings/model"
)

// MigrateAll menjalankan AutoMigrate untuk semua tabel. Urutan
// mengikuti dependensi logis (master dulu, transaksi belakangan).
func MigrateAll() {
	err := DB.AutoMigrate(
		&authModel.UserModel{},
		&authModel.UserRoleModel{},
		&settingsModel.AppSettingModel{},
		&academicsModel.AcademicYearModel{},
		&academicsModel.ClassModel{},
		&academicsModel.SectionModel{},
		&academicsModel.SubjectModel{},
		&academicsModel.ExamModel{},
		&studentsModel.StudentModel{},
		&studentsModel.EnrollmentModel{},
		&resultsModel.MarkModel{},
		&resultsModel.ResultLockModel{},
	)
	if err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}
	log.Println("✅ Migrasi selesai.")
}
