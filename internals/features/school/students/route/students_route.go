package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "schoolku_backend/internals/features/school/students/controller"
)

/*
Teacher routes: kelola siswa & enrollment. Group /api/t sudah dibungkus
TeacherManageGate, guru hanya lolos kalau setting-nya aktif.
*/
func StudentsTeacherRoutes(r fiber.Router, db *gorm.DB) {
	studentCtl := studentController.NewStudentController(db)
	enrollCtl := studentController.NewEnrollmentController(db)

	students := r.Group("/students")
	students.Post("/admit", studentCtl.AdmitStudent)
	students.Get("/lookup", studentCtl.LookupStudent)
	students.Get("/:id", studentCtl.GetStudent)
	students.Patch("/:id", studentCtl.UpdateStudent)

	enrollments := r.Group("/enrollments")
	enrollments.Get("/", enrollCtl.ListEnrollments)
	enrollments.Post("/", enrollCtl.CreateEnrollment)
	enrollments.Patch("/:id", enrollCtl.UpdateEnrollment)
	enrollments.Delete("/:id", enrollCtl.DeleteEnrollment)
	enrollments.Post("/:id/undo", enrollCtl.UndoDeleteEnrollment)
}

/*
Admin routes: promosi kenaikan kelas + direktori siswa.
*/
func StudentsAdminRoutes(r fiber.Router, db *gorm.DB) {
	studentCtl := studentController.NewStudentController(db)
	promoCtl := studentController.NewPromotionController(db)

	promotions := r.Group("/promotions")
	promotions.Post("/", promoCtl.PromoteStudents)
	promotions.Get("/promoted", promoCtl.ListPromotedStudents)

	students := r.Group("/students")
	students.Get("/directory", studentCtl.ListStudentDirectory)
	students.Delete("/:id", studentCtl.HardDeleteStudent)
}
