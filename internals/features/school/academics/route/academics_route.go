package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	academicsController "schoolku_backend/internals/features/school/academics/controller"
)

/*
User routes: read-only (dropdown tahun/kelas/section/mapel/ujian).
Mount: AcademicsUserRoutes(app.Group("/api/u"), db)
*/
func AcademicsUserRoutes(r fiber.Router, db *gorm.DB) {
	yearCtl := &academicsController.AcademicYearController{DB: db}
	classCtl := &academicsController.ClassController{DB: db}
	subjectCtl := &academicsController.SubjectController{DB: db}

	r.Get("/academic-years/distinct", yearCtl.ListDistinctYears)
	r.Get("/classes", classCtl.ListClasses)
	r.Get("/sections", classCtl.ListSections)
	r.Get("/subjects", subjectCtl.ListSubjects)
	r.Get("/exams", subjectCtl.ListExams)
}

/*
Admin routes: full CRUD.
Mount: AcademicsAdminRoutes(app.Group("/api/a"), db)
*/
func AcademicsAdminRoutes(r fiber.Router, db *gorm.DB) {
	yearCtl := &academicsController.AcademicYearController{DB: db}
	classCtl := &academicsController.ClassController{DB: db}
	subjectCtl := &academicsController.SubjectController{DB: db}

	years := r.Group("/academic-years")
	years.Get("/", yearCtl.ListAcademicYears)
	years.Post("/", yearCtl.CreateAcademicYear)
	years.Post("/:id/activate", yearCtl.ActivateAcademicYear)
	years.Delete("/:id", yearCtl.DeleteAcademicYear)

	classes := r.Group("/classes")
	classes.Post("/", classCtl.CreateClass)
	classes.Delete("/:id", classCtl.DeleteClass)

	sections := r.Group("/sections")
	sections.Post("/", classCtl.CreateSection)
	sections.Delete("/:id", classCtl.DeleteSection)

	subjects := r.Group("/subjects")
	subjects.Post("/", subjectCtl.CreateSubject)
	subjects.Delete("/:id", subjectCtl.DeleteSubject)

	exams := r.Group("/exams")
	exams.Post("/", subjectCtl.CreateExam)
	exams.Delete("/:id", subjectCtl.DeleteExam)
}
