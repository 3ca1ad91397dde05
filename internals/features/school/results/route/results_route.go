package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	resultsController "schoolku_backend/internals/features/school/results/controller"
)

/*
Teacher routes: upload nilai + lihat hasil. Publish tetap khusus admin.
*/
func ResultsTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := resultsController.NewResultsController(db)

	marks := r.Group("/marks")
	marks.Get("/", ctl.ListMarks)
	marks.Post("/", ctl.UpsertMarks)

	r.Get("/result-locks", ctl.GetLockStatus)

	results := r.Group("/results")
	results.Get("/", ctl.ListSectionResults)
	results.Get("/:student_id", ctl.GetStudentResult)
}

/*
Admin routes: publish / unpublish hasil.
*/
func ResultsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := resultsController.NewResultsController(db)
	r.Put("/result-locks", ctl.SetLock)
}
