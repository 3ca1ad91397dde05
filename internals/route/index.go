package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/constants"
	academicsRoute "schoolku_backend/internals/features/school/academics/route"
	resultsRoute "schoolku_backend/internals/features/school/results/route"
	studentsRoute "schoolku_backend/internals/features/school/students/route"
	authRoute "schoolku_backend/internals/features/users/auth/route"
	settingsRoute "schoolku_backend/internals/features/users/settings/route"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

/*
Tiga lapis group:
  /api/u  login saja, read-only
  /api/t  admin atau guru, guru dicek gate setting per request
  /api/a  admin saja
*/
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	authRoute.AuthRoutes(app, db)

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	user := app.Group("/api/u", jwt)
	academicsRoute.AcademicsUserRoutes(user, db)

	teacher := app.Group("/api/t", jwt,
		authMiddleware.RequireRoles("portal guru", constants.RoleAdmin, constants.RoleTeacher),
	)
	resultsRoute.ResultsTeacherRoutes(teacher, db)

	// Kelola siswa dicek gate setting, upload nilai tidak.
	manage := teacher.Group("", authMiddleware.TeacherManageGate(db))
	studentsRoute.StudentsTeacherRoutes(manage, db)

	admin := app.Group("/api/a", jwt,
		authMiddleware.RequireRoles("administrasi", constants.RoleAdmin),
	)
	academicsRoute.AcademicsAdminRoutes(admin, db)
	studentsRoute.StudentsAdminRoutes(admin, db)
	resultsRoute.ResultsAdminRoutes(admin, db)
	settingsRoute.SettingsAdminRoutes(admin, db)
}
