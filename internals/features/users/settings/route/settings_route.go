package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	settingsController "schoolku_backend/internals/features/users/settings/controller"
)

// Admin routes. Mount: SettingsAdminRoutes(app.Group("/api/a"), db)
func SettingsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := &settingsController.SettingsController{DB: db}
	settings := r.Group("/settings")
	settings.Get("/:name", ctl.GetSetting) // GET /api/a/settings/:name
	settings.Put("/:name", ctl.SetSetting) // PUT /api/a/settings/:name
}
