package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	settingsService "schoolku_backend/internals/features/users/settings/service"
)

// TeacherManageGate membatasi fitur manajemen siswa untuk role teacher.
// Flag allow_teachers_manage_students SELALU dibaca dari DB per request —
// bukan variabel global — supaya perubahan izin langsung berlaku tanpa
// restart dan tanpa race izin basi.
func TeacherManageGate(db *gorm.DB) fiber.Handler {
	svc := settingsService.New(db)

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		switch role {
		case constants.RoleAdmin:
			return c.Next()
		case constants.RoleTeacher:
			enabled, err := svc.IsEnabled(c.UserContext(), constants.SettingAllowTeachersManageStudents)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal membaca pengaturan akses")
			}
			if !enabled {
				return fiber.NewError(fiber.StatusForbidden, "Akses teacher untuk manajemen siswa sedang dimatikan")
			}
			return c.Next()
		default:
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher("manajemen siswa"))
		}
	}
}
