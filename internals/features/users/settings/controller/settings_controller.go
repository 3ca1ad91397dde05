package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	settingsService "schoolku_backend/internals/features/users/settings/service"
	helper "schoolku_backend/internals/helpers"
)

type SettingsController struct {
	DB *gorm.DB
}

type setSettingRequest struct {
	IsEnabled *bool `json:"is_enabled" validate:"required"`
}

// GET /api/a/settings/:name
func (h *SettingsController) GetSetting(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Nama setting wajib diisi")
	}

	m, err := settingsService.New(h.DB).Get(c.UserContext(), name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// setting yang belum pernah dibuat = false
		return helper.JsonOK(c, "ok", fiber.Map{
			"app_setting_name":       name,
			"app_setting_is_enabled": false,
		})
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membaca setting")
	}
	return helper.JsonOK(c, "ok", m)
}

// PUT /api/a/settings/:name
func (h *SettingsController) SetSetting(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Nama setting wajib diisi")
	}

	var req setSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	if req.IsEnabled == nil {
		return fiber.NewError(fiber.StatusBadRequest, "is_enabled wajib diisi")
	}

	m, err := settingsService.New(h.DB).Set(c.UserContext(), name, *req.IsEnabled)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan setting")
	}
	return helper.JsonUpdated(c, "Setting berhasil disimpan", m)
}
