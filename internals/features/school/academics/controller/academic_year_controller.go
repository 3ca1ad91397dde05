package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	academicsDTO "schoolku_backend/internals/features/school/academics/dto"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	helper "schoolku_backend/internals/helpers"
)

type AcademicYearController struct {
	DB *gorm.DB
}

/* =========================================================
   LIST
   GET /api/a/academic-years
   ========================================================= */
func (h *AcademicYearController) ListAcademicYears(c *fiber.Ctx) error {
	var rows []academicsModel.AcademicYearModel
	if err := h.DB.WithContext(c.UserContext()).
		Order("academic_year_name DESC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data tahun ajaran")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

/* =========================================================
   DISTINCT YEARS (untuk dropdown)
   GET /api/u/academic-years/distinct
   Mengembalikan daftar nama tahun yang benar-benar terpakai
   di enrollments + yang terdaftar di academic_years.
   ========================================================= */
func (h *AcademicYearController) ListDistinctYears(c *fiber.Ctx) error {
	var names []string
	if err := h.DB.WithContext(c.UserContext()).
		Model(&academicsModel.AcademicYearModel{}).
		Distinct("academic_year_name").
		Order("academic_year_name DESC").
		Pluck("academic_year_name", &names).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil tahun ajaran")
	}
	return helper.JsonList(c, "ok", names, nil)
}

/* =========================================================
   CREATE
   POST /api/a/academic-years
   ========================================================= */
func (h *AcademicYearController) CreateAcademicYear(c *fiber.Ctx) error {
	var req academicsDTO.CreateAcademicYearRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	// cek duplikat nama
	var cnt int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&academicsModel.AcademicYearModel{}).
		Where("academic_year_name = ?", req.YearName).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi tahun")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusConflict, "Tahun ajaran sudah terdaftar")
	}

	m := academicsModel.AcademicYearModel{AcademicYearName: req.YearName}
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat tahun ajaran")
	}
	return helper.JsonCreated(c, "Tahun ajaran berhasil dibuat", m)
}

/* =========================================================
   ACTIVATE
   POST /api/a/academic-years/:id/activate
   Transaksi: matikan flag tahun lain, nyalakan satu.
   ========================================================= */
func (h *AcademicYearController) ActivateAcademicYear(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m academicsModel.AcademicYearModel
		if err := tx.Where("academic_year_id = ?", id).First(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tahun ajaran tidak ditemukan")
		}
		if err := tx.Model(&academicsModel.AcademicYearModel{}).
			Where("academic_year_is_active = ?", true).
			Update("academic_year_is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menonaktifkan tahun lain")
		}
		if err := tx.Model(&academicsModel.AcademicYearModel{}).
			Where("academic_year_id = ?", id).
			Update("academic_year_is_active", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengaktifkan tahun ajaran")
		}
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Tahun ajaran diaktifkan", fiber.Map{"academic_year_id": id})
}

/* =========================================================
   DELETE
   DELETE /api/a/academic-years/:id
   ========================================================= */
func (h *AcademicYearController) DeleteAcademicYear(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	res := h.DB.WithContext(c.UserContext()).
		Where("academic_year_id = ?", id).
		Delete(&academicsModel.AcademicYearModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus tahun ajaran")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Tahun ajaran tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Tahun ajaran dihapus", fiber.Map{"academic_year_id": id})
}
